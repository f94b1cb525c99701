// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trade-journal/internal/backup"
)

// addBackupCommands adds export/import commands.
func addBackupCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newExportCmd(app))
	rootCmd.AddCommand(newImportCmd(app))
}

func newExportCmd(app *App) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the journal as a JSON backup",
		Long: `Export all trades as a JSON array. Without --out the backup is written
to stdout, so it can be piped or redirected.`,
		Example: `  journal export --out trades.json
  journal export > trades.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if outPath == "" {
				data, err := backup.Export(app.Journal)
				if err != nil {
					return err
				}
				output.Println(string(data))
				return nil
			}

			if err := backup.ExportToFile(app.Journal, outPath); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"file":   outPath,
					"trades": app.Journal.Len(),
				})
			}
			output.Success("✓ Exported %d trade(s) to %s", app.Journal.Len(), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "write the backup to this file")

	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Replace the journal from a JSON backup",
		Long: `Replace the entire journal with the trades in a backup. The backup must
be a JSON array of trades (or an object with a "trades" array); on any
failure the current journal is left untouched.

Records without an id are assigned one during import.`,
		Example: `  journal import trades.json
  journal import --url https://example.com/trades.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if (len(args) == 0) == (url == "") {
				return fmt.Errorf("pass either a backup file or --url")
			}

			timeout := time.Duration(app.Config.Import.TimeoutSeconds) * time.Second
			importer := backup.NewImporter(app.Journal, app.Logger, timeout)

			var (
				count  int
				source string
				err    error
			)
			if url != "" {
				source = url
				count, err = importer.FromURL(cmd.Context(), url)
			} else {
				source = args[0]
				count, err = importer.FromFile(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"source": source,
					"trades": count,
				})
			}
			output.Success("✓ Imported %d trade(s) from %s", count, source)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "fetch the backup from this URL")

	return cmd
}
