// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"trade-journal/internal/journal"
	"trade-journal/internal/models"
	"trade-journal/internal/stats"
)

// addTradeCommands adds trade logging commands.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newTradeAddCmd(app))
	rootCmd.AddCommand(newTradeListCmd(app))
	rootCmd.AddCommand(newTradeUpdateCmd(app))
	rootCmd.AddCommand(newTradeDeleteCmd(app))
}

// chartLinkFlags maps flag names to chart link keys.
var chartLinkFlags = map[string]string{
	"chart-d1":  "d1",
	"chart-h4":  "h4",
	"chart-h1":  "h1",
	"chart-m30": "m30",
	"chart-m15": "m15",
}

func newTradeAddCmd(app *App) *cobra.Command {
	var in journal.TradeInput
	chartLinks := make(map[string]*string, len(chartLinkFlags))

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a new trade",
		Long: `Log a new trade with entry/exit prices and P&L.

The trade direction is derived from the prices: exit at or above entry is a
Buy, below is a Sell. Date and hour default to the current moment; pass
--date (YYYY-MM-DD) and --time (HH:MM) to backdate.`,
		Example: `  journal add --pair eurusd --entry 1.0850 --exit 1.0900 --lots 0.5 --pnl 250
  journal add --pair XAUUSD --entry 2400 --exit 2390 --lots 0.1 --pnl -100 --session london
  journal add --pair gbpjpy --entry 190.5 --exit 191.2 --lots 1 --pnl 700 --date 2024-05-03 --time 14:30`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if strings.TrimSpace(in.Pair) == "" {
				return fmt.Errorf("--pair is required")
			}
			if in.Session != "" && !models.ValidSession(in.Session) {
				return fmt.Errorf("unknown session %q (valid: %s)", in.Session, strings.Join(models.SessionKeys, ", "))
			}

			links := make(map[string]string)
			for flag, key := range chartLinkFlags {
				if v := *chartLinks[flag]; v != "" {
					links[key] = v
				}
			}
			in.ChartLinks = links

			t, err := app.Journal.Add(cmd.Context(), in)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(t)
			}
			output.Success("✓ Trade logged")
			output.Printf("  ID:     %s\n", t.ID)
			output.Printf("  Pair:   %s\n", t.Pair)
			output.Printf("  Side:   %s\n", t.Action)
			output.Printf("  P&L:    %s\n", output.FormatPnL(t.PnL))
			output.Printf("  Date:   %s, %s\n", t.Date, FormatHour(t.Hour))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Pair, "pair", "", "instrument symbol (required)")
	cmd.Flags().Float64Var(&in.Entry, "entry", 0, "entry price")
	cmd.Flags().Float64Var(&in.Exit, "exit", 0, "exit price")
	cmd.Flags().Float64Var(&in.Lots, "lots", 0, "position size")
	cmd.Flags().Float64Var(&in.PnL, "pnl", 0, "realized profit or loss")
	cmd.Flags().StringVar(&in.Strategy, "strategy", "", "strategy name")
	cmd.Flags().StringVar(&in.TradeType, "type", "", "trade type tag")
	cmd.Flags().StringVar(&in.Session, "session", "", "market session (asian|pre_london|london|pre_new_york|new_york)")
	cmd.Flags().StringVar(&in.Timeframe, "timeframe", "", "analysis timeframe")
	cmd.Flags().StringVar(&in.Learning, "learning", "", "lesson learned")
	cmd.Flags().StringVar(&in.TVLink, "tv-link", "", "TradingView chart link")
	cmd.Flags().IntVar(&in.Emotion, "emotion", 0, "emotion rating 1-5")
	cmd.Flags().StringVar(&in.Date, "date", "", "trade date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&in.Time, "time", "", "trade time (HH:MM)")
	for flag, key := range chartLinkFlags {
		chartLinks[flag] = cmd.Flags().String(flag, "", fmt.Sprintf("%s chart screenshot link", key))
	}

	return cmd
}

func newTradeListCmd(app *App) *cobra.Command {
	var pair, result string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List logged trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if !stats.ValidResult(result) {
				return fmt.Errorf("unknown result %q (valid: win, loss)", result)
			}

			trades := stats.Filter(app.Journal.Trades(), stats.Filters{
				Pair:   models.NormalizePair(pair),
				Result: result,
			})
			if limit > 0 && len(trades) > limit {
				trades = trades[len(trades)-limit:]
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}
			if len(trades) == 0 {
				output.Dim("No trades logged.")
				return nil
			}

			table := NewTable(output, "ID", "DATE", "PAIR", "SIDE", "ENTRY", "EXIT", "LOTS", "P&L", "SESSION")
			for _, t := range trades {
				side := string(t.Action)
				if t.Action == models.ActionBuy {
					side = output.Green(side)
				} else {
					side = output.Red(side)
				}
				table.AddRow(
					TruncateString(t.ID, 10),
					t.Date,
					t.Pair,
					side,
					fmt.Sprintf("%.5g", t.Entry),
					fmt.Sprintf("%.5g", t.Exit),
					FormatLots(t.Lots),
					output.FormatPnL(t.PnL),
					models.SessionLabels[t.Session],
				)
			}
			table.Render()
			output.Println()
			output.Dim("%d trade(s)", len(trades))
			return nil
		},
	}

	cmd.Flags().StringVar(&pair, "pair", "", "filter by instrument symbol")
	cmd.Flags().StringVar(&result, "result", "", "filter by result (win|loss)")
	cmd.Flags().IntVar(&limit, "limit", 0, "show only the most recent N trades")

	return cmd
}

func newTradeUpdateCmd(app *App) *cobra.Command {
	var (
		pair, strategy, tradeType, session   string
		timeframe, learning, tvLink          string
		entry, exit, lots, pnl               float64
		emotion                              int
	)
	chartLinks := make(map[string]*string, len(chartLinkFlags))

	cmd := &cobra.Command{
		Use:   "update <trade-id>",
		Short: "Update an existing trade",
		Long: `Update fields of an existing trade. Only flags you pass change; the
trade's id, date and hour are fixed at creation. Changing entry or exit
re-derives the trade's side.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if cmd.Flags().Changed("session") && session != "" && !models.ValidSession(session) {
				return fmt.Errorf("unknown session %q (valid: %s)", session, strings.Join(models.SessionKeys, ", "))
			}

			var upd journal.TradeUpdate
			if cmd.Flags().Changed("pair") {
				upd.Pair = &pair
			}
			if cmd.Flags().Changed("entry") {
				upd.Entry = &entry
			}
			if cmd.Flags().Changed("exit") {
				upd.Exit = &exit
			}
			if cmd.Flags().Changed("lots") {
				upd.Lots = &lots
			}
			if cmd.Flags().Changed("pnl") {
				upd.PnL = &pnl
			}
			if cmd.Flags().Changed("strategy") {
				upd.Strategy = &strategy
			}
			if cmd.Flags().Changed("type") {
				upd.TradeType = &tradeType
			}
			if cmd.Flags().Changed("session") {
				upd.Session = &session
			}
			if cmd.Flags().Changed("timeframe") {
				upd.Timeframe = &timeframe
			}
			if cmd.Flags().Changed("learning") {
				upd.Learning = &learning
			}
			if cmd.Flags().Changed("tv-link") {
				upd.TVLink = &tvLink
			}
			if cmd.Flags().Changed("emotion") {
				upd.Emotion = &emotion
			}
			links := make(map[string]string)
			for flag, key := range chartLinkFlags {
				if cmd.Flags().Changed(flag) {
					links[key] = *chartLinks[flag]
				}
			}
			if len(links) > 0 {
				upd.ChartLinks = links
			}

			t, err := app.Journal.Update(cmd.Context(), args[0], upd)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(t)
			}
			output.Success("✓ Trade updated")
			output.Printf("  ID:     %s\n", t.ID)
			output.Printf("  Pair:   %s\n", t.Pair)
			output.Printf("  Side:   %s\n", t.Action)
			output.Printf("  P&L:    %s\n", output.FormatPnL(t.PnL))
			return nil
		},
	}

	cmd.Flags().StringVar(&pair, "pair", "", "instrument symbol")
	cmd.Flags().Float64Var(&entry, "entry", 0, "entry price")
	cmd.Flags().Float64Var(&exit, "exit", 0, "exit price")
	cmd.Flags().Float64Var(&lots, "lots", 0, "position size")
	cmd.Flags().Float64Var(&pnl, "pnl", 0, "realized profit or loss")
	cmd.Flags().StringVar(&strategy, "strategy", "", "strategy name")
	cmd.Flags().StringVar(&tradeType, "type", "", "trade type tag")
	cmd.Flags().StringVar(&session, "session", "", "market session")
	cmd.Flags().StringVar(&timeframe, "timeframe", "", "analysis timeframe")
	cmd.Flags().StringVar(&learning, "learning", "", "lesson learned")
	cmd.Flags().StringVar(&tvLink, "tv-link", "", "TradingView chart link")
	cmd.Flags().IntVar(&emotion, "emotion", 0, "emotion rating 1-5")
	for flag, key := range chartLinkFlags {
		chartLinks[flag] = cmd.Flags().String(flag, "", fmt.Sprintf("%s chart screenshot link", key))
	}

	return cmd
}

func newTradeDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trade-id>",
		Short: "Delete a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Journal.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"deleted": args[0]})
			}
			output.Success("✓ Trade %s removed", args[0])
			return nil
		},
	}
}
