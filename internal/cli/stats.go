// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"trade-journal/internal/models"
	"trade-journal/internal/stats"
)

// addStatsCommands adds performance analysis commands.
func addStatsCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newStatsCmd(app))
	rootCmd.AddCommand(newChartCmd(app))
	rootCmd.AddCommand(newPairsCmd(app))
}

func newStatsCmd(app *App) *cobra.Command {
	var pair, result string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show performance statistics",
		Long: `Show performance statistics for the journal, optionally filtered by
instrument or result. Breakeven trades count toward the total but are
neither wins nor losses.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if !stats.ValidResult(result) {
				return fmt.Errorf("unknown result %q (valid: win, loss)", result)
			}

			trades := stats.Filter(app.Journal.Trades(), stats.Filters{
				Pair:   models.NormalizePair(pair),
				Result: result,
			})
			s := stats.Compute(trades, app.Config.Journal.StartingBalance)

			if output.IsJSON() {
				return output.JSON(s)
			}

			title := "Performance"
			if pair != "" {
				title = fmt.Sprintf("Performance — %s", models.NormalizePair(pair))
			}
			output.Box(title, []string{
				fmt.Sprintf("Trades:        %d  (%d W / %d L / %d BE)",
					s.TotalTrades, s.WinCount, s.LossCount, s.BreakevenCount),
				fmt.Sprintf("Win Rate:      %.2f%%", s.WinRate),
				fmt.Sprintf("Total P&L:     %s", output.FormatPnL(s.TotalPnL)),
				fmt.Sprintf("Profit Factor: %.2f", s.ProfitFactor),
				fmt.Sprintf("Avg P&L:       %s", output.FormatPnL(s.AvgPnL)),
				fmt.Sprintf("Avg Win:       %s", output.FormatPnL(s.AvgWinning)),
				fmt.Sprintf("Avg Loss:      %s", output.FormatPnL(s.AvgLosing)),
				fmt.Sprintf("Best Trade:    %s", output.FormatPnL(s.BestTrade)),
				fmt.Sprintf("Worst Trade:   %s", output.FormatPnL(s.WorstTrade)),
				fmt.Sprintf("Long Win Rate: %.2f%%", s.LongWinRate),
				fmt.Sprintf("Short Win Rate: %.2f%%", s.ShortWinRate),
				fmt.Sprintf("Equity:        %s (%s)",
					FormatCurrency(s.EquityNow), output.FormatPercentColored(s.EquityChangePct)),
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&pair, "pair", "", "filter by instrument symbol")
	cmd.Flags().StringVar(&result, "result", "", "filter by result (win|loss)")

	return cmd
}

// chartKinds are the supported breakdown dimensions.
var chartKinds = []string{"weekday", "hours", "monthly", "session", "symbol", "side", "result", "equity"}

func newChartCmd(app *App) *cobra.Command {
	var pair, result string

	cmd := &cobra.Command{
		Use:   "chart <" + strings.Join(chartKinds, "|") + ">",
		Short: "Show a performance breakdown",
		Long: `Show a P&L breakdown across one dimension as a horizontal bar chart.

  weekday   P&L by day of week (Sun-Sat)
  hours     P&L by hour of day
  monthly   P&L by calendar month
  session   P&L by market session
  symbol    trade count by instrument
  side      P&L by trade side (Buy/Sell)
  result    win/loss/breakeven counts
  equity    running balance after each trade`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: chartKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if !stats.ValidResult(result) {
				return fmt.Errorf("unknown result %q (valid: win, loss)", result)
			}

			trades := stats.Filter(app.Journal.Trades(), stats.Filters{
				Pair:   models.NormalizePair(pair),
				Result: result,
			})

			var buckets []stats.Bucket
			counts := false
			switch args[0] {
			case "weekday":
				buckets = stats.ByWeekday(trades)
			case "hours":
				buckets = stats.ByHour(trades)
				for i := range buckets {
					buckets[i].Label = FormatHour(i)
				}
			case "monthly":
				buckets = stats.ByMonth(trades)
			case "session":
				buckets = stats.BySession(trades)
			case "symbol":
				buckets = stats.BySymbol(trades)
				counts = true
			case "side":
				buckets = stats.ByOrderType(trades)
			case "result":
				buckets = stats.ByResult(trades)
				counts = true
			case "equity":
				buckets = stats.EquityCurve(trades, app.Config.Journal.StartingBalance)
			default:
				return fmt.Errorf("unknown chart %q (valid: %s)", args[0], strings.Join(chartKinds, ", "))
			}

			if output.IsJSON() {
				return output.JSON(buckets)
			}

			renderBars(output, buckets, counts)
			return nil
		},
	}

	cmd.Flags().StringVar(&pair, "pair", "", "filter by instrument symbol")
	cmd.Flags().StringVar(&result, "result", "", "filter by result (win|loss)")

	return cmd
}

// renderBars prints buckets as horizontal bars scaled to the largest
// magnitude. Count buckets render plain numbers, value buckets render P&L
// colors.
func renderBars(output *Output, buckets []stats.Bucket, counts bool) {
	if len(buckets) == 0 {
		output.Dim("No data.")
		return
	}

	labelWidth := 0
	maxAbs := 0.0
	for _, b := range buckets {
		if len(b.Label) > labelWidth {
			labelWidth = len(b.Label)
		}
		if v := math.Abs(b.Value); v > maxAbs {
			maxAbs = v
		}
	}

	const barWidth = 30
	for _, b := range buckets {
		filled := 0
		if maxAbs > 0 {
			filled = int(math.Round(math.Abs(b.Value) / maxAbs * barWidth))
		}
		bar := PadRight(strings.Repeat("█", filled), barWidth)

		var value string
		if counts {
			value = fmt.Sprintf("%d", int(b.Value))
		} else {
			value = output.FormatPnL(b.Value)
			bar = output.ColoredString(output.PnLColor(b.Value), bar)
		}
		output.Printf("%s  %s %s\n", PadRight(b.Label, labelWidth), bar, value)
	}
}

func newPairsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pairs",
		Short: "List distinct instruments in the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			pairs := app.Journal.UniquePairs()
			if output.IsJSON() {
				return output.JSON(pairs)
			}
			if len(pairs) == 0 {
				output.Dim("No trades logged.")
				return nil
			}
			for _, p := range pairs {
				output.Println(p)
			}
			return nil
		},
	}
}
