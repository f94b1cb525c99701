// Package stats is the pure derivation layer: filtering, scalar performance
// metrics, and time-bucketed aggregations over a trade snapshot. Nothing in
// this package mutates its inputs or retains state between calls.
package stats

import "trade-journal/internal/models"

// Result filter values.
const (
	ResultWin  = "win"
	ResultLoss = "loss"
)

// Filters selects a subset of the journal. Zero values disable a filter;
// filters compose as logical AND.
type Filters struct {
	// Pair matches the normalized upper-case symbol exactly.
	Pair string
	// Result is "win" (pnl > 0), "loss" (pnl < 0) or empty. Breakeven
	// trades match neither.
	Result string
}

// ValidResult reports whether s is a recognized result filter value. Empty
// means no filter.
func ValidResult(s string) bool {
	return s == "" || s == ResultWin || s == ResultLoss
}

// Filter returns the trades passing all active filters, preserving input
// order.
func Filter(trades []models.Trade, f Filters) []models.Trade {
	out := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if f.Pair != "" && t.Pair != f.Pair {
			continue
		}
		switch f.Result {
		case ResultWin:
			if !t.IsWin() {
				continue
			}
		case ResultLoss:
			if !t.IsLoss() {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
