// Package models defines the core journal entities.
package models

import "strings"

// Action is the direction of a trade, derived from its entry and exit prices.
type Action string

const (
	ActionBuy  Action = "Buy"
	ActionSell Action = "Sell"
)

// Session identifiers a trade can be tagged with, in display order.
var SessionKeys = []string{"asian", "pre_london", "london", "pre_new_york", "new_york"}

// SessionLabels maps session keys to their display labels.
var SessionLabels = map[string]string{
	"asian":        "Asian",
	"pre_london":   "Pre London",
	"london":       "London",
	"pre_new_york": "Pre New York",
	"new_york":     "New York",
}

// ChartLinkKeys is the fixed set of timeframes a chart screenshot can be attached to.
var ChartLinkKeys = []string{"d1", "h4", "h1", "m30", "m15"}

// Trade is one logged position. Date and Hour are frozen at creation: Date is the
// display string formatted from the trade's effective moment and is reparsed by
// consumers rather than recomputed, so historical display never shifts. Optional
// metadata fields are omitted from JSON when unset.
type Trade struct {
	ID         string            `json:"id"`
	Pair       string            `json:"pair,omitempty"`
	Entry      float64           `json:"entry"`
	Exit       float64           `json:"exit"`
	Lots       float64           `json:"lots"`
	PnL        float64           `json:"pnl"`
	Action     Action            `json:"action,omitempty"`
	Date       string            `json:"date,omitempty"`
	Hour       int               `json:"hour"`
	Strategy   string            `json:"strategy,omitempty"`
	TradeType  string            `json:"tradeType,omitempty"`
	Session    string            `json:"session,omitempty"`
	Timeframe  string            `json:"timeframe,omitempty"`
	Learning   string            `json:"learning,omitempty"`
	TVLink     string            `json:"tvLink,omitempty"`
	Emotion    int               `json:"emotion,omitempty"`
	ChartLinks map[string]string `json:"chartLinks,omitempty"`
}

// IsWin reports whether the trade closed with a positive P&L.
// Breakeven trades are neither wins nor losses.
func (t Trade) IsWin() bool { return t.PnL > 0 }

// IsLoss reports whether the trade closed with a negative P&L.
func (t Trade) IsLoss() bool { return t.PnL < 0 }

// Clone returns a deep copy of the trade.
func (t Trade) Clone() Trade {
	c := t
	if t.ChartLinks != nil {
		c.ChartLinks = make(map[string]string, len(t.ChartLinks))
		for k, v := range t.ChartLinks {
			c.ChartLinks[k] = v
		}
	}
	return c
}

// NormalizePair trims whitespace and upper-cases an instrument symbol.
func NormalizePair(pair string) string {
	return strings.ToUpper(strings.TrimSpace(pair))
}

// NormalizeText trims whitespace from free-form metadata such as strategy names.
func NormalizeText(s string) string {
	return strings.TrimSpace(s)
}

// DeriveAction returns the trade direction for an entry/exit pair.
// A tie resolves to Buy.
func DeriveAction(entry, exit float64) Action {
	if exit >= entry {
		return ActionBuy
	}
	return ActionSell
}

// FilterChartLinks keeps only recognized timeframe keys with non-empty URLs.
// Returns nil when nothing survives, so the field is omitted entirely.
func FilterChartLinks(links map[string]string) map[string]string {
	if len(links) == 0 {
		return nil
	}
	out := make(map[string]string, len(links))
	for _, key := range ChartLinkKeys {
		if url := strings.TrimSpace(links[key]); url != "" {
			out[key] = url
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ValidSession reports whether s is one of the recognized session keys.
func ValidSession(s string) bool {
	_, ok := SessionLabels[s]
	return ok
}
