package stats

import (
	"fmt"
	"sort"
	"time"

	"trade-journal/internal/models"
)

// Bucket is one aggregation slot for charting consumers.
type Bucket struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// dateLayouts are the layouts frozen date strings are reparsed against. The
// first entry is the layout new trades are written with; the rest cover
// backups produced under other display settings.
var dateLayouts = []string{
	"1/2/2006",
	"2006-01-02",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// parseDate reparses a frozen display date. The second return value is false
// when no known layout matches; callers skip such trades in date-keyed
// buckets.
func parseDate(date string) (time.Time, bool) {
	if date == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ByWeekday sums pnl into 7 fixed buckets, Sun through Sat. Trades whose date
// cannot be reparsed are skipped.
func ByWeekday(trades []models.Trade) []Bucket {
	sums := [7]float64{}
	for _, t := range trades {
		d, ok := parseDate(t.Date)
		if !ok {
			continue
		}
		sums[int(d.Weekday())] += t.PnL
	}

	out := make([]Bucket, 7)
	for i := range out {
		out[i] = Bucket{Label: weekdayLabels[i], Value: sums[i]}
	}
	return out
}

// ByHour sums pnl into 24 fixed buckets keyed by the trade's stored hour.
// A missing hour counts as hour 0.
func ByHour(trades []models.Trade) []Bucket {
	sums := [24]float64{}
	for _, t := range trades {
		h := t.Hour
		if h < 0 || h > 23 {
			h = 0
		}
		sums[h] += t.PnL
	}

	out := make([]Bucket, 24)
	for i := range out {
		out[i] = Bucket{Label: fmt.Sprintf("%d", i), Value: sums[i]}
	}
	return out
}

// ByMonth sums pnl into (year, month) buckets created as dates are
// encountered, then returns them in chronological order. Trades whose date
// cannot be reparsed are skipped.
func ByMonth(trades []models.Trade) []Bucket {
	type monthKey struct {
		year  int
		month time.Month
	}
	sums := make(map[monthKey]float64)
	for _, t := range trades {
		d, ok := parseDate(t.Date)
		if !ok {
			continue
		}
		sums[monthKey{d.Year(), d.Month()}] += t.PnL
	}

	keys := make([]monthKey, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	out := make([]Bucket, 0, len(keys))
	for _, k := range keys {
		label := time.Date(k.year, k.month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 06")
		out = append(out, Bucket{Label: label, Value: sums[k]})
	}
	return out
}

// BySession sums pnl into the five fixed session buckets. Trades with an
// unrecognized or absent session contribute to no bucket.
func BySession(trades []models.Trade) []Bucket {
	sums := make(map[string]float64, len(models.SessionKeys))
	for _, t := range trades {
		if models.ValidSession(t.Session) {
			sums[t.Session] += t.PnL
		}
	}

	out := make([]Bucket, 0, len(models.SessionKeys))
	for _, key := range models.SessionKeys {
		out = append(out, Bucket{Label: models.SessionLabels[key], Value: sums[key]})
	}
	return out
}

// BySymbol counts trades per distinct pair, in first-seen order. Trades with
// an empty pair are skipped.
func BySymbol(trades []models.Trade) []Bucket {
	counts := make(map[string]int)
	var order []string
	for _, t := range trades {
		if t.Pair == "" {
			continue
		}
		if _, seen := counts[t.Pair]; !seen {
			order = append(order, t.Pair)
		}
		counts[t.Pair]++
	}

	out := make([]Bucket, 0, len(order))
	for _, pair := range order {
		out = append(out, Bucket{Label: pair, Value: float64(counts[pair])})
	}
	return out
}

// ByOrderType sums pnl into Buy and Sell buckets. Anything that is not
// exactly Buy counts as Sell.
func ByOrderType(trades []models.Trade) []Bucket {
	var buy, sell float64
	for _, t := range trades {
		if t.Action == models.ActionBuy {
			buy += t.PnL
		} else {
			sell += t.PnL
		}
	}
	return []Bucket{
		{Label: string(models.ActionBuy), Value: buy},
		{Label: string(models.ActionSell), Value: sell},
	}
}

// ByResult counts wins, losses and breakeven trades.
func ByResult(trades []models.Trade) []Bucket {
	var wins, losses, breakeven int
	for _, t := range trades {
		switch {
		case t.IsWin():
			wins++
		case t.IsLoss():
			losses++
		default:
			breakeven++
		}
	}
	return []Bucket{
		{Label: "Wins", Value: float64(wins)},
		{Label: "Losses", Value: float64(losses)},
		{Label: "Breakeven", Value: float64(breakeven)},
	}
}

// EquityCurve returns the running balance after each trade, prefixed with the
// starting balance. Labels are the trades' frozen dates, falling back to a
// positional label when a date is absent.
func EquityCurve(trades []models.Trade, startingBalance float64) []Bucket {
	out := make([]Bucket, 0, len(trades)+1)
	out = append(out, Bucket{Label: "Start", Value: startingBalance})

	balance := startingBalance
	for i, t := range trades {
		balance += t.PnL
		label := t.Date
		if label == "" {
			label = fmt.Sprintf("Trade %d", i+1)
		}
		out = append(out, Bucket{Label: label, Value: balance})
	}
	return out
}
