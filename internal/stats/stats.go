package stats

import "trade-journal/internal/models"

// Stats holds the scalar performance metrics for a filtered trade set.
// All values are full precision; rounding is the presenter's job.
type Stats struct {
	StartingBalance float64 `json:"startingBalance"`
	TotalTrades     int     `json:"totalTrades"`
	WinCount        int     `json:"winCount"`
	LossCount       int     `json:"lossCount"`
	BreakevenCount  int     `json:"breakevenCount"`
	TotalPnL        float64 `json:"totalPnl"`
	WinRate         float64 `json:"winRate"`
	GrossProfit     float64 `json:"grossProfit"`
	GrossLoss       float64 `json:"grossLoss"`
	ProfitFactor    float64 `json:"profitFactor"`
	AvgPnL          float64 `json:"avgPnl"`
	AvgWinning      float64 `json:"avgWinning"`
	AvgLosing       float64 `json:"avgLosing"`
	BestTrade       float64 `json:"bestTrade"`
	WorstTrade      float64 `json:"worstTrade"`
	EquityNow       float64 `json:"equityNow"`
	EquityChangePct float64 `json:"equityChangePct"`
	LongWinRate     float64 `json:"longWinRate"`
	ShortWinRate    float64 `json:"shortWinRate"`
}

// Compute derives the performance metrics for a filtered trade set. Pure and
// deterministic: the same inputs always produce the same Stats, and the input
// slice is never modified.
//
// Conventions:
//   - Breakeven trades (pnl == 0) count toward the total but are neither wins
//     nor losses.
//   - GrossLoss is a magnitude (always >= 0); AvgLosing is always <= 0.
//   - ProfitFactor degrades to GrossProfit when GrossLoss is zero, so a
//     journal with no losses reports its gross profit instead of a division
//     by zero.
func Compute(trades []models.Trade, startingBalance float64) Stats {
	s := Stats{StartingBalance: startingBalance, TotalTrades: len(trades)}

	var longCount, longWins, shortCount, shortWins int
	for i, t := range trades {
		s.TotalPnL += t.PnL
		switch {
		case t.IsWin():
			s.WinCount++
			s.GrossProfit += t.PnL
		case t.IsLoss():
			s.LossCount++
			s.GrossLoss += -t.PnL
		default:
			s.BreakevenCount++
		}

		if i == 0 || t.PnL > s.BestTrade {
			s.BestTrade = t.PnL
		}
		if i == 0 || t.PnL < s.WorstTrade {
			s.WorstTrade = t.PnL
		}

		if t.Action == models.ActionBuy {
			longCount++
			if t.IsWin() {
				longWins++
			}
		} else {
			shortCount++
			if t.IsWin() {
				shortWins++
			}
		}
	}

	if s.TotalTrades > 0 {
		s.WinRate = float64(s.WinCount) / float64(s.TotalTrades) * 100
		s.AvgPnL = s.TotalPnL / float64(s.TotalTrades)
	}
	if s.GrossLoss == 0 {
		s.ProfitFactor = s.GrossProfit
	} else {
		s.ProfitFactor = s.GrossProfit / s.GrossLoss
	}
	if s.WinCount > 0 {
		s.AvgWinning = s.GrossProfit / float64(s.WinCount)
	}
	if s.LossCount > 0 {
		s.AvgLosing = -(s.GrossLoss / float64(s.LossCount))
	}
	if longCount > 0 {
		s.LongWinRate = float64(longWins) / float64(longCount) * 100
	}
	if shortCount > 0 {
		s.ShortWinRate = float64(shortWins) / float64(shortCount) * 100
	}

	s.EquityNow = startingBalance + s.TotalPnL
	if startingBalance != 0 {
		s.EquityChangePct = (s.EquityNow - startingBalance) / startingBalance * 100
	}

	return s
}
