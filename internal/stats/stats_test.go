package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trade-journal/internal/models"
)

func TestComputeBasicScenario(t *testing.T) {
	trades := []models.Trade{
		{PnL: 100, Action: models.ActionBuy},
		{PnL: -40, Action: models.ActionSell},
		{PnL: 0, Action: models.ActionBuy},
	}

	s := Compute(trades, 5000)

	assert.Equal(t, 3, s.TotalTrades)
	assert.Equal(t, 1, s.WinCount)
	assert.Equal(t, 1, s.LossCount)
	assert.Equal(t, 1, s.BreakevenCount)
	assert.InDelta(t, 33.33, s.WinRate, 0.01)
	assert.InDelta(t, 60, s.TotalPnL, 1e-9)
	assert.InDelta(t, 100, s.GrossProfit, 1e-9)
	assert.InDelta(t, 40, s.GrossLoss, 1e-9)
	assert.InDelta(t, 2.5, s.ProfitFactor, 1e-9)
	assert.InDelta(t, 20, s.AvgPnL, 1e-9)
	assert.InDelta(t, 100, s.AvgWinning, 1e-9)
	assert.InDelta(t, -40, s.AvgLosing, 1e-9)
	assert.InDelta(t, 100, s.BestTrade, 1e-9)
	assert.InDelta(t, -40, s.WorstTrade, 1e-9)
	assert.InDelta(t, 5060, s.EquityNow, 1e-9)
	assert.InDelta(t, 1.2, s.EquityChangePct, 1e-9)
}

func TestComputeEmptySet(t *testing.T) {
	s := Compute(nil, 5000)

	assert.Equal(t, 0, s.TotalTrades)
	assert.Zero(t, s.WinRate)
	assert.Zero(t, s.TotalPnL)
	assert.Zero(t, s.ProfitFactor)
	assert.Zero(t, s.AvgPnL)
	assert.Zero(t, s.BestTrade)
	assert.Zero(t, s.WorstTrade)
	assert.InDelta(t, 5000, s.EquityNow, 1e-9)
	assert.Zero(t, s.EquityChangePct)
}

func TestComputeNoLosses(t *testing.T) {
	trades := []models.Trade{
		{PnL: 120, Action: models.ActionBuy},
		{PnL: 80, Action: models.ActionBuy},
	}

	s := Compute(trades, 5000)

	// With zero gross loss the profit factor degrades to the gross profit.
	assert.InDelta(t, 200, s.ProfitFactor, 1e-9)
	assert.Zero(t, s.GrossLoss)
	assert.Zero(t, s.AvgLosing)
	assert.InDelta(t, 100, s.WinRate, 1e-9)
}

func TestComputeAllLosing(t *testing.T) {
	trades := []models.Trade{
		{PnL: -30, Action: models.ActionSell},
		{PnL: -70, Action: models.ActionBuy},
	}

	s := Compute(trades, 5000)

	assert.Zero(t, s.ProfitFactor)
	assert.Zero(t, s.WinRate)
	assert.InDelta(t, 100, s.GrossLoss, 1e-9)
	assert.InDelta(t, -50, s.AvgLosing, 1e-9)
	assert.InDelta(t, -30, s.BestTrade, 1e-9)
	assert.InDelta(t, -70, s.WorstTrade, 1e-9)
}

func TestComputeSideWinRates(t *testing.T) {
	trades := []models.Trade{
		{PnL: 100, Action: models.ActionBuy},
		{PnL: -50, Action: models.ActionBuy},
		{PnL: 25, Action: models.ActionSell},
	}

	s := Compute(trades, 5000)

	assert.InDelta(t, 50, s.LongWinRate, 1e-9)
	assert.InDelta(t, 100, s.ShortWinRate, 1e-9)
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	trades := []models.Trade{
		{ID: "a", PnL: 100},
		{ID: "b", PnL: -40},
	}
	before := make([]models.Trade, len(trades))
	copy(before, trades)

	_ = Compute(trades, 5000)

	assert.Equal(t, before, trades)
}

func TestFilterByPair(t *testing.T) {
	trades := []models.Trade{
		{ID: "a", Pair: "EURUSD", PnL: 10},
		{ID: "b", Pair: "XAUUSD", PnL: -5},
		{ID: "c", Pair: "EURUSD", PnL: -2},
	}

	got := Filter(trades, Filters{Pair: "EURUSD"})

	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestFilterByResult(t *testing.T) {
	trades := []models.Trade{
		{ID: "win", PnL: 10},
		{ID: "loss", PnL: -5},
		{ID: "flat", PnL: 0},
	}

	wins := Filter(trades, Filters{Result: ResultWin})
	losses := Filter(trades, Filters{Result: ResultLoss})

	assert.Len(t, wins, 1)
	assert.Equal(t, "win", wins[0].ID)
	assert.Len(t, losses, 1)
	assert.Equal(t, "loss", losses[0].ID)
}

func TestFilterCompose(t *testing.T) {
	trades := []models.Trade{
		{ID: "a", Pair: "EURUSD", PnL: 10},
		{ID: "b", Pair: "EURUSD", PnL: -5},
		{ID: "c", Pair: "XAUUSD", PnL: 20},
	}

	got := Filter(trades, Filters{Pair: "EURUSD", Result: ResultWin})

	assert.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestValidResult(t *testing.T) {
	assert.True(t, ValidResult(""))
	assert.True(t, ValidResult(ResultWin))
	assert.True(t, ValidResult(ResultLoss))
	assert.False(t, ValidResult("banana"))
	assert.False(t, ValidResult("Win"))
}

func TestFilterZeroValuePassesAll(t *testing.T) {
	trades := []models.Trade{
		{ID: "a", PnL: 10},
		{ID: "b", PnL: 0},
	}

	got := Filter(trades, Filters{})

	assert.Equal(t, trades, got)
}
