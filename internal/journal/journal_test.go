package journal

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "trade-journal/internal/errors"
	"trade-journal/internal/models"
	"trade-journal/internal/store"
)

func newTestJournal() (*Journal, *store.MemoryStore) {
	ms := store.NewMemoryStore()
	j := New(ms, zerolog.Nop())
	j.now = func() time.Time {
		return time.Date(2024, 5, 6, 14, 30, 0, 0, time.UTC)
	}
	return j, ms
}

func TestAddFreezesDateAndHour(t *testing.T) {
	j, _ := newTestJournal()

	trade, err := j.Add(context.Background(), TradeInput{
		Pair:  "eurusd",
		Entry: 1.0850,
		Exit:  1.0900,
		PnL:   250,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, trade.ID)
	assert.Equal(t, "EURUSD", trade.Pair)
	assert.Equal(t, models.ActionBuy, trade.Action)
	assert.Equal(t, "5/6/2024", trade.Date)
	assert.Equal(t, 14, trade.Hour)
}

func TestAddWithExplicitMoment(t *testing.T) {
	j, _ := newTestJournal()

	trade, err := j.Add(context.Background(), TradeInput{
		Pair: "gbpjpy",
		Date: "2024-01-15",
		Time: "09:45",
	})
	require.NoError(t, err)

	assert.Equal(t, "1/15/2024", trade.Date)
	assert.Equal(t, 9, trade.Hour)
}

func TestAddClampsEmotion(t *testing.T) {
	j, _ := newTestJournal()

	trade, err := j.Add(context.Background(), TradeInput{Pair: "eurusd", Emotion: 7})
	require.NoError(t, err)
	assert.Zero(t, trade.Emotion)

	trade, err = j.Add(context.Background(), TradeInput{Pair: "eurusd", Emotion: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, trade.Emotion)
}

func TestAddPersistsToStore(t *testing.T) {
	j, ms := newTestJournal()

	_, err := j.Add(context.Background(), TradeInput{Pair: "eurusd", PnL: 100})
	require.NoError(t, err)

	raw, ok, err := ms.Get(context.Background(), store.TradesKey)
	require.NoError(t, err)
	require.True(t, ok)

	var persisted []models.Trade
	require.NoError(t, json.Unmarshal(raw, &persisted))
	require.Len(t, persisted, 1)
	assert.Equal(t, "EURUSD", persisted[0].Pair)
}

func TestUpdatePreservesIdentityFields(t *testing.T) {
	j, _ := newTestJournal()
	ctx := context.Background()

	orig, err := j.Add(ctx, TradeInput{Pair: "eurusd", Entry: 1.10, Exit: 1.20, PnL: 100})
	require.NoError(t, err)

	newPnl := -30.0
	newExit := 1.05
	updated, err := j.Update(ctx, orig.ID, TradeUpdate{PnL: &newPnl, Exit: &newExit})
	require.NoError(t, err)

	assert.Equal(t, orig.ID, updated.ID)
	assert.Equal(t, orig.Date, updated.Date)
	assert.Equal(t, orig.Hour, updated.Hour)
	assert.InDelta(t, -30, updated.PnL, 1e-9)

	// Exit dropped below entry, so the side is re-derived.
	assert.Equal(t, models.ActionSell, updated.Action)
}

func TestUpdateUnknownIDFails(t *testing.T) {
	j, _ := newTestJournal()

	_, err := j.Update(context.Background(), "no-such-id", TradeUpdate{})
	assert.True(t, errors.Is(err, apperrors.ErrTradeNotFound))
}

func TestUpdateMergesChartLinks(t *testing.T) {
	j, _ := newTestJournal()
	ctx := context.Background()

	orig, err := j.Add(ctx, TradeInput{
		Pair:       "eurusd",
		ChartLinks: map[string]string{"d1": "https://example.com/d1.png"},
	})
	require.NoError(t, err)

	updated, err := j.Update(ctx, orig.ID, TradeUpdate{
		ChartLinks: map[string]string{"h4": "https://example.com/h4.png"},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"d1": "https://example.com/d1.png",
		"h4": "https://example.com/h4.png",
	}, updated.ChartLinks)
}

func TestDeleteRemovesTrade(t *testing.T) {
	j, _ := newTestJournal()
	ctx := context.Background()

	trade, err := j.Add(ctx, TradeInput{Pair: "eurusd"})
	require.NoError(t, err)
	require.Equal(t, 1, j.Len())

	require.NoError(t, j.Delete(ctx, trade.ID))
	assert.Zero(t, j.Len())
}

func TestDeleteUnknownIDIsNoop(t *testing.T) {
	j, _ := newTestJournal()
	ctx := context.Background()

	_, err := j.Add(ctx, TradeInput{Pair: "eurusd"})
	require.NoError(t, err)

	assert.NoError(t, j.Delete(ctx, "no-such-id"))
	assert.Equal(t, 1, j.Len())
}

func TestLoadAssignsMissingIDs(t *testing.T) {
	j, ms := newTestJournal()
	ctx := context.Background()

	legacy := []models.Trade{
		{Pair: " eurusd ", PnL: 100},
		{ID: "existing", Pair: "XAUUSD", PnL: -50},
	}
	raw, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, ms.Set(ctx, store.TradesKey, raw))

	require.NoError(t, j.Load(ctx))

	trades := j.Trades()
	require.Len(t, trades, 2)
	assert.NotEmpty(t, trades[0].ID)
	assert.Equal(t, "EURUSD", trades[0].Pair)
	assert.Equal(t, "existing", trades[1].ID)
}

func TestLoadUnreadableBlobStartsEmpty(t *testing.T) {
	j, ms := newTestJournal()
	ctx := context.Background()

	require.NoError(t, ms.Set(ctx, store.TradesKey, []byte("{broken")))

	require.NoError(t, j.Load(ctx))
	assert.Zero(t, j.Len())
}

func TestLoadMissingBlobStartsEmpty(t *testing.T) {
	j, _ := newTestJournal()

	require.NoError(t, j.Load(context.Background()))
	assert.Zero(t, j.Len())
}

func TestReplaceSwapsSequence(t *testing.T) {
	j, ms := newTestJournal()
	ctx := context.Background()

	_, err := j.Add(ctx, TradeInput{Pair: "eurusd"})
	require.NoError(t, err)

	err = j.Replace(ctx, []models.Trade{
		{Pair: "xauusd", PnL: 10},
		{Pair: "gbpjpy", PnL: -5},
	})
	require.NoError(t, err)

	trades := j.Trades()
	require.Len(t, trades, 2)
	assert.Equal(t, "XAUUSD", trades[0].Pair)
	assert.NotEmpty(t, trades[0].ID)

	raw, ok, err := ms.Get(ctx, store.TradesKey)
	require.NoError(t, err)
	require.True(t, ok)
	var persisted []models.Trade
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Len(t, persisted, 2)
}

func TestTradesReturnsCopies(t *testing.T) {
	j, _ := newTestJournal()
	ctx := context.Background()

	_, err := j.Add(ctx, TradeInput{Pair: "eurusd", PnL: 100})
	require.NoError(t, err)

	snapshot := j.Trades()
	snapshot[0].PnL = 999

	assert.InDelta(t, 100, j.Trades()[0].PnL, 1e-9)
}

func TestUniquePairsSortedDistinct(t *testing.T) {
	j, _ := newTestJournal()
	ctx := context.Background()

	for _, pair := range []string{"xauusd", "eurusd", "XAUUSD", "gbpjpy"} {
		_, err := j.Add(ctx, TradeInput{Pair: pair})
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"EURUSD", "GBPJPY", "XAUUSD"}, j.UniquePairs())
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := newID()
		require.Len(t, id, 26)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
