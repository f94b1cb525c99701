// Package journal owns the ordered trade sequence and its mutation API.
//
// The journal is the single serialization point for all writers: every
// mutation happens under one mutex and mirrors the full sequence into the
// persistence slot before returning. Consumers never hold references into the
// journal's memory; all reads return fresh copies.
package journal

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	apperrors "trade-journal/internal/errors"
	"trade-journal/internal/logging"
	"trade-journal/internal/models"
	"trade-journal/internal/store"
)

// DefaultDateFormat is the layout trade dates are frozen with when no other
// layout is configured.
const DefaultDateFormat = "1/2/2006"

// Journal holds the in-memory trade sequence mirrored into a BlobStore.
type Journal struct {
	mu         sync.Mutex
	store      store.BlobStore
	log        zerolog.Logger
	dateFormat string
	now        func() time.Time
	trades     []models.Trade
}

// New creates a journal backed by the given store.
func New(bs store.BlobStore, logger zerolog.Logger) *Journal {
	return &Journal{
		store:      bs,
		log:        logger,
		dateFormat: DefaultDateFormat,
		now:        time.Now,
	}
}

// SetDateFormat changes the layout used to freeze trade dates at creation.
// Dates already stored keep the layout they were written with.
func (j *Journal) SetDateFormat(layout string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if layout != "" {
		j.dateFormat = layout
	}
}

// TradeInput carries the raw fields for a new trade. Date ("2006-01-02") and
// Time ("15:04") select the trade's effective moment; when absent the current
// moment is used.
type TradeInput struct {
	Pair       string
	Entry      float64
	Exit       float64
	Lots       float64
	PnL        float64
	Strategy   string
	TradeType  string
	Session    string
	Timeframe  string
	Learning   string
	TVLink     string
	Emotion    int
	ChartLinks map[string]string
	Date       string
	Time       string
}

// TradeUpdate carries a partial replacement for an existing trade. Nil fields
// keep their current value; optional metadata merges over the existing record.
type TradeUpdate struct {
	Pair       *string
	Entry      *float64
	Exit       *float64
	Lots       *float64
	PnL        *float64
	Strategy   *string
	TradeType  *string
	Session    *string
	Timeframe  *string
	Learning   *string
	TVLink     *string
	Emotion    *int
	ChartLinks map[string]string
}

// Load reads the persisted blob into memory. An absent or unreadable blob
// yields an empty journal, never an error; records missing an id are assigned
// one and text fields are re-normalized (migration-on-read).
func (j *Journal) Load(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	raw, ok, err := j.store.Get(ctx, store.TradesKey)
	if err != nil {
		return apperrors.Wrap(err, "loading journal")
	}
	if !ok || len(raw) == 0 {
		j.trades = nil
		return nil
	}

	var trades []models.Trade
	if err := json.Unmarshal(raw, &trades); err != nil {
		j.log.Warn().Err(err).Msg("Persisted journal unreadable, starting empty")
		j.trades = nil
		return nil
	}

	j.trades = repairTrades(trades)
	return nil
}

// repairTrades assigns ids to legacy records lacking one and re-normalizes
// text fields. Runs on every load and on every import.
func repairTrades(trades []models.Trade) []models.Trade {
	out := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if t.ID == "" {
			t.ID = newID()
		}
		t.Pair = models.NormalizePair(t.Pair)
		t.Strategy = models.NormalizeText(t.Strategy)
		t.TradeType = models.NormalizeText(t.TradeType)
		t.ChartLinks = models.FilterChartLinks(t.ChartLinks)
		out = append(out, t)
	}
	return out
}

// Add appends a new trade, deriving its frozen fields, and persists.
func (j *Journal) Add(ctx context.Context, in TradeInput) (models.Trade, error) {
	moment := j.effectiveMoment(in.Date, in.Time)

	t := models.Trade{
		ID:         newID(),
		Pair:       models.NormalizePair(in.Pair),
		Entry:      in.Entry,
		Exit:       in.Exit,
		Lots:       in.Lots,
		PnL:        in.PnL,
		Action:     models.DeriveAction(in.Entry, in.Exit),
		Date:       moment.Format(j.dateFormat),
		Hour:       moment.Hour(),
		Strategy:   models.NormalizeText(in.Strategy),
		TradeType:  models.NormalizeText(in.TradeType),
		Session:    in.Session,
		Timeframe:  in.Timeframe,
		Learning:   models.NormalizeText(in.Learning),
		TVLink:     models.NormalizeText(in.TVLink),
		ChartLinks: models.FilterChartLinks(in.ChartLinks),
	}
	if in.Emotion >= 1 && in.Emotion <= 5 {
		t.Emotion = in.Emotion
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	j.trades = append(j.trades, t)
	if err := j.persistLocked(ctx); err != nil {
		j.trades = j.trades[:len(j.trades)-1]
		return models.Trade{}, err
	}

	logging.LogTradeAdded(j.log, t.ID, t.Pair, string(t.Action), t.PnL)
	return t.Clone(), nil
}

// Update merges the supplied fields over the trade with the given id. The id
// itself, and the frozen date and hour, never change.
func (j *Journal) Update(ctx context.Context, id string, upd TradeUpdate) (models.Trade, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	idx := j.indexLocked(id)
	if idx < 0 {
		return models.Trade{}, apperrors.ErrTradeNotFound
	}

	prev := j.trades[idx].Clone()
	t := j.trades[idx].Clone()

	if upd.Pair != nil {
		t.Pair = models.NormalizePair(*upd.Pair)
	}
	if upd.Entry != nil {
		t.Entry = *upd.Entry
	}
	if upd.Exit != nil {
		t.Exit = *upd.Exit
	}
	if upd.Entry != nil || upd.Exit != nil {
		t.Action = models.DeriveAction(t.Entry, t.Exit)
	}
	if upd.Lots != nil {
		t.Lots = *upd.Lots
	}
	if upd.PnL != nil {
		t.PnL = *upd.PnL
	}
	if upd.Strategy != nil {
		t.Strategy = models.NormalizeText(*upd.Strategy)
	}
	if upd.TradeType != nil {
		t.TradeType = models.NormalizeText(*upd.TradeType)
	}
	if upd.Session != nil {
		t.Session = *upd.Session
	}
	if upd.Timeframe != nil {
		t.Timeframe = *upd.Timeframe
	}
	if upd.Learning != nil {
		t.Learning = models.NormalizeText(*upd.Learning)
	}
	if upd.TVLink != nil {
		t.TVLink = models.NormalizeText(*upd.TVLink)
	}
	if upd.Emotion != nil && *upd.Emotion >= 1 && *upd.Emotion <= 5 {
		t.Emotion = *upd.Emotion
	}
	if len(upd.ChartLinks) > 0 {
		merged := make(map[string]string, len(t.ChartLinks)+len(upd.ChartLinks))
		for k, v := range t.ChartLinks {
			merged[k] = v
		}
		for k, v := range upd.ChartLinks {
			merged[k] = v
		}
		t.ChartLinks = models.FilterChartLinks(merged)
	}

	j.trades[idx] = t
	if err := j.persistLocked(ctx); err != nil {
		j.trades[idx] = prev
		return models.Trade{}, err
	}

	j.log.Info().Str("event", "trade_updated").Str("trade_id", id).Msg("Trade updated")
	return t.Clone(), nil
}

// Delete removes the trade with the given id. Deleting an unknown id is a
// no-op, not an error.
func (j *Journal) Delete(ctx context.Context, id string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	idx := j.indexLocked(id)
	if idx < 0 {
		j.log.Debug().Str("trade_id", id).Msg("Delete ignored, trade not found")
		return nil
	}

	removed := j.trades[idx]
	j.trades = append(j.trades[:idx], j.trades[idx+1:]...)
	if err := j.persistLocked(ctx); err != nil {
		j.trades = append(j.trades[:idx], append([]models.Trade{removed}, j.trades[idx:]...)...)
		return err
	}

	logging.LogTradeDeleted(j.log, id)
	return nil
}

// Replace swaps in a whole new trade sequence (used by backup import) after
// running the repair pass, and persists. On persistence failure the previous
// sequence is kept.
func (j *Journal) Replace(ctx context.Context, trades []models.Trade) error {
	repaired := repairTrades(trades)

	j.mu.Lock()
	defer j.mu.Unlock()

	prev := j.trades
	j.trades = repaired
	if err := j.persistLocked(ctx); err != nil {
		j.trades = prev
		return err
	}
	return nil
}

// Trades returns a snapshot copy of the sequence in insertion order.
func (j *Journal) Trades() []models.Trade {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]models.Trade, 0, len(j.trades))
	for _, t := range j.trades {
		out = append(out, t.Clone())
	}
	return out
}

// Len returns the number of trades.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.trades)
}

// UniquePairs returns the distinct normalized symbols, sorted.
func (j *Journal) UniquePairs() []string {
	j.mu.Lock()
	defer j.mu.Unlock()

	seen := make(map[string]bool)
	var pairs []string
	for _, t := range j.trades {
		p := models.NormalizePair(t.Pair)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		pairs = append(pairs, p)
	}
	sort.Strings(pairs)
	return pairs
}

func (j *Journal) indexLocked(id string) int {
	for i, t := range j.trades {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// persistLocked serializes the full sequence into the slot (replace-all).
// Callers must hold the mutex.
func (j *Journal) persistLocked(ctx context.Context) error {
	trades := j.trades
	if trades == nil {
		trades = []models.Trade{}
	}
	data, err := json.Marshal(trades)
	if err != nil {
		return apperrors.Wrap(err, "serializing journal")
	}
	if err := j.store.Set(ctx, store.TradesKey, data); err != nil {
		return apperrors.Wrap(err, "persisting journal")
	}
	return nil
}

// effectiveMoment resolves the explicit date+time input, falling back to now.
func (j *Journal) effectiveMoment(date, clock string) time.Time {
	if date == "" {
		return j.now()
	}
	d, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return j.now()
	}
	if clock != "" {
		if t, terr := time.Parse("15:04", clock); terr == nil {
			d = d.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
		}
	}
	return d
}
