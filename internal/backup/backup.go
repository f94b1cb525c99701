// Package backup implements journal export and full-replace import from JSON
// backups, sourced from local files or URLs.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	apperrors "trade-journal/internal/errors"
	"trade-journal/internal/journal"
	"trade-journal/internal/logging"
	"trade-journal/internal/models"
)

// envelope is the wrapped backup shape some exports use. The bare array form
// is tried first.
type envelope struct {
	Trades []models.Trade `json:"trades"`
}

// Decode parses backup bytes into a trade slice. Accepted shapes are a bare
// JSON array of trades or an object with a "trades" array; anything else is
// ErrInvalidFormat. JSON null is not an array: unmarshalling it into a slice
// succeeds with nil, which must not be allowed to wipe the journal.
func Decode(data []byte) ([]models.Trade, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var trades []models.Trade
		if err := json.Unmarshal(trimmed, &trades); err != nil {
			return nil, apperrors.ErrInvalidFormat
		}
		if trades == nil {
			trades = []models.Trade{}
		}
		return trades, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err == nil && env.Trades != nil {
		return env.Trades, nil
	}

	return nil, apperrors.ErrInvalidFormat
}

// Export serializes the journal's current sequence as an indented JSON array.
func Export(j *journal.Journal) ([]byte, error) {
	trades := j.Trades()
	if trades == nil {
		trades = []models.Trade{}
	}
	data, err := json.MarshalIndent(trades, "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(err, "serializing backup")
	}
	return data, nil
}

// ExportToFile writes the backup to the given path.
func ExportToFile(j *journal.Journal, path string) error {
	data, err := Export(j)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return apperrors.Wrap(err, "writing backup file")
	}
	return nil
}

// Importer replaces the journal contents from a backup source. At most one
// import runs at a time; a second concurrent call fails with
// ErrImportInFlight rather than queueing.
type Importer struct {
	journal  *journal.Journal
	client   *resty.Client
	log      zerolog.Logger
	inFlight atomic.Bool
}

// NewImporter creates an importer for the given journal.
func NewImporter(j *journal.Journal, logger zerolog.Logger, timeout time.Duration) *Importer {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Importer{
		journal: j,
		client:  client,
		log:     logger,
	}
}

// FromFile replaces the journal with the backup at path. On any failure the
// journal keeps its previous contents.
func (im *Importer) FromFile(ctx context.Context, path string) (int, error) {
	if !im.inFlight.CompareAndSwap(false, true) {
		return 0, apperrors.ErrImportInFlight
	}
	defer im.inFlight.Store(false)

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, apperrors.NewImportError(path, err)
	}
	return im.replace(ctx, path, data)
}

// FromURL fetches a backup over HTTP and replaces the journal with it. A
// non-2xx response or an unreadable body fails the import; the journal keeps
// its previous contents.
func (im *Importer) FromURL(ctx context.Context, url string) (int, error) {
	if !im.inFlight.CompareAndSwap(false, true) {
		return 0, apperrors.ErrImportInFlight
	}
	defer im.inFlight.Store(false)

	resp, err := im.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return 0, apperrors.NewImportError(url, err)
	}
	if !resp.IsSuccess() {
		return 0, apperrors.NewImportError(url, fmt.Errorf("unexpected status %s", resp.Status()))
	}
	return im.replace(ctx, url, resp.Body())
}

// replace decodes and swaps in the new sequence. Decode failures surface as
// ImportError wrapping ErrInvalidFormat so callers can distinguish a bad
// backup from an unreachable source.
func (im *Importer) replace(ctx context.Context, source string, data []byte) (int, error) {
	trades, err := Decode(data)
	if err != nil {
		return 0, apperrors.NewImportError(source, err)
	}
	if err := im.journal.Replace(ctx, trades); err != nil {
		return 0, apperrors.NewImportError(source, err)
	}
	logging.LogImport(im.log, source, len(trades))
	return len(trades), nil
}
