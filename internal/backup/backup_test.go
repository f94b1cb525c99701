package backup

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "trade-journal/internal/errors"
	"trade-journal/internal/journal"
	"trade-journal/internal/models"
	"trade-journal/internal/store"
)

func newTestJournal(t *testing.T) *journal.Journal {
	t.Helper()
	j := journal.New(store.NewMemoryStore(), zerolog.Nop())
	require.NoError(t, j.Load(context.Background()))
	return j
}

func newTestImporter(j *journal.Journal) *Importer {
	return NewImporter(j, zerolog.Nop(), 5*time.Second)
}

func TestDecodeBareArray(t *testing.T) {
	trades, err := Decode([]byte(`[{"id":"a","pnl":100},{"id":"b","pnl":-40}]`))
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "a", trades[0].ID)
}

func TestDecodeEnvelope(t *testing.T) {
	trades, err := Decode([]byte(`{"trades":[{"id":"a","pnl":100}]}`))
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "a", trades[0].ID)
}

func TestDecodeInvalidShapes(t *testing.T) {
	for _, data := range []string{
		`{"foo":"bar"}`,
		`"just a string"`,
		`42`,
		`not json at all`,
		`null`,
		`  null  `,
		`{"trades":null}`,
		`[{"id":"a"`,
	} {
		_, err := Decode([]byte(data))
		assert.True(t, errors.Is(err, apperrors.ErrInvalidFormat), "input %q", data)
	}
}

func TestDecodeEmptyArray(t *testing.T) {
	trades, err := Decode([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestJournal(t)

	_, err := src.Add(ctx, journal.TradeInput{Pair: "eurusd", Entry: 1.10, Exit: 1.12, PnL: 200})
	require.NoError(t, err)
	_, err = src.Add(ctx, journal.TradeInput{Pair: "xauusd", Entry: 2400, Exit: 2390, PnL: -100})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "trades.json")
	require.NoError(t, ExportToFile(src, path))

	dst := newTestJournal(t)
	count, err := newTestImporter(dst).FromFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	want := src.Trades()
	got := dst.Trades()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Pair, got[i].Pair)
		assert.Equal(t, want[i].PnL, got[i].PnL)
		assert.Equal(t, want[i].Action, got[i].Action)
		assert.Equal(t, want[i].Date, got[i].Date)
	}
}

func TestExportIsBareArray(t *testing.T) {
	j := newTestJournal(t)

	data, err := Export(j)
	require.NoError(t, err)

	var arr []models.Trade
	require.NoError(t, json.Unmarshal(data, &arr))
	assert.Empty(t, arr)
}

func TestImportAssignsMissingIDs(t *testing.T) {
	ctx := context.Background()
	j := newTestJournal(t)

	path := filepath.Join(t.TempDir(), "legacy.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"pair":" eurusd ","pnl":50}]`), 0644))

	count, err := newTestImporter(j).FromFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	trades := j.Trades()
	require.Len(t, trades, 1)
	assert.NotEmpty(t, trades[0].ID)
	assert.Equal(t, "EURUSD", trades[0].Pair)
}

func TestImportBadBackupLeavesJournalUntouched(t *testing.T) {
	ctx := context.Background()
	j := newTestJournal(t)

	_, err := j.Add(ctx, journal.TradeInput{Pair: "eurusd", PnL: 100})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"a backup"}`), 0644))

	_, err = newTestImporter(j).FromFile(ctx, path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidFormat))

	var importErr *apperrors.ImportError
	require.True(t, errors.As(err, &importErr))
	assert.Equal(t, path, importErr.Source)

	require.Equal(t, 1, j.Len())
	assert.Equal(t, "EURUSD", j.Trades()[0].Pair)
}

func TestImportNullBackupLeavesJournalUntouched(t *testing.T) {
	ctx := context.Background()
	j := newTestJournal(t)

	_, err := j.Add(ctx, journal.TradeInput{Pair: "eurusd", PnL: 100})
	require.NoError(t, err)

	// A null body unmarshals into a nil slice without error, which must not
	// be treated as an empty backup and wipe the journal.
	path := filepath.Join(t.TempDir(), "null.json")
	require.NoError(t, os.WriteFile(path, []byte(`null`), 0644))

	_, err = newTestImporter(j).FromFile(ctx, path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidFormat))
	assert.Equal(t, 1, j.Len())
}

func TestImportMissingFile(t *testing.T) {
	j := newTestJournal(t)

	_, err := newTestImporter(j).FromFile(context.Background(), "/no/such/file.json")
	require.Error(t, err)

	var importErr *apperrors.ImportError
	assert.True(t, errors.As(err, &importErr))
}

func TestImportFromURL(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"remote","pair":"EURUSD","pnl":75}]`))
	}))
	defer server.Close()

	j := newTestJournal(t)
	count, err := newTestImporter(j).FromURL(ctx, server.URL)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	trades := j.Trades()
	require.Len(t, trades, 1)
	assert.Equal(t, "remote", trades[0].ID)
}

func TestImportFromURLNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	j := newTestJournal(t)
	_, err := newTestImporter(j).FromURL(context.Background(), server.URL)
	require.Error(t, err)

	var importErr *apperrors.ImportError
	require.True(t, errors.As(err, &importErr))
	assert.Equal(t, server.URL, importErr.Source)
	assert.Zero(t, j.Len())
}

func TestImportSingleFlight(t *testing.T) {
	ctx := context.Background()

	started := make(chan struct{}, 1)
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		<-release
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	j := newTestJournal(t)
	importer := newTestImporter(j)

	firstDone := make(chan error, 1)
	go func() {
		_, err := importer.FromURL(ctx, server.URL)
		firstDone <- err
	}()

	// The first import is holding the guard while its request is in flight.
	<-started
	_, err := importer.FromURL(ctx, server.URL)
	assert.True(t, errors.Is(err, apperrors.ErrImportInFlight))

	close(release)
	require.NoError(t, <-firstDone)

	// Guard releases once the import finishes.
	_, err = importer.FromFile(ctx, filepath.Join(t.TempDir(), "missing.json"))
	assert.False(t, errors.Is(err, apperrors.ErrImportInFlight))
}
