package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockScout/internal/model"
)

func openTestJournal(t *testing.T) *SQLiteJournal {
	t.Helper()
	j, err := NewSQLiteJournal(filepath.Join(t.TempDir(), "journal.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestSQLiteJournal_RecordDecision(t *testing.T) {
	j := openTestJournal(t)

	dec := &model.DecisionRecord{
		ID:          "dec-1",
		RunID:       "run-1",
		Symbol:      "RELIANCE",
		Signal:      model.SignalBreakout,
		EntryPrice:  2850.5,
		StopPrice:   2736.48,
		TargetPrice: 3021.53,
		Quantity:    17,
		CreatedAt:   time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC),
	}
	require.NoError(t, j.RecordDecision(dec))

	var symbol, signal string
	var qty int
	var entry float64
	row := j.db.QueryRow(`SELECT symbol, signal, quantity, entry FROM decisions WHERE id = ?`, "dec-1")
	require.NoError(t, row.Scan(&symbol, &signal, &qty, &entry))

	assert.Equal(t, "RELIANCE", symbol)
	assert.Equal(t, "Breakout", signal)
	assert.Equal(t, 17, qty)
	assert.InDelta(t, 2850.5, entry, 1e-9)
}

func TestSQLiteJournal_RecordRun(t *testing.T) {
	j := openTestJournal(t)

	now := time.Now()
	report := &model.RunReport{
		RunID:  "run-7",
		Regime: model.RegimeBullish,
		Counts: model.StageCounts{
			Universe:          500,
			SectorExcluded:    80,
			DataErrors:        12,
			FundamentalPassed: 35,
			TechnicalPassed:   9,
			Signals:           2,
		},
		StartedAt:  now,
		FinishedAt: now.Add(3 * time.Minute),
	}
	require.NoError(t, j.RecordRun(report))

	var regime string
	var universe, signals int
	row := j.db.QueryRow(`SELECT regime, universe, signals FROM runs WHERE id = ?`, "run-7")
	require.NoError(t, row.Scan(&regime, &universe, &signals))

	assert.Equal(t, "Bullish", regime)
	assert.Equal(t, 500, universe)
	assert.Equal(t, 2, signals)
}

func TestSQLiteJournal_ReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := NewSQLiteJournal(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, j.RecordDecision(&model.DecisionRecord{
		ID: "dec-1", RunID: "run-1", Symbol: "TCS",
		Signal: model.SignalPullback, EntryPrice: 4100, StopPrice: 3936,
		TargetPrice: 4346, Quantity: 12, CreatedAt: time.Now(),
	}))
	require.NoError(t, j.Close())

	j2, err := NewSQLiteJournal(path, zerolog.Nop())
	require.NoError(t, err)
	defer j2.Close()

	var count int
	require.NoError(t, j2.db.QueryRow(`SELECT COUNT(*) FROM decisions`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSQLiteJournal_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "journal.db")
	j, err := NewSQLiteJournal(path, zerolog.Nop())
	require.NoError(t, err)
	defer j.Close()

	assert.FileExists(t, path)
}
