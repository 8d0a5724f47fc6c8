package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"StockScout/internal/model"
)

// SQLiteJournal appends decisions and run summaries to a SQLite database.
type SQLiteJournal struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteJournal opens (or creates) the SQLite database and runs migrations.
func NewSQLiteJournal(dbPath string, log zerolog.Logger) (*SQLiteJournal, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboards read while
	// the bot writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	j := &SQLiteJournal{db: db, log: log.With().Str("component", "journal").Logger()}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	j.log.Info().Str("path", dbPath).Msg("Journal opened")
	return j, nil
}

func (j *SQLiteJournal) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS decisions (
			id         TEXT PRIMARY KEY,
			run_id     TEXT NOT NULL,
			symbol     TEXT NOT NULL,
			signal     TEXT NOT NULL,
			entry      REAL NOT NULL,
			stop       REAL NOT NULL,
			target     REAL NOT NULL,
			quantity   INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_run ON decisions(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_created ON decisions(created_at)`,

		`CREATE TABLE IF NOT EXISTS runs (
			id                 TEXT PRIMARY KEY,
			regime             TEXT NOT NULL,
			universe           INTEGER NOT NULL,
			sector_excluded    INTEGER NOT NULL,
			data_errors        INTEGER NOT NULL,
			fundamental_passed INTEGER NOT NULL,
			technical_passed   INTEGER NOT NULL,
			signals            INTEGER NOT NULL,
			started_at         INTEGER NOT NULL,
			finished_at        INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,
	}

	for _, s := range stmts {
		if _, err := j.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordDecision appends one emitted decision.
func (j *SQLiteJournal) RecordDecision(d *model.DecisionRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.Exec(`INSERT INTO decisions
		(id, run_id, symbol, signal, entry, stop, target, quantity, created_at)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		d.ID, d.RunID, d.Symbol, string(d.Signal),
		d.EntryPrice, d.StopPrice, d.TargetPrice, d.Quantity,
		d.CreatedAt.Unix(),
	)
	return err
}

// RecordRun appends one run summary with its stage counts.
func (j *SQLiteJournal) RecordRun(r *model.RunReport) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	c := r.Counts
	_, err := j.db.Exec(`INSERT INTO runs
		(id, regime, universe, sector_excluded, data_errors,
		 fundamental_passed, technical_passed, signals, started_at, finished_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		r.RunID, string(r.Regime),
		c.Universe, c.SectorExcluded, c.DataErrors,
		c.FundamentalPassed, c.TechnicalPassed, c.Signals,
		r.StartedAt.Unix(), r.FinishedAt.Unix(),
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	j.log.Info().Msg("Closing journal")
	return j.db.Close()
}
