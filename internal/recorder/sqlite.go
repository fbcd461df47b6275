package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"SetupSentinel/internal/model"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	zap.L().Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id      TEXT PRIMARY KEY,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			processed   INTEGER,
			skipped     INTEGER,
			alerts      INTEGER,
			failures    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS alert_decisions (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          TEXT NOT NULL,
			timestamp       INTEGER NOT NULL,
			bar_date        TEXT,
			symbol          TEXT NOT NULL,
			name            TEXT,
			currency        TEXT,
			category        TEXT,
			price           REAL,
			prev_close      REAL,
			buy_count       INTEGER,
			sell_count      INTEGER,
			direction       TEXT,
			macd_bias       TEXT,
			trend_boundary  TEXT,
			threshold       INTEGER,
			chart_requested INTEGER,
			notified        INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_symbol_ts ON alert_decisions(symbol, timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_run ON alert_decisions(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordDecision(rec *DecisionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := rec.Decision
	var direction, bias, boundary string
	if d.Trend != nil {
		direction = string(d.Trend.Direction)
		bias = string(d.Trend.MACDBias)
		boundary = string(d.Trend.Boundary)
	}

	_, err := r.db.Exec(`INSERT INTO alert_decisions
		(run_id, timestamp, bar_date, symbol, name, currency, category,
		 price, prev_close, buy_count, sell_count,
		 direction, macd_bias, trend_boundary, threshold, chart_requested, notified)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.RunID, time.Now().Unix(), d.Date.Format("2006-01-02"),
		d.Instrument.Symbol, d.Instrument.Name, string(d.Instrument.Currency), string(d.Category),
		d.Price, d.PrevClose, d.Setup.BuyCount, d.Setup.SellCount,
		direction, bias, boundary, d.ThresholdUsed, d.ChartRequested, rec.Notified,
	)
	return err
}

func (r *SQLiteRecorder) RecordRun(sum *model.RunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO runs
		(run_id, started_at, finished_at, processed, skipped, alerts, failures)
		VALUES (?,?,?,?,?,?,?)`,
		sum.RunID, sum.StartedAt.Unix(), sum.FinishedAt.Unix(),
		sum.Processed, sum.Skipped, sum.Alerts, strings.Join(sum.Failures, "\n"),
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	zap.L().Info("closing sqlite recorder")
	return r.db.Close()
}
