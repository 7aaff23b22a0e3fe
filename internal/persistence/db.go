// Package persistence provides SQLite-based storage for finished projections.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/colonysim/internal/params"
	"github.com/talgya/colonysim/internal/report"
)

// ErrNotFound is returned when a run ID has no stored row.
var ErrNotFound = errors.New("run not found")

// DB wraps a SQLite connection for run storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		mode TEXT NOT NULL,
		seed INTEGER NOT NULL,
		trials INTEGER NOT NULL,
		months INTEGER NOT NULL,
		initial_population REAL NOT NULL,
		final_population REAL NOT NULL,
		total_cost REAL NOT NULL,
		params_json TEXT NOT NULL,
		response_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS colony_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RunSummary is the listing view of a stored run.
type RunSummary struct {
	ID                string    `json:"id"`
	CreatedAt         time.Time `json:"createdAt"`
	Mode              string    `json:"mode"`
	Seed              int64     `json:"seed"`
	Trials            int       `json:"trials"`
	Months            int       `json:"months"`
	InitialPopulation float64   `json:"initialPopulation"`
	FinalPopulation   float64   `json:"finalPopulation"`
	TotalCost         float64   `json:"totalCost"`
}

// StoredRun is a run with its parameters and full response restored.
type StoredRun struct {
	RunSummary
	Params   params.Set       `json:"params"`
	Response *report.Response `json:"response"`
}

type runRow struct {
	ID                string  `db:"id"`
	CreatedAt         string  `db:"created_at"`
	Mode              string  `db:"mode"`
	Seed              int64   `db:"seed"`
	Trials            int     `db:"trials"`
	Months            int     `db:"months"`
	InitialPopulation float64 `db:"initial_population"`
	FinalPopulation   float64 `db:"final_population"`
	TotalCost         float64 `db:"total_cost"`
	ParamsJSON        string  `db:"params_json"`
	ResponseJSON      string  `db:"response_json"`
}

func (r runRow) summary() (RunSummary, error) {
	created, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return RunSummary{}, fmt.Errorf("run %s created_at: %w", r.ID, err)
	}
	return RunSummary{
		ID:                r.ID,
		CreatedAt:         created,
		Mode:              r.Mode,
		Seed:              r.Seed,
		Trials:            r.Trials,
		Months:            r.Months,
		InitialPopulation: r.InitialPopulation,
		FinalPopulation:   r.FinalPopulation,
		TotalCost:         r.TotalCost,
	}, nil
}

// SaveRun stores a finished projection under a new ID, which is also
// written into resp.RunID.
func (db *DB) SaveRun(p params.Set, resp *report.Response) (string, error) {
	id := uuid.NewString()
	resp.RunID = id

	paramsJSON, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode params: %w", err)
	}
	respJSON, err := json.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("encode response: %w", err)
	}

	trials := resp.Trials
	if trials == 0 {
		trials = 1
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(id, created_at, mode, seed, trials, months, initial_population,
		 final_population, total_cost, params_json, response_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339Nano), resp.Mode, resp.Seed, trials,
		len(resp.Months), resp.InitialPopulation, resp.FinalPopulation, resp.TotalCost,
		string(paramsJSON), string(respJSON),
	)
	if err != nil {
		return "", fmt.Errorf("insert run %s: %w", id, err)
	}
	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO colony_meta (key, value) VALUES ('last_run_id', ?)", id,
	); err != nil {
		return "", fmt.Errorf("save meta: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}

	slog.Info("run saved", "id", id, "mode", resp.Mode, "seed", resp.Seed, "months", len(resp.Months))
	return id, nil
}

// RecentRuns returns up to limit runs, newest first.
func (db *DB) RecentRuns(limit int) ([]RunSummary, error) {
	var rows []runRow
	err := db.conn.Select(&rows,
		`SELECT id, created_at, mode, seed, trials, months, initial_population,
		        final_population, total_cost, '' AS params_json, '' AS response_json
		 FROM runs ORDER BY rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}

	out := make([]RunSummary, 0, len(rows))
	for _, r := range rows {
		s, err := r.summary()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// GetRun loads one run by ID.
func (db *DB) GetRun(id string) (*StoredRun, error) {
	var row runRow
	err := db.conn.Get(&row, "SELECT * FROM runs WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	s, err := row.summary()
	if err != nil {
		return nil, err
	}
	run := &StoredRun{RunSummary: s}
	if err := json.Unmarshal([]byte(row.ParamsJSON), &run.Params); err != nil {
		return nil, fmt.Errorf("decode params for %s: %w", id, err)
	}
	run.Response = &report.Response{}
	if err := json.Unmarshal([]byte(row.ResponseJSON), run.Response); err != nil {
		return nil, fmt.Errorf("decode response for %s: %w", id, err)
	}
	return run, nil
}

// CountRuns returns the number of stored runs.
func (db *DB) CountRuns() (int, error) {
	var n int
	err := db.conn.Get(&n, "SELECT COUNT(*) FROM runs")
	return n, err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM colony_meta WHERE key = ?", key)
	return value, err
}
