// Package audit persists WorkflowSummary records to a local SQLite
// database as a read-only forensic journal. It is explicitly not wired
// into any resumption path: the engine has no notion of "continue this
// run later", and audit exists purely so a caller can ask "what happened
// last time".
package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"txinstall/internal/config"
	"txinstall/internal/workflow"
)

// Store wraps a SQLite connection holding the run journal.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the audit database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create audit dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping audit db: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate audit db: %w", err)
	}
	return &Store{db: db}, nil
}

// DefaultPath returns the conventional audit database location, deferring
// to internal/config.Current.AuditDir (itself honoring TXINSTALL_AUDIT_DIR)
// so the CLI, the MCP server, and this package agree on one location
// without each re-reading the environment.
func DefaultPath() string {
	return filepath.Join(config.Current.AuditDir, "audit.db")
}

func migrate(db *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		run_id        TEXT PRIMARY KEY,
		operation     TEXT NOT NULL,
		status        TEXT NOT NULL,
		success       INTEGER NOT NULL,
		message       TEXT,
		failed_step   TEXT,
		duration_ms   INTEGER NOT NULL,
		completed     INTEGER NOT NULL,
		step_results  TEXT NOT NULL,
		started_at    INTEGER NOT NULL
	);
	`
	_, err := db.Exec(schema)
	return err
}

// Record stores one WorkflowSummary. Step results are serialized as JSON:
// they are read back for display, never re-parsed into executable state.
func (s *Store) Record(summary workflow.WorkflowSummary) error {
	stepJSON, err := json.Marshal(summary.StepResults)
	if err != nil {
		return fmt.Errorf("marshal step results: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO runs
		 (run_id, operation, status, success, message, failed_step, duration_ms, completed, step_results, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID, summary.Operation, string(summary.Status), boolToInt(summary.Success), summary.Message,
		summary.FailedStep, summary.Duration.Milliseconds(), summary.CompletedSteps, string(stepJSON),
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert run record: %w", err)
	}
	return nil
}

// RunRecord is a past WorkflowSummary as read back from the journal; it is
// a display projection, not something the engine consumes.
type RunRecord struct {
	RunID      string
	Operation  string
	Status     workflow.RunStatus
	Success    bool
	Message    string
	FailedStep string
	Duration   time.Duration
	Completed  int
	StartedAt  time.Time
}

// List returns the most recent limit runs, newest first.
func (s *Store) List(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, operation, status, success, message, failed_step, duration_ms, completed, started_at
		 FROM runs ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var status string
		var success int
		var durationMs int64
		var startedAt int64
		if err := rows.Scan(&r.RunID, &r.Operation, &status, &success, &r.Message, &r.FailedStep, &durationMs, &r.Completed, &startedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Status = workflow.RunStatus(status)
		r.Success = success != 0
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.StartedAt = time.Unix(startedAt, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
