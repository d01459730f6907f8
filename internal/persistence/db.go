// Package persistence provides SQLite-based run recording: one row per
// tick of aggregate statistics and one row per agent per tick, keyed by
// a run ID. Batch harnesses read these tables to build their exports.
package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/unrest/internal/config"
	"github.com/talgya/unrest/internal/engine"
)

// DB wraps a SQLite connection for run recording.
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
		created_at TEXT NOT NULL DEFAULT (datetime('now')),
		params_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS aggregates (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		active INTEGER NOT NULL,
		quiescent INTEGER NOT NULL,
		jailed INTEGER NOT NULL,
		citizens INTEGER NOT NULL,
		cops INTEGER NOT NULL,
		avg_jail_term REAL NOT NULL,
		avg_strong_receival REAL NOT NULL,
		avg_weak_receival REAL NOT NULL,
		pending_edges INTEGER NOT NULL,
		pending_ratio REAL NOT NULL,
		censored_edges INTEGER NOT NULL,
		PRIMARY KEY (run_id, tick)
	);

	CREATE TABLE IF NOT EXISTS agent_ticks (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		agent_id INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		breed TEXT NOT NULL,
		jail_term INTEGER NOT NULL,
		condition TEXT NOT NULL,
		arrest_probability REAL NOT NULL,
		PRIMARY KEY (run_id, tick, agent_id)
	);

	CREATE INDEX IF NOT EXISTS idx_aggregates_run ON aggregates(run_id);
	CREATE INDEX IF NOT EXISTS idx_agent_ticks_run_tick ON agent_ticks(run_id, tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// BeginRun registers a run with its full parameter set and returns the
// new run ID.
func (db *DB) BeginRun(p config.Params) (string, error) {
	paramsJSON, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal params: %w", err)
	}
	id := uuid.NewString()
	_, err = db.conn.Exec(
		"INSERT INTO runs (id, params_json) VALUES (?, ?)",
		id, string(paramsJSON),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// SaveTick writes one tick's aggregate and agent rows in a single
// transaction.
func (db *DB) SaveTick(runID string, agg engine.Aggregate, rows []engine.AgentRow) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO aggregates
		(run_id, tick, active, quiescent, jailed, citizens, cops,
		 avg_jail_term, avg_strong_receival, avg_weak_receival,
		 pending_edges, pending_ratio, censored_edges)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, agg.Iteration, agg.Active, agg.Quiescent, agg.Jailed,
		agg.Citizens, agg.Cops, agg.AvgJailTerm, agg.AvgStrongReceival,
		agg.AvgWeakReceival, agg.PendingEdges, agg.PendingRatio, agg.CensoredEdges,
	)
	if err != nil {
		return fmt.Errorf("insert aggregate tick %d: %w", agg.Iteration, err)
	}

	stmt, err := tx.Preparex(`INSERT INTO agent_ticks
		(run_id, tick, agent_id, x, y, breed, jail_term, condition, arrest_probability)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.Exec(
			runID, agg.Iteration, r.ID, r.X, r.Y, r.Breed,
			r.JailTerm, r.Condition, r.ArrestProbability,
		)
		if err != nil {
			return fmt.Errorf("insert agent %d tick %d: %w", r.ID, agg.Iteration, err)
		}
	}

	return tx.Commit()
}

// LoadAggregates returns a run's aggregate rows in tick order.
func (db *DB) LoadAggregates(runID string) ([]engine.Aggregate, error) {
	rows, err := db.conn.Query(`SELECT
		tick, active, quiescent, jailed, citizens, cops,
		avg_jail_term, avg_strong_receival, avg_weak_receival,
		pending_edges, pending_ratio, censored_edges
		FROM aggregates WHERE run_id = ? ORDER BY tick`, runID)
	if err != nil {
		return nil, fmt.Errorf("query aggregates: %w", err)
	}
	defer rows.Close()

	var out []engine.Aggregate
	for rows.Next() {
		var a engine.Aggregate
		err := rows.Scan(
			&a.Iteration, &a.Active, &a.Quiescent, &a.Jailed,
			&a.Citizens, &a.Cops, &a.AvgJailTerm, &a.AvgStrongReceival,
			&a.AvgWeakReceival, &a.PendingEdges, &a.PendingRatio, &a.CensoredEdges,
		)
		if err != nil {
			return nil, fmt.Errorf("scan aggregate: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// RunParams returns the parameter set a run was recorded with.
func (db *DB) RunParams(runID string) (config.Params, error) {
	var paramsJSON string
	err := db.conn.QueryRow("SELECT params_json FROM runs WHERE id = ?", runID).Scan(&paramsJSON)
	if err != nil {
		return config.Params{}, fmt.Errorf("load run %s: %w", runID, err)
	}
	var p config.Params
	if err := json.Unmarshal([]byte(paramsJSON), &p); err != nil {
		return config.Params{}, fmt.Errorf("parse run params: %w", err)
	}
	return p, nil
}
