// Package checkpointcat records training run metadata — which checkpoints
// and model snapshots exist, at which iteration, with which log-likelihood
// — in a SQLite catalog, so a trainer restart or an operator can find the
// latest usable state without walking the filesystem.
//
// Grounded on store/sqlite.OpenSQLite for the WAL-mode open and schema
// bootstrap pattern.
package checkpointcat

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Catalog records checkpoint and model-save events for a single run.
type Catalog struct {
	db *sql.DB
}

// Open opens (creating if absent) a SQLite catalog at path with WAL mode
// enabled for concurrent readers during a long training run.
func Open(ctx context.Context, path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("checkpointcat: opening %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("checkpointcat: enabling WAL: %w", err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{db: db}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	num_topics INTEGER NOT NULL,
	topic_prior REAL NOT NULL,
	word_prior REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS checkpoints (
	run_id TEXT NOT NULL,
	iteration INTEGER NOT NULL,
	saved_at TEXT NOT NULL,
	PRIMARY KEY(run_id, iteration),
	FOREIGN KEY(run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS model_saves (
	run_id TEXT NOT NULL,
	iteration INTEGER NOT NULL,
	saved_at TEXT NOT NULL,
	PRIMARY KEY(run_id, iteration),
	FOREIGN KEY(run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS loglikelihoods (
	run_id TEXT NOT NULL,
	iteration INTEGER NOT NULL,
	loglikelihood REAL NOT NULL,
	computed_at TEXT NOT NULL,
	PRIMARY KEY(run_id, iteration),
	FOREIGN KEY(run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("checkpointcat: initializing schema: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// StartRun records the start of a new training run.
func (c *Catalog) StartRun(ctx context.Context, runID string, numTopics int32, topicPrior, wordPrior float64) error {
	_, err := c.db.ExecContext(ctx, `
INSERT INTO runs (run_id, started_at, num_topics, topic_prior, word_prior)
VALUES (?, ?, ?, ?, ?);
`, runID, time.Now().UTC().Format(time.RFC3339), numTopics, topicPrior, wordPrior)
	if err != nil {
		return fmt.Errorf("checkpointcat: starting run %s: %w", runID, err)
	}
	return nil
}

// RecordCheckpoint logs that a checkpoint was written at iteration.
func (c *Catalog) RecordCheckpoint(ctx context.Context, runID string, iteration int) error {
	_, err := c.db.ExecContext(ctx, `
INSERT INTO checkpoints (run_id, iteration, saved_at) VALUES (?, ?, ?)
ON CONFLICT(run_id, iteration) DO UPDATE SET saved_at=excluded.saved_at;
`, runID, iteration, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("checkpointcat: recording checkpoint for run %s iter %d: %w", runID, iteration, err)
	}
	return nil
}

// RecordModelSave logs that a model snapshot was written at iteration.
func (c *Catalog) RecordModelSave(ctx context.Context, runID string, iteration int) error {
	_, err := c.db.ExecContext(ctx, `
INSERT INTO model_saves (run_id, iteration, saved_at) VALUES (?, ?, ?)
ON CONFLICT(run_id, iteration) DO UPDATE SET saved_at=excluded.saved_at;
`, runID, iteration, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("checkpointcat: recording model save for run %s iter %d: %w", runID, iteration, err)
	}
	return nil
}

// RecordLogLikelihood logs a computed log-likelihood at iteration.
func (c *Catalog) RecordLogLikelihood(ctx context.Context, runID string, iteration int, ll float64) error {
	_, err := c.db.ExecContext(ctx, `
INSERT INTO loglikelihoods (run_id, iteration, loglikelihood, computed_at) VALUES (?, ?, ?, ?)
ON CONFLICT(run_id, iteration) DO UPDATE SET loglikelihood=excluded.loglikelihood, computed_at=excluded.computed_at;
`, runID, iteration, ll, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("checkpointcat: recording loglikelihood for run %s iter %d: %w", runID, iteration, err)
	}
	return nil
}

// LatestCheckpoint returns the highest checkpoint iteration recorded for
// runID, and false if none exists.
func (c *Catalog) LatestCheckpoint(ctx context.Context, runID string) (int, bool, error) {
	var iteration sql.NullInt64
	err := c.db.QueryRowContext(ctx,
		`SELECT MAX(iteration) FROM checkpoints WHERE run_id = ?`, runID).Scan(&iteration)
	if err != nil {
		return 0, false, fmt.Errorf("checkpointcat: querying latest checkpoint for run %s: %w", runID, err)
	}
	if !iteration.Valid {
		return 0, false, nil
	}
	return int(iteration.Int64), true, nil
}

// LogLikelihoodHistory returns (iteration, loglikelihood) pairs for runID
// in ascending iteration order.
func (c *Catalog) LogLikelihoodHistory(ctx context.Context, runID string) ([]LogLikelihoodPoint, error) {
	rows, err := c.db.QueryContext(ctx, `
SELECT iteration, loglikelihood FROM loglikelihoods
WHERE run_id = ? ORDER BY iteration ASC;
`, runID)
	if err != nil {
		return nil, fmt.Errorf("checkpointcat: querying loglikelihood history for run %s: %w", runID, err)
	}
	defer rows.Close()

	var points []LogLikelihoodPoint
	for rows.Next() {
		var p LogLikelihoodPoint
		if err := rows.Scan(&p.Iteration, &p.LogLikelihood); err != nil {
			return nil, fmt.Errorf("checkpointcat: scanning loglikelihood row: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// LogLikelihoodPoint is one (iteration, loglikelihood) sample.
type LogLikelihoodPoint struct {
	Iteration     int
	LogLikelihood float64
}
