// Package checkpoint persists each batch's accumulated records to SQLite so
// a crash between batches loses at most the in-flight batch. The merge
// stage reloads every checkpoint in batch order.
package checkpoint

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/bureau-etl/internal/model"
)

// Store writes and reloads per-batch checkpoints.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the checkpoint database at path and configures
// WAL mode.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "checkpoint: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "checkpoint: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS batch_checkpoints (
	job_id     TEXT NOT NULL,
	batch      INTEGER NOT NULL,
	records    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (job_id, batch)
);

CREATE INDEX IF NOT EXISTS idx_batch_checkpoints_job ON batch_checkpoints(job_id);
`

// Migrate creates the checkpoint schema.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "checkpoint: migrate")
}

// SaveBatch stores one batch's records. Re-saving the same batch replaces
// it, so a resumed job can safely rewrite its last batch.
func (s *Store) SaveBatch(ctx context.Context, jobID string, batch int, recs model.BatchRecords) error {
	payload, err := json.Marshal(recs)
	if err != nil {
		return eris.Wrap(err, "checkpoint: marshal batch")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO batch_checkpoints (job_id, batch, records) VALUES (?, ?, ?)
		 ON CONFLICT (job_id, batch) DO UPDATE SET records = excluded.records`,
		jobID, batch, string(payload))
	return eris.Wrap(err, "checkpoint: save batch")
}

// LoadAll merges every checkpoint for the job in batch order.
func (s *Store) LoadAll(ctx context.Context, jobID string) (model.BatchRecords, error) {
	var merged model.BatchRecords
	rows, err := s.db.QueryContext(ctx,
		"SELECT records FROM batch_checkpoints WHERE job_id = ? ORDER BY batch", jobID)
	if err != nil {
		return merged, eris.Wrap(err, "checkpoint: load")
	}
	defer rows.Close()

	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return merged, eris.Wrap(err, "checkpoint: scan")
		}
		var batch model.BatchRecords
		if err := json.Unmarshal([]byte(payload), &batch); err != nil {
			return merged, eris.Wrap(err, "checkpoint: unmarshal batch")
		}
		merged.Append(batch)
	}
	return merged, eris.Wrap(rows.Err(), "checkpoint: iterate")
}

// Delete removes the job's checkpoints after a successful merge.
func (s *Store) Delete(ctx context.Context, jobID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM batch_checkpoints WHERE job_id = ?", jobID)
	return eris.Wrap(err, "checkpoint: delete")
}

func (s *Store) Close() error {
	return s.db.Close()
}
