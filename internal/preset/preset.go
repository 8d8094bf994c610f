// Package preset persists named job configurations so the UI collaborator
// can re-run saved queries.
package preset

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// Preset is one saved job configuration.
type Preset struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Config      json.RawMessage `json:"config"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Store persists presets in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the preset database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "preset: open")
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "preset: set WAL")
	}
	return &Store{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS presets (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT,
	config      TEXT NOT NULL,
	updated_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

// Migrate creates the preset schema.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "preset: migrate")
}

// Save inserts or updates a preset. An empty id creates a new one; the
// stored preset is returned either way.
func (s *Store) Save(ctx context.Context, p Preset) (Preset, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()[:8]
	}
	p.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO presets (id, name, description, config, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			config = excluded.config,
			updated_at = excluded.updated_at`,
		p.ID, p.Name, p.Description, string(p.Config), p.UpdatedAt)
	if err != nil {
		return Preset{}, eris.Wrap(err, "preset: save")
	}
	return p, nil
}

// Get returns one preset by id.
func (s *Store) Get(ctx context.Context, id string) (Preset, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, config, updated_at FROM presets WHERE id = ?", id)
	return scanPreset(row)
}

// List returns all presets, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Preset, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, description, config, updated_at FROM presets ORDER BY updated_at DESC")
	if err != nil {
		return nil, eris.Wrap(err, "preset: list")
	}
	defer rows.Close()

	var out []Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, eris.Wrap(rows.Err(), "preset: iterate")
}

// Delete removes a preset by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM presets WHERE id = ?", id)
	return eris.Wrap(err, "preset: delete")
}

func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPreset(row scanner) (Preset, error) {
	var p Preset
	var config string
	var desc sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &desc, &config, &p.UpdatedAt); err != nil {
		return Preset{}, eris.Wrap(err, "preset: scan")
	}
	p.Description = desc.String
	p.Config = json.RawMessage(config)
	return p, nil
}
