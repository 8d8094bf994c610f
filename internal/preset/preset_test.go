package preset

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "presets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSaveAndGet(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	config := json.RawMessage(`{"primary_table": "reports", "target_column": "raw_json"}`)
	saved, err := s.Save(ctx, Preset{Name: "monthly gold", Description: "gold loans by month", Config: config})
	require.NoError(t, err)
	assert.Len(t, saved.ID, 8)
	assert.False(t, saved.UpdatedAt.IsZero())

	got, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "monthly gold", got.Name)
	assert.Equal(t, "gold loans by month", got.Description)
	assert.JSONEq(t, string(config), string(got.Config))
}

func TestSave_UpdatesExisting(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, Preset{Name: "v1", Config: json.RawMessage(`{}`)})
	require.NoError(t, err)

	_, err = s.Save(ctx, Preset{ID: saved.ID, Name: "v2", Config: json.RawMessage(`{"use_join": true}`)})
	require.NoError(t, err)

	got, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Name)
	assert.JSONEq(t, `{"use_join": true}`, string(got.Config))

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGet_Missing(t *testing.T) {
	s := openStore(t)

	_, err := s.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestList_Empty(t *testing.T) {
	s := openStore(t)

	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDelete(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, Preset{Name: "doomed", Config: json.RawMessage(`{}`)})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, saved.ID))
	_, err = s.Get(ctx, saved.ID)
	assert.Error(t, err)

	// Deleting an absent preset is not an error.
	assert.NoError(t, s.Delete(ctx, "nope"))
}
