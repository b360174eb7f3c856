package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"mealwise/internal/database"
	"mealwise/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func exerciseKV(t *testing.T, kv storage.KV) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := kv.Load(ctx, "mealwise_schedule")
	require.NoError(t, err)
	assert.False(t, ok, "unwritten key")

	require.NoError(t, kv.Store(ctx, "mealwise_schedule", `{"Monday":{}}`))
	v, ok, err := kv.Load(ctx, "mealwise_schedule")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"Monday":{}}`, v)

	require.NoError(t, kv.Store(ctx, "mealwise_schedule", `[]`))
	v, _, err = kv.Load(ctx, "mealwise_schedule")
	require.NoError(t, err)
	assert.Equal(t, `[]`, v, "store replaces the whole value")

	require.NoError(t, kv.Store(ctx, "empty", ""))
	v, ok, err = kv.Load(ctx, "empty")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestMemoryStore(t *testing.T) {
	exerciseKV(t, storage.NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "kv")
	s, err := storage.NewFileStore(dir)
	require.NoError(t, err)

	t.Run("Contract", func(t *testing.T) {
		exerciseKV(t, s)
	})

	t.Run("KeysAreSanitized", func(t *testing.T) {
		require.NoError(t, s.Store(context.Background(), "../escape/key", "x"))
		assert.True(t, s.Exists("../escape/key"))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, e := range entries {
			assert.False(t, e.IsDir())
		}
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, s.Store(context.Background(), "gone", "x"))
		require.NoError(t, s.Remove("gone"))
		assert.False(t, s.Exists("gone"))
		assert.NoError(t, s.Remove("gone"))
	})

	t.Run("SurvivesReopen", func(t *testing.T) {
		require.NoError(t, s.Store(context.Background(), "book-tracker-collection", "[1]"))
		reopened, err := storage.NewFileStore(dir)
		require.NoError(t, err)
		v, ok, err := reopened.Load(context.Background(), "book-tracker-collection")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "[1]", v)
	})
}

func TestSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "mealwise.db")
	db, err := database.NewDB(dbPath, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	exerciseKV(t, storage.NewSQLiteStore(db.SQL))
}
