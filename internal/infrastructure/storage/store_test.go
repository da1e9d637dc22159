package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nishantmakwanaa/clothing-store/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()

	fs, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "dir"))
	require.NoError(t, err)

	return map[string]Store{
		"file":   fs,
		"memory": NewMemoryStore(),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			var got record
			found, err := s.Get(ctx, KeySession, &got)
			require.NoError(t, err)
			assert.False(t, found, "absent key is not an error")

			require.NoError(t, s.Set(ctx, KeySession, record{Token: "abc", UserID: "7"}))

			found, err = s.Get(ctx, KeySession, &got)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, record{Token: "abc", UserID: "7"}, got)

			require.NoError(t, s.Set(ctx, KeySession, record{Token: "def", UserID: "8"}))
			found, err = s.Get(ctx, KeySession, &got)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "def", got.Token)

			require.NoError(t, s.Delete(ctx, KeySession))
			require.NoError(t, s.Delete(ctx, KeySession), "deleting twice is fine")

			found, err = s.Get(ctx, KeySession, &got)
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestFileStoreCorruptValue(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyCart+".json"), []byte("{not json"), 0o600))

	var items []record
	_, err = s.Get(context.Background(), KeyCart, &items)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorrupt))
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyOrderHistory, []string{"a", "b"}))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)

	var got []string
	found, err := reopened.Get(ctx, KeyOrderHistory, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, got)

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	err = s.Set(context.Background(), "../escape", "x")
	require.Error(t, err)
}

func TestMemoryStoreCorruptValue(t *testing.T) {
	s := NewMemoryStore()
	s.SetRaw(KeyUser, []byte("]"))

	var v map[string]string
	found, err := s.Get(context.Background(), KeyUser, &v)
	assert.True(t, found)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestOpen(t *testing.T) {
	s, err := Open(config.ClientConfig{StorageProvider: "file", StoragePath: t.TempDir()}, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = Open(config.ClientConfig{StorageProvider: "redis"}, nil)
	require.Error(t, err)

	_, err = Open(config.ClientConfig{StorageProvider: "sqlite"}, nil)
	require.Error(t, err)
}
