package storage_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbvault/dbvault/internal/events"
	"github.com/dbvault/dbvault/internal/storage"
)

func newTestStore(t *testing.T) *storage.FileStore {
	t.Helper()
	var buf bytes.Buffer
	logger := events.NewTestLogger(events.DebugLevel, "json", &buf)
	return storage.NewFileStore(logger)
}

func TestReadReplace(t *testing.T) {
	store := newTestStore(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "file.bin")

	require.NoError(t, os.WriteFile(path, []byte("before"), 0600))

	data, err := store.Read(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("before"), data)

	require.NoError(t, store.Replace(path, []byte("after")))

	data, err = store.Read(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("after"), data)

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReplacePreservesMode(t *testing.T) {
	store := newTestStore(t)
	path := filepath.Join(t.TempDir(), "file.bin")

	require.NoError(t, os.WriteFile(path, []byte("x"), 0640))
	require.NoError(t, store.Replace(path, []byte("y")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm())
}

func TestReadMissingFile(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Read(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSizeLimit(t *testing.T) {
	store := newTestStore(t)
	store.SetMaxFileSize(8)
	path := filepath.Join(t.TempDir(), "file.bin")

	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{1}, 16), 0600))

	_, err := store.Read(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")

	err = store.Replace(path, bytes.Repeat([]byte{2}, 16))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestExists(t *testing.T) {
	store := newTestStore(t)
	dir := t.TempDir()

	ok, err := store.Exists(filepath.Join(dir, "nope"))
	require.NoError(t, err)
	assert.False(t, ok)

	path := filepath.Join(dir, "yes")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	ok, err = store.Exists(path)
	require.NoError(t, err)
	assert.True(t, ok)
}
