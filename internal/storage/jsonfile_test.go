package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadJSONFallbackOnMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")
	var v []string
	require.NoError(t, ReadJSON(path, []byte(`["a","b"]`), &v))
	require.Equal(t, []string{"a", "b"}, v)
}

func TestReadJSONMalformedIsUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var v map[string]any
	err := ReadJSON(path, []byte("{}"), &v)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnavailable), "corrupt file must surface ErrUnavailable, got %v", err)
}

func TestWriteAtomicReplacesCompletely(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, WriteAtomic(path, []byte(`{"v":1}`)))
	require.NoError(t, WriteAtomic(path, []byte(`{"v":2}`)))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"v":2}`, string(b))

	// no temp leftovers
	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))
}

func TestBackupBeforeWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"v":1}`), 0o644))

	BackupBeforeWrite(dir, path, "content.draft.backup")

	matches, err := filepath.Glob(filepath.Join(dir, "content.draft.backup.*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	b, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	require.JSONEq(t, `{"v":1}`, string(b))
}

func TestBackupBeforeWriteMissingSourceIsNoop(t *testing.T) {
	dir := t.TempDir()
	BackupBeforeWrite(dir, filepath.Join(dir, "absent.json"), "content.draft.backup")
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)
	require.Empty(t, matches)
}
