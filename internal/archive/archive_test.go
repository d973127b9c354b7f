package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func buildZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestCreateArchivesDataAndUploads(t *testing.T) {
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	uploadsDir := filepath.Join(root, "uploads")
	backupsDir := filepath.Join(root, "backups")

	writeFile(t, filepath.Join(dataDir, "content.json"), `{"siteInfo":{}}`)
	writeFile(t, filepath.Join(dataDir, "backups", "content.draft.backup.1.json"), `{}`)
	writeFile(t, filepath.Join(uploadsDir, "img-1.png"), "png-bytes")

	path, err := Create(dataDir, uploadsDir, backupsDir)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`backup-\d{4}-\d{2}-\d{2}-\d{2}-\d{2}\.zip$`), path)

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	names := map[string]bool{}
	for _, entry := range zr.File {
		names[entry.Name] = true
	}
	assert.True(t, names["data/content.json"])
	assert.True(t, names["data/backups/content.draft.backup.1.json"])
	assert.True(t, names["uploads/img-1.png"])
}

func TestCreateSkipsAbsentUploads(t *testing.T) {
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	writeFile(t, filepath.Join(dataDir, "posts.json"), "[]")

	path, err := Create(dataDir, filepath.Join(root, "uploads"), filepath.Join(root, "backups"))
	require.NoError(t, err)

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 1)
	assert.Equal(t, "data/posts.json", zr.File[0].Name)
}

func TestResolveLatestPicksNewestName(t *testing.T) {
	backupsDir := t.TempDir()
	for _, name := range []string{
		"backup-2026-01-05-09-30.zip",
		"backup-2026-03-11-23-59.zip",
		"backup-2026-03-11-08-00.zip",
		"notes.txt",
		"backup-bad-name.zip",
	} {
		writeFile(t, filepath.Join(backupsDir, name), "x")
	}

	latest, err := ResolveLatest(backupsDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(backupsDir, "backup-2026-03-11-23-59.zip"), latest)
}

func TestResolveLatestNoArchives(t *testing.T) {
	backupsDir := t.TempDir()
	writeFile(t, filepath.Join(backupsDir, "readme.md"), "hi")

	_, err := ResolveLatest(backupsDir)
	require.Error(t, err)

	_, err = ResolveLatest(filepath.Join(backupsDir, "missing"))
	require.Error(t, err)
}

func TestRestoreAllOverwrites(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "data", "content.json"), "old")

	archivePath := filepath.Join(t.TempDir(), "backup-2026-02-02-02-02.zip")
	buildZip(t, archivePath, map[string]string{
		"data/content.json":  "new",
		"uploads/img-2.webp": "webp",
	})

	require.NoError(t, RestoreAll(archivePath, root))

	got, readErr := os.ReadFile(filepath.Join(root, "data", "content.json"))
	require.NoError(t, readErr)
	assert.Equal(t, "new", string(got))
	_, statErr := os.Stat(filepath.Join(root, "uploads", "img-2.webp"))
	assert.NoError(t, statErr)
}

func TestRestoreGuardedSkipsTraversalAndForeignEntries(t *testing.T) {
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	uploadsDir := filepath.Join(root, "uploads")

	archivePath := filepath.Join(t.TempDir(), "backup-2026-04-04-04-04.zip")
	buildZip(t, archivePath, map[string]string{
		"data/content.json":   `{"ok":true}`,
		"data/posts.json":     "[]",
		"uploads/img-3.jpg":   "jpg",
		"../../etc/passwd":    "evil",
		"data/../../evil.txt": "evil",
		"logs/app.log":        "noise",
		`data\nested\win.json`: "{}",
	})

	counts, restoreErr := RestoreGuarded(archivePath, dataDir, uploadsDir)
	require.NoError(t, restoreErr)
	assert.Equal(t, 3, counts.DataFiles)
	assert.Equal(t, 1, counts.UploadFiles)

	_, statErr := os.Stat(filepath.Join(dataDir, "content.json"))
	assert.NoError(t, statErr)
	_, statErr = os.Stat(filepath.Join(dataDir, "nested", "win.json"))
	assert.NoError(t, statErr)

	_, statErr = os.Stat(filepath.Join(root, "evil.txt"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(root, "logs"))
	assert.True(t, os.IsNotExist(statErr))
}
