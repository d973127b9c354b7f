package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/cccenter/site-backend/internal/storage"
)

// Archives package the data and uploads directories into a single zip named
// backup-YYYY-MM-DD-HH-mm.zip. The fixed-width timestamp makes plain
// lexicographic filename order chronological.

var backupNamePattern = regexp.MustCompile(`^backup-\d{4}-\d{2}-\d{2}-\d{2}-\d{2}\.zip$`)

func stamp(now time.Time) string {
	return now.Format("2006-01-02-15-04")
}

// Create writes a new archive into backupsDir containing top-level data/ and
// uploads/ folders mirroring the live directories. Absent source directories
// are skipped. Returns the archive path.
func Create(dataDir, uploadsDir, backupsDir string) (string, error) {
	if err := storage.EnsureDir(backupsDir); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}

	outPath := filepath.Join(backupsDir, fmt.Sprintf("backup-%s.zip", stamp(time.Now())))
	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	if err := addFolderIfExists(zw, dataDir, "data"); err != nil {
		zw.Close()
		return "", err
	}
	if err := addFolderIfExists(zw, uploadsDir, "uploads"); err != nil {
		zw.Close()
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finalize archive: %w", err)
	}
	return outPath, nil
}

func addFolderIfExists(zw *zip.Writer, dir, prefix string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name := prefix + "/" + filepath.ToSlash(rel)
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(w, src)
		return err
	})
}

// ResolveLatest returns the newest archive in backupsDir by filename order.
func ResolveLatest(backupsDir string) (string, error) {
	entries, err := os.ReadDir(backupsDir)
	if err != nil {
		return "", fmt.Errorf("no backups directory found: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && backupNamePattern.MatchString(e.Name()) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no backup zip files found in %s", backupsDir)
	}
	sort.Strings(names)
	return filepath.Join(backupsDir, names[len(names)-1]), nil
}

// RestoreAll extracts the archive over rootDir, overwriting existing files.
// This is the operator CLI variant with no entry filtering; use
// RestoreGuarded for archives received over the network.
func RestoreAll(archivePath, rootDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		dest, err := safeJoin(rootDir, normalizeEntryName(entry.Name))
		if err != nil {
			return fmt.Errorf("entry %q: %w", entry.Name, err)
		}
		if err := extractEntry(entry, dest); err != nil {
			return err
		}
	}
	return nil
}

// RestoreCounts reports what a guarded restore touched.
type RestoreCounts struct {
	DataFiles   int `json:"dataFiles"`
	UploadFiles int `json:"uploadFiles"`
}

// RestoreGuarded extracts only entries whose normalized path sits under
// data/ or uploads/ and still resolves inside the matching target directory
// after joining. Anything else — including ../ traversal names — is skipped,
// which blocks zip-slip writes outside the intended directories.
func RestoreGuarded(archivePath, dataDir, uploadsDir string) (RestoreCounts, error) {
	var counts RestoreCounts

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return counts, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	if err := storage.EnsureDir(dataDir); err != nil {
		return counts, err
	}
	if err := storage.EnsureDir(uploadsDir); err != nil {
		return counts, err
	}

	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		normalized := normalizeEntryName(entry.Name)

		var targetBase, subPath string
		switch {
		case strings.HasPrefix(normalized, "data/"):
			targetBase, subPath = dataDir, strings.TrimPrefix(normalized, "data/")
		case strings.HasPrefix(normalized, "uploads/"):
			targetBase, subPath = uploadsDir, strings.TrimPrefix(normalized, "uploads/")
		default:
			continue
		}

		dest, err := safeJoin(targetBase, subPath)
		if err != nil {
			continue
		}
		if err := extractEntry(entry, dest); err != nil {
			return counts, err
		}
		if targetBase == dataDir {
			counts.DataFiles++
		} else {
			counts.UploadFiles++
		}
	}
	return counts, nil
}

// normalizeEntryName converts backslashes and strips leading slashes so both
// unix and windows-authored archives resolve the same way.
func normalizeEntryName(name string) string {
	n := strings.ReplaceAll(name, `\`, "/")
	return strings.TrimLeft(n, "/")
}

// safeJoin resolves rel under baseDir and rejects any result that escapes it.
func safeJoin(baseDir, rel string) (string, error) {
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(base, filepath.FromSlash(rel))
	if dest != base && !strings.HasPrefix(dest, base+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes target directory")
	}
	return dest, nil
}

func extractEntry(entry *zip.File, dest string) error {
	if err := storage.EnsureDir(filepath.Dir(dest)); err != nil {
		return err
	}
	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open entry %q: %w", entry.Name, err)
	}
	defer rc.Close()
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %q: %w", dest, err)
	}
	defer out.Close()
	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("extract %q: %w", entry.Name, err)
	}
	return nil
}
