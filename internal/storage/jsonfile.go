package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cccenter/site-backend/pkg/logger"
)

// ErrUnavailable marks a store file that exists but cannot be parsed into
// the expected shape. Callers must treat it as corruption, never as "not
// found": silently falling back to defaults would mask data loss.
var ErrUnavailable = errors.New("store unavailable")

// EnsureDir creates dir (and parents) if missing.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// ReadJSON reads path and unmarshals it into v. When the file is missing the
// fallback raw JSON is parsed instead. A present-but-malformed file always
// returns an error wrapping ErrUnavailable.
func ReadJSON(path string, fallback []byte, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("read %s: %w", path, err)
		}
		raw = fallback
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse %s: %w: %v", path, ErrUnavailable, err)
	}
	return nil
}

// WriteAtomic writes data to path via a temporary sibling file and a rename,
// so readers observe either the prior complete file or the new one, never a
// partial write.
func WriteAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// BackupBeforeWrite copies the current content of path into
// {label}.{epochMillis}.json inside dataDir. Best-effort: a failed backup is
// logged and never blocks the write that follows. Old backups are not pruned.
func BackupBeforeWrite(dataDir, path, label string) {
	current, err := os.ReadFile(path)
	if err != nil {
		logger.Warnw("backup skipped", map[string]any{"file": path, "error": err.Error()})
		return
	}
	name := label + "." + strconv.FormatInt(time.Now().UnixMilli(), 10) + ".json"
	dest := filepath.Join(dataDir, name)
	if err := os.WriteFile(dest, current, 0o644); err != nil {
		logger.Warnw("backup skipped", map[string]any{"file": dest, "error": err.Error()})
		return
	}
	logger.Infow("store backup", map[string]any{"file": name})
}

// MarshalIndent pins the on-disk JSON shape: two-space pretty printing.
func MarshalIndent(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
