package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/cccenter/site-backend/internal/storage"
	"github.com/cccenter/site-backend/pkg/logger"
)

// Logger is an append-only trail for sensitive actions (contact submissions,
// publishes, credential changes). One JSON object per line so the file can
// be parsed or shipped to a SIEM.
//
// Audit is a non-critical side channel: write failures are logged and
// swallowed so they can never fail the business operation that triggered
// them. The core never reads the file back.
type Logger struct {
	file string
}

func New(file string) *Logger {
	return &Logger{file: file}
}

// Record appends one event line {time, event, ...details}.
func (l *Logger) Record(event string, details map[string]any) {
	record := map[string]any{
		"time":  time.Now().UTC().Format(time.RFC3339),
		"event": event,
	}
	for k, v := range details {
		if k == "time" || k == "event" {
			continue
		}
		record[k] = v
	}
	line, err := json.Marshal(record)
	if err != nil {
		logger.Errorw("audit write failed", map[string]any{"error": err.Error()})
		return
	}
	if err := storage.EnsureDir(filepath.Dir(l.file)); err != nil {
		logger.Errorw("audit write failed", map[string]any{"error": err.Error()})
		return
	}
	f, err := os.OpenFile(l.file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Errorw("audit write failed", map[string]any{"error": err.Error()})
		return
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		logger.Errorw("audit write failed", map[string]any{"error": err.Error()})
	}
}
