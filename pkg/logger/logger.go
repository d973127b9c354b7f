package logger

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Minimal leveled logger used across the site backend.
// - zero external deps
// - emits one JSON object per line so output can be shipped to a collector
// - provides printf-style Debugf/Infof/Warnf/Errorf/Fatalf plus structured
//   *w variants that attach a flat meta map

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var (
	mu    sync.RWMutex
	out   *log.Logger = log.New(os.Stdout, "", 0)
	level Level       = LevelInfo
)

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		level = LevelDebug
	case "warn", "warning":
		level = LevelWarn
	case "error":
		level = LevelError
	case "fatal":
		level = LevelFatal
	default:
		level = LevelInfo
	}
}

func shouldLog(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= level
}

func emit(lvl string, msg string, meta map[string]any) {
	line := map[string]any{
		"level": lvl,
		"time":  time.Now().UTC().Format(time.RFC3339),
		"msg":   msg,
	}
	for k, v := range meta {
		if k == "level" || k == "time" || k == "msg" {
			continue
		}
		line[k] = v
	}
	b, err := json.Marshal(line)
	if err != nil {
		out.Printf(`{"level":%q,"msg":%q}`, lvl, msg)
		return
	}
	out.Print(string(b))
}

func Debugf(format string, v ...any) {
	if shouldLog(LevelDebug) {
		emit("debug", fmt.Sprintf(format, v...), nil)
	}
}

func Infof(format string, v ...any) {
	if shouldLog(LevelInfo) {
		emit("info", fmt.Sprintf(format, v...), nil)
	}
}

func Warnf(format string, v ...any) {
	if shouldLog(LevelWarn) {
		emit("warn", fmt.Sprintf(format, v...), nil)
	}
}

func Errorf(format string, v ...any) {
	if shouldLog(LevelError) {
		emit("error", fmt.Sprintf(format, v...), nil)
	}
}

func Fatalf(format string, v ...any) {
	emit("fatal", fmt.Sprintf(format, v...), nil)
	os.Exit(1)
}

// Structured variants: message plus a flat meta map merged into the JSON line.

func Debugw(msg string, meta map[string]any) {
	if shouldLog(LevelDebug) {
		emit("debug", msg, meta)
	}
}

func Infow(msg string, meta map[string]any) {
	if shouldLog(LevelInfo) {
		emit("info", msg, meta)
	}
}

func Warnw(msg string, meta map[string]any) {
	if shouldLog(LevelWarn) {
		emit("warn", msg, meta)
	}
}

func Errorw(msg string, meta map[string]any) {
	if shouldLog(LevelError) {
		emit("error", msg, meta)
	}
}

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	switch level {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "info"
}

// SetOutput redirects log output; used by tests.
func SetOutput(l *log.Logger) {
	mu.Lock()
	defer mu.Unlock()
	out = l
}
