// Package diagnostics is the internal event log for non-finding failures
// (rule-store load errors, subprocess timeouts, I/O errors demoted to SKIP).
// It is adapted from the teacher's AuditLogger: the finding stream itself
// (internal/finding) is the product and is never logged here.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one internal diagnostic record.
type Event struct {
	RunID     string `json:"run_id"`
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"` // "info", "warn", "error"
	Message   string `json:"message"`
}

// Logger appends JSON-lines events to a file. Unlike the teacher's
// AuditLogger it performs no rotation (this is a short-lived batch CLI, not
// a long-running proxy) and no redaction pass (no secrets flow through a
// static source analyzer).
type Logger struct {
	mu    sync.Mutex
	file  *os.File
	runID string
}

// Open appends to (creating if necessary) the diagnostics log at path,
// tagging every event written through the returned Logger with a fresh
// per-run UUID.
func Open(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("diagnostics: open %s: %w", path, err)
	}
	return &Logger{file: f, runID: uuid.NewString()}, nil
}

func (l *Logger) Log(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ev := Event{
		RunID:     l.runID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Message:   fmt.Sprintf(format, args...),
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	b = append(b, '\n')
	l.file.Write(b)
}

func (l *Logger) Warn(format string, args ...interface{})  { l.Log("warn", format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.Log("error", format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.Log("info", format, args...) }

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
