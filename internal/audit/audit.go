// Package audit writes the append-only, human-readable expense trail.
//
// The audit log is deliberately independent of the database: it lives on the
// filesystem, has its own failure domain, and a failed append must never roll
// back a committed financial transaction (nor the other way around).
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Logger appends one line to a trip's audit trail.
type Logger interface {
	// Append writes line, newline-terminated, to the log file for tripID and
	// the current calendar month. The line must not contain a trailing newline.
	Append(tripID uuid.UUID, line string) error
}

// FileLogger is the filesystem implementation of Logger.
// Files are named trip-<id>-<YYYY-MM>.log under dir, created on first use,
// and only ever appended to — never truncated.
type FileLogger struct {
	dir string
}

// NewFileLogger constructs a FileLogger writing under dir.
// The directory is created lazily on the first append.
func NewFileLogger(dir string) *FileLogger {
	return &FileLogger{dir: dir}
}

// Append writes one newline-terminated line to the trip's current month file.
func (l *FileLogger) Append(tripID uuid.UUID, line string) error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("audit.FileLogger.Append: create dir: %w", err)
	}

	name := fmt.Sprintf("trip-%s-%s.log", tripID, time.Now().UTC().Format("2006-01"))
	path := filepath.Join(l.dir, name)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("audit.FileLogger.Append: open: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("audit.FileLogger.Append: write: %w", err)
	}
	return nil
}
