// Package console implements the logger port for terminal output.
package console

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/example/retrobot/internal/ports/secondary"
)

var (
	infoLabel  = color.New(color.FgCyan)
	warnLabel  = color.New(color.FgYellow)
	errorLabel = color.New(color.FgRed, color.Bold)
)

// Logger writes levelled lines to out. When a log file is attached every line
// is also appended there, timestamped and without colour, so cron runs can be
// inspected afterwards.
type Logger struct {
	mu   sync.Mutex
	out  io.Writer
	file *os.File
	now  func() time.Time
}

// NewLogger creates a Logger writing to out.
func NewLogger(out io.Writer) *Logger {
	return &Logger{out: out, now: time.Now}
}

// OpenFile attaches the log file at path, creating its directory if needed.
func (l *Logger) OpenFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("logging: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("logging: open log file: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.file = f
	return nil
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Infof logs an informational line.
func (l *Logger) Infof(format string, args ...any) {
	l.write(infoLabel, "info", format, args...)
}

// Warnf logs a non-fatal problem.
func (l *Logger) Warnf(format string, args ...any) {
	l.write(warnLabel, "warn", format, args...)
}

// Errorf logs a failure.
func (l *Logger) Errorf(format string, args ...any) {
	l.write(errorLabel, "error", format, args...)
}

func (l *Logger) write(label *color.Color, level, format string, args ...any) {
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s %s\n", label.Sprintf("[%s]", level), line)
	if l.file != nil {
		fmt.Fprintf(l.file, "[%s] [%s] %s\n", l.now().Format(time.RFC3339), level, line)
	}
}

// Ensure Logger implements the interface
var _ secondary.Logger = (*Logger)(nil)
