// Package logger provides the structured logger shared by the fatura CLI.
// Output goes to stderr. Debug records are only emitted in verbose mode,
// which the --verbose flag enables.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Formats understood by SetFormat.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	mu      sync.RWMutex
	verbose bool
	format            = FormatText
	output  io.Writer = os.Stderr
	level             = new(slog.LevelVar)
	logger  *slog.Logger
)

func init() {
	level.Set(slog.LevelInfo)
	rebuild()
}

// rebuild must be called with mu held for writing, or from init. The
// result also becomes slog's default logger.
func rebuild() {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	rebuild()
}

// SetFormat selects the text or json handler. Unknown values fall back to
// text.
func SetFormat(f string) {
	mu.Lock()
	defer mu.Unlock()
	if f != FormatJSON {
		f = FormatText
	}
	format = f
	rebuild()
}

// L returns the shared logger.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs at debug level. It is dropped unless verbose mode is on.
func Debug(msg string, args ...any) {
	L().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	L().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	L().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	L().Error(msg, args...)
}

// Enabled reports whether the shared logger would emit a record at lvl.
func Enabled(lvl slog.Level) bool {
	return L().Enabled(context.Background(), lvl)
}
