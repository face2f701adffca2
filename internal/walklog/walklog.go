// Package walklog provides the structured logging used by the walker to
// report per-file errors that are swallowed rather than propagated (spec.md
// §7: "per-file errors are contained within a single task and never
// propagate into other tasks or into the sink's correctness").
package walklog

import (
	"fmt"

	"go.uber.org/zap"
)

// WalkError is a per-path failure encountered while walking: a directory
// open, stat, file open, or read failure. It is always logged and never
// returned up the call stack (spec.md §7).
type WalkError struct {
	Path string
	Err  error
}

func (e *WalkError) Error() string {
	return fmt.Sprintf("walk %s: %s", e.Path, e.Err)
}

func (e *WalkError) Unwrap() error {
	return e.Err
}

// Logger wraps a zap.Logger with the handful of walk-time events the walker
// needs to report.
type Logger struct {
	z *zap.Logger
}

// New builds a Logger backed by a production zap config, quiet (info level
// and above) unless verbose is set (debug level and above).
func New(verbose bool) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{z: z}, nil
}

// Nop returns a Logger that discards everything, used by tests and by
// single-threaded callers that don't want zap's startup cost.
func Nop() *Logger {
	return &Logger{z: zap.NewNop()}
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.z.Sync()
}

// WalkError logs a swallowed per-path walk error: directory open failure,
// stat failure, file open failure, or read failure (spec.md §7). It builds
// a *WalkError so the logged record and the error type callers would see if
// it were ever propagated agree on shape, even though it never is.
func (l *Logger) WalkError(path string, err error) {
	we := &WalkError{Path: path, Err: err}
	l.z.Warn("walk error", zap.String("path", we.Path), zap.Error(we.Err))
}

// BinarySkip logs a file skipped because its first read window contained a
// NUL byte (spec.md §7, "Binary-file-likely").
func (l *Logger) BinarySkip(path string) {
	l.z.Debug("binary file skipped", zap.String("path", path))
}

// NonRegularSkip logs a directory entry that was neither a regular file nor
// a directory (a socket, device, symlink loop, etc.) and was skipped.
func (l *Logger) NonRegularSkip(path string) {
	l.z.Debug("non-regular file skipped", zap.String("path", path))
}
