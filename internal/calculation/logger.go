package calculation

import (
	"fmt"
	"sync"
)

// Logger is a minimal logging interface for the withholding calculator.
// Implementations should be fast; the default is a no-op.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger implements Logger with no output.
type NopLogger struct{}

func (NopLogger) Debugf(format string, args ...any) {}
func (NopLogger) Infof(format string, args ...any)  {}
func (NopLogger) Warnf(format string, args ...any)  {}
func (NopLogger) Errorf(format string, args ...any) {}

// RecordingLogger keeps warnings and errors in memory. Useful in tests and dry runs.
type RecordingLogger struct {
	mu       sync.Mutex
	Warnings []string
	Errors   []string
}

func (*RecordingLogger) Debugf(format string, args ...any) {}
func (*RecordingLogger) Infof(format string, args ...any)  {}

func (r *RecordingLogger) Warnf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *RecordingLogger) Errorf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}
