// Package notify is the transient notification surface: the place where the
// storefront tells the shopper an action succeeded or failed. Every failure
// reported here is local to one interaction and recoverable by retrying.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Notifier receives user-facing notifications.
type Notifier interface {
	Success(message string)
	Warning(message string)
	Error(message string)
}

// Logger routes notifications to a zap logger. It is the default sink when
// no UI is wired in.
type Logger struct {
	log *zap.Logger
}

// NewLogger creates a zap-backed notifier.
func NewLogger(log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{log: log}
}

func (l *Logger) Success(message string) { l.log.Info(message, zap.String("kind", "success")) }
func (l *Logger) Warning(message string) { l.log.Warn(message, zap.String("kind", "warning")) }
func (l *Logger) Error(message string)   { l.log.Error(message, zap.String("kind", "error")) }

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	mu        sync.Mutex
	Successes []string
	Warnings  []string
	Errors    []string
}

func (r *Recorder) Success(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Successes = append(r.Successes, message)
}

func (r *Recorder) Warning(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Warnings = append(r.Warnings, message)
}

func (r *Recorder) Error(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, message)
}
