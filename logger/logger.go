// Package logger defines the leveled, key/value Logger used by the recur
// packages and the recur command, a process-wide default, and adapters for
// the standard log and log/slog packages and for zap.
package logger

// Logger handles log records at five levels. The args are alternating keys
// and values, as in log/slog.
type Logger interface {
	// Trace logs the steps of rule evaluation.
	Trace(msg string, args ...any)
	// Debug logs operator failures and session summaries.
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NoOpLogger discards all records. It backs the "off" level.
type NoOpLogger struct{}

var _ Logger = NoOpLogger{}

func (NoOpLogger) Trace(string, ...any) {}
func (NoOpLogger) Debug(string, ...any) {}
func (NoOpLogger) Info(string, ...any)  {}
func (NoOpLogger) Warn(string, ...any)  {}
func (NoOpLogger) Error(string, ...any) {}
