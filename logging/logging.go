// Package logging defines the structured-logging seam every other package
// here logs through, matching the Logger shape from chains.Logger in the
// teacher repo: leveled methods taking a message plus key/value pairs.
package logging

import (
	"io"
	"log/slog"
)

// Logger is a standard interface for structured, leveled logging. *slog.Logger
// already satisfies it, so callers that have one can pass it straight through.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NewJSON returns a *slog.Logger writing newline-delimited JSON to w, the
// same handler the teacher's cmd/client and cmd/console entrypoints use.
func NewJSON(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Nop is a Logger that discards everything, useful for tests.
type Nop struct{}

func (Nop) Debug(string, ...any) {}
func (Nop) Info(string, ...any)  {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Error(string, ...any) {}
