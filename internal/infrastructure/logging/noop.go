package logging

import (
	"context"

	"github.com/spidercore/engine/internal/ports"
)

// NoOpLogger discards all log entries. It backs AppContext.LoggerFor when
// no Logger was configured (tests and ad-hoc tooling that build an
// AppContext by hand) and the zero-value fallback on Logger.With, so
// command code never has to nil-check the logger it gets back.
type NoOpLogger struct{}

// Debug implements ports.Logger.
func (n *NoOpLogger) Debug(context.Context, string, ...interface{}) {}

// Info implements ports.Logger.
func (n *NoOpLogger) Info(context.Context, string, ...interface{}) {}

// Warn implements ports.Logger.
func (n *NoOpLogger) Warn(context.Context, string, ...interface{}) {}

// Error implements ports.Logger.
func (n *NoOpLogger) Error(context.Context, string, ...interface{}) {}

// With implements ports.Logger.
func (n *NoOpLogger) With(...interface{}) ports.Logger { return n }

// NewNoOpLogger returns a ports.Logger that discards all log entries.
func NewNoOpLogger() ports.Logger {
	return &NoOpLogger{}
}
