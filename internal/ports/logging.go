package ports

import (
	"context"

	"github.com/google/uuid"
)

// Logger defines the module's structured logging contract. All log calls
// are key/value pairs, must be safe for concurrent use, and should
// automatically enrich entries with a correlation ID when present in
// context. Common fields include:
//   - correlation_id (UUIDv4, generated at CLI entry point)
//   - layer (engine|stage|registry|cli)
//   - component (setup, teardown, control, dump, etc.)
//   - spider / stage / role
//   - duration_ms for timed operations
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...interface{})
	Info(ctx context.Context, msg string, fields ...interface{})
	Warn(ctx context.Context, msg string, fields ...interface{})
	Error(ctx context.Context, msg string, fields ...interface{})
	With(fields ...interface{}) Logger
}

type correlationIDKey struct{}

// WithCorrelationID attaches the provided correlation ID to the context so
// downstream layers can emit correlated logs, metrics, and traces.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// GetCorrelationID extracts a correlation ID from context. It returns an
// empty string when none has been set; callers should treat that as
// "uncorrelated".
func GetCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GenerateCorrelationID produces a new UUIDv4 string suitable for log
// correlation. CLI entry-points should invoke this once per command execution.
func GenerateCorrelationID() string {
	return uuid.NewString()
}
