package logging

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/spidercore/engine/internal/ports"
)

// JSONLogger implements ports.Logger with zerolog, for call sites that want
// machine-parseable single-line JSON instead of the charmbracelet/log
// human-oriented renderer. cmd/enginectl's --json-logs flag is the only
// caller.
type JSONLogger struct {
	logger zerolog.Logger
	fields []interface{}
}

// NewJSONLogger returns a JSONLogger writing to w at the given level
// ("debug", "info", "warn", "error"; default "info").
func NewJSONLogger(w io.Writer, level string) *JSONLogger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return &JSONLogger{logger: zerolog.New(w).Level(lvl).With().Timestamp().Logger()}
}

func (l *JSONLogger) event(level zerolog.Level, ctx context.Context, msg string, fields []interface{}) {
	ev := l.logger.WithLevel(level)
	if cid := ports.GetCorrelationID(ctx); cid != "" {
		ev = ev.Str("correlation_id", cid)
	}
	all := append(append([]interface{}{}, l.fields...), fields...)
	for i := 0; i+1 < len(all); i += 2 {
		key, ok := all[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, all[i+1])
	}
	ev.Msg(msg)
}

func (l *JSONLogger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	l.event(zerolog.DebugLevel, ctx, msg, fields)
}

func (l *JSONLogger) Info(ctx context.Context, msg string, fields ...interface{}) {
	l.event(zerolog.InfoLevel, ctx, msg, fields)
}

func (l *JSONLogger) Warn(ctx context.Context, msg string, fields ...interface{}) {
	l.event(zerolog.WarnLevel, ctx, msg, fields)
}

func (l *JSONLogger) Error(ctx context.Context, msg string, fields ...interface{}) {
	l.event(zerolog.ErrorLevel, ctx, msg, fields)
}

func (l *JSONLogger) With(fields ...interface{}) ports.Logger {
	return &JSONLogger{logger: l.logger, fields: append(append([]interface{}{}, l.fields...), fields...)}
}

var _ ports.Logger = (*JSONLogger)(nil)
