package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spidercore/engine/internal/ports"
)

func TestJSONLoggerWritesStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, "info")

	ctx := ports.WithCorrelationID(context.Background(), "cid-1")
	logger.With("component", "test").Info(ctx, "hello", "spider", "s1")

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	assert.Equal(t, "hello", payload["message"])
	assert.Equal(t, "test", payload["component"])
	assert.Equal(t, "s1", payload["spider"])
	assert.Equal(t, "cid-1", payload["correlation_id"])
}

func TestJSONLoggerDebugSuppressedByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, "warn")
	logger.Debug(context.Background(), "should not appear")
	assert.Empty(t, buf.String())
}
