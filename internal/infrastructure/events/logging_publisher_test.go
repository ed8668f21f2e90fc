package events

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	cblog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	logginginfra "github.com/spidercore/engine/internal/infrastructure/logging"
	"github.com/spidercore/engine/internal/ports"
)

func TestLoggingPublisherIncludesCorrelationID(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger, err := logginginfra.New(logginginfra.Options{
		Writer:    buf,
		Level:     "info",
		Layer:     logginginfra.LayerEngine,
		Component: "publisher",
		Formatter: cblog.JSONFormatter,
	})
	require.NoError(t, err)

	publisher := NewLoggingPublisher(logger)

	ctx := ports.WithCorrelationID(context.Background(), "abc-123")
	err = publisher.Publish(ctx, sampleEvent{
		eventType: ports.EventEngineRunning,
		payload:   map[string]interface{}{"spider": "demo"},
	})
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "domain event", entry["msg"])
	require.Equal(t, ports.EventEngineRunning, entry["event_type"])
	require.Equal(t, "abc-123", entry["correlation_id"])
	require.Equal(t, "demo", entry["spider"])
}

func TestLoggingPublisherInvokesSubscribers(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger, err := logginginfra.New(logginginfra.Options{
		Writer:    buf,
		Level:     "info",
		Layer:     logginginfra.LayerEngine,
		Component: "publisher",
		Formatter: cblog.JSONFormatter,
	})
	require.NoError(t, err)

	publisher := NewLoggingPublisher(logger)

	var handled bool
	_, err = publisher.Subscribe(ports.EventEngineSuspended, func(ctx context.Context, event ports.DomainEvent) error {
		handled = true
		return nil
	})
	require.NoError(t, err)

	err = publisher.Publish(context.Background(), sampleEvent{
		eventType: ports.EventEngineSuspended,
		payload:   map[string]interface{}{"spider": "demo"},
	})
	require.NoError(t, err)
	require.True(t, handled, "subscriber should be invoked")
}

func TestLoggingPublisherTracksRecentEventsPerSpider(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger, err := logginginfra.New(logginginfra.Options{
		Writer:    buf,
		Level:     "info",
		Layer:     logginginfra.LayerEngine,
		Component: "publisher",
	})
	require.NoError(t, err)

	publisher := NewLoggingPublisher(logger)

	require.NoError(t, publisher.Publish(context.Background(), sampleEvent{
		eventType: ports.EventEngineRunning,
		payload:   map[string]interface{}{"spider": "demo"},
	}))
	require.NoError(t, publisher.Publish(context.Background(), sampleEvent{
		eventType: ports.EventEngineSuspended,
		payload:   map[string]interface{}{"spider": "demo"},
	}))
	require.NoError(t, publisher.Publish(context.Background(), sampleEvent{
		eventType: ports.EventEngineRunning,
		payload:   map[string]interface{}{"spider": "other"},
	}))

	require.Equal(t, []string{ports.EventEngineRunning, ports.EventEngineSuspended}, publisher.RecentEvents("demo"))
	require.Equal(t, []string{ports.EventEngineRunning}, publisher.RecentEvents("other"))
	require.Empty(t, publisher.RecentEvents("unknown"))
}

type sampleEvent struct {
	eventType string
	payload   interface{}
}

func (e sampleEvent) EventType() string    { return e.eventType }
func (e sampleEvent) Payload() interface{} { return e.payload }
