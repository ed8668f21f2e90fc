package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spidercore/engine/internal/engine"
	"github.com/spidercore/engine/internal/infrastructure/events"
	"github.com/spidercore/engine/internal/infrastructure/logging"
	"github.com/spidercore/engine/internal/ports"
)

func TestNewModelSortsSpiderNames(t *testing.T) {
	m := NewModel(map[string]*engine.Handle{
		"zeta":  nil,
		"alpha": nil,
	}, nil, t.TempDir(), time.Second)

	assert.Equal(t, []string{"alpha", "zeta"}, m.spiders)
}

func TestMoveCursorWraps(t *testing.T) {
	m := NewModel(map[string]*engine.Handle{"a": nil, "b": nil}, nil, t.TempDir(), time.Second)
	m.moveCursor(-1)
	assert.Equal(t, 1, m.cursor)
	m.moveCursor(1)
	assert.Equal(t, 0, m.cursor)
}

func TestSelectedReturnsFalseWhenEmpty(t *testing.T) {
	m := NewModel(map[string]*engine.Handle{}, nil, t.TempDir(), time.Second)
	_, ok := m.selected()
	assert.False(t, ok)
}

func TestRecentEventsReflectsPublisherHistory(t *testing.T) {
	publisher := events.NewLoggingPublisher(logging.NewNoOpLogger())
	require.NoError(t, publisher.Publish(context.Background(), fakeEvent{
		eventType: ports.EventEngineRunning,
		spider:    "alpha",
	}))

	m := NewModel(map[string]*engine.Handle{"alpha": nil}, publisher, t.TempDir(), time.Second)
	assert.Equal(t, []string{ports.EventEngineRunning}, m.recentEvents("alpha"))
	assert.Empty(t, m.recentEvents("unknown"))
}

func TestRecentEventsNilWithoutPublisher(t *testing.T) {
	m := NewModel(map[string]*engine.Handle{"alpha": nil}, nil, t.TempDir(), time.Second)
	assert.Nil(t, m.recentEvents("alpha"))
}

type fakeEvent struct {
	eventType string
	spider    string
}

func (e fakeEvent) EventType() string { return e.eventType }
func (e fakeEvent) Payload() interface{} {
	return map[string]interface{}{"spider": e.spider}
}
