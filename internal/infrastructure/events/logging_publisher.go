package events

import (
	"context"
	"sort"
	"sync"

	"github.com/spidercore/engine/internal/ports"
)

// historyLimit bounds how many recent event types LoggingPublisher retains
// per spider, for callers like the dashboard that want a quick "what
// happened last" readout without re-deriving it from log lines.
const historyLimit = 5

// LoggingPublisher emits domain events using the structured logger and
// additionally keeps a short per-spider event history, so the dashboard's
// subscription model has something to subscribe to beyond raw log output.
type LoggingPublisher struct {
	logger  ports.Logger
	subs    map[string][]subscriptionEntry
	history map[string][]string
	nextID  int
	mu      sync.RWMutex
}

// NewLoggingPublisher creates an event publisher that writes each event as a structured log entry.
func NewLoggingPublisher(logger ports.Logger) *LoggingPublisher {
	return &LoggingPublisher{
		logger:  logger,
		subs:    make(map[string][]subscriptionEntry),
		history: make(map[string][]string),
	}
}

// Publish renders the event as a structured log entry, records it in the
// originating spider's recent-event history (when the payload names one),
// and fans it out to any subscribers registered for its event type.
func (p *LoggingPublisher) Publish(ctx context.Context, event ports.DomainEvent) error {
	if p == nil || p.logger == nil || event == nil {
		return nil
	}

	p.mu.RLock()
	handlers := append([]subscriptionEntry(nil), p.subs[event.EventType()]...)
	p.mu.RUnlock()

	fields := []interface{}{"event_type", event.EventType()}
	var spider string
	switch payload := event.Payload().(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(payload))
		for key := range payload {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fields = append(fields, key, payload[key])
		}
		spider, _ = payload["spider"].(string)
	case nil:
	default:
		fields = append(fields, "payload", payload)
	}

	p.logger.Info(ctx, "domain event", fields...)

	if spider != "" {
		p.recordHistory(spider, event.EventType())
	}

	for _, entry := range handlers {
		handler := entry.handler
		if handler == nil {
			continue
		}
		if err := handler(ctx, event); err != nil {
			p.logger.Warn(ctx, "event handler failed", "event_type", event.EventType(), "error", err)
		}
	}

	return nil
}

func (p *LoggingPublisher) recordHistory(spider, eventType string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entries := append(p.history[spider], eventType)
	if len(entries) > historyLimit {
		entries = entries[len(entries)-historyLimit:]
	}
	p.history[spider] = entries
}

// RecentEvents returns the spider's last few event types, oldest first.
// The dashboard uses this to show "what happened last" next to a spider's
// status without needing its own copy of the event log.
func (p *LoggingPublisher) RecentEvents(spider string) []string {
	if p == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	entries := p.history[spider]
	out := make([]string, len(entries))
	copy(out, entries)
	return out
}

// Subscribe registers a handler for the provided event type.
func (p *LoggingPublisher) Subscribe(eventType string, handler ports.EventHandler) (ports.Subscription, error) {
	if p == nil || handler == nil {
		return noopSubscription{}, nil
	}
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.subs[eventType] = append(p.subs[eventType], subscriptionEntry{id: id, handler: handler})
	p.mu.Unlock()

	return subscription{
		cancel: func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			handlers := p.subs[eventType]
			for i, entry := range handlers {
				if entry.id == id {
					p.subs[eventType] = append(handlers[:i], handlers[i+1:]...)
					break
				}
			}
		},
	}, nil
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}

type subscription struct {
	cancel func()
}

func (s subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}

type subscriptionEntry struct {
	id      int
	handler ports.EventHandler
}
