package ports

import "context"

const (
	// EventEngineSetupStarted is emitted when an engine's deferred setup
	// continuation begins running.
	EventEngineSetupStarted = "engine.setup.started"
	// EventEngineRunning is emitted once setup completes and status
	// transitions to running.
	EventEngineRunning = "engine.running"
	// EventEngineSetupFailed is emitted when setup aborts with a fatal error.
	EventEngineSetupFailed = "engine.setup.failed"
	// EventEngineSuspended is emitted once all three stages have
	// acknowledged a suspend broadcast.
	EventEngineSuspended = "engine.suspended"
	// EventEngineResumed is emitted once all three stages have
	// acknowledged a continue broadcast.
	EventEngineResumed = "engine.resumed"
	// EventEngineDumped is emitted after a successful dump2file.
	EventEngineDumped = "engine.dumped"
	// EventEngineTerminating is emitted when teardown begins.
	EventEngineTerminating = "engine.terminating"
	// EventEngineStageCrashed is emitted when a stage violates the control
	// contract, immediately before the engine crashes.
	EventEngineStageCrashed = "engine.stage_crashed"
)

// DomainEvent represents a significant occurrence within the domain or
// application layer. Events carry structured payloads that downstream
// subscribers can use for logging, UI updates, or integrations.
type DomainEvent interface {
	EventType() string
	Payload() interface{}
}

// EventPublisher distributes events to interested subscribers. Dispatch is
// synchronous: Publish blocks until all handlers run. Handlers may spawn
// goroutines for async processing if work should continue in the
// background. Implementations must be thread-safe.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
}

// EventHandler processes an event of a specific type. Handlers should avoid
// panicking; failures should be surfaced via returned errors so publishers can
// log diagnostics and continue delivering to remaining subscribers.
type EventHandler func(context.Context, DomainEvent) error

// Subscription represents a registered handler. Callers must invoke
// Unsubscribe to stop receiving events and release resources.
type Subscription interface {
	Unsubscribe()
}
