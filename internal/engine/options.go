package engine

import (
	"time"

	"github.com/spidercore/engine/internal/callback"
	"github.com/spidercore/engine/internal/plugin"
	"github.com/spidercore/engine/internal/ports"
	"github.com/spidercore/engine/internal/registry"
	"github.com/spidercore/engine/internal/stage"
)

// StartOptions configures a new Engine instance. Spider is the only
// required field.
type StartOptions struct {
	// Spider uniquely names this engine instance. Two engines with the
	// same Spider must not coexist.
	Spider string

	// DownloaderOptions, SpiderOptions, ItemProcessorOptions are the
	// per-stage user option overrides, default empty.
	DownloaderOptions    callback.Bundle
	SpiderOptions        callback.Bundle
	ItemProcessorOptions callback.Bundle

	// LoadFromFile, if set, is the base path setup loads the seven
	// tables from instead of creating them fresh.
	LoadFromFile string

	// DownloaderRunner, SpiderRunner, ItemProcessorRunner are the three
	// external stage collaborators started during setup, in this order.
	DownloaderRunner    stage.Runner
	SpiderRunner        stage.Runner
	ItemProcessorRunner stage.Runner

	// DownloaderMiddleware, SpiderMiddleware, ItemProcessorMiddleware
	// name the middleware configured for each stage, passed to the
	// PipelineHooks collaborator's PrepareForStop during teardown.
	DownloaderMiddleware    []string
	SpiderMiddleware        []string
	ItemProcessorMiddleware []string

	// RequesterPlugins and StoragePlugins resolve the "requester" and
	// "storage" bundle options, per §4.5/§4.6.
	RequesterPlugins *plugin.Registry
	StoragePlugins   *plugin.Registry

	// SpiderCallbacks is a user-defined value probed for the optional
	// SpiderCallbacks (PrepareForStart, PrepareForStartComponent,
	// PrepareForStop, PrepareForStopComponent).
	SpiderCallbacks any

	// PipelineHooks is a user-defined value probed for the optional
	// per-stage middleware PrepareForStop hook.
	PipelineHooks any

	// Registry is the process-wide (spider, key) -> table.Handle
	// directory the Engine publishes its tables into during setup.
	Registry *registry.Registry

	// Logger receives structured diagnostics for this engine's
	// lifecycle. A nil Logger disables logging.
	Logger ports.Logger

	// Publisher receives lifecycle domain events. A nil Publisher
	// disables event publication.
	Publisher ports.EventPublisher

	// ShutdownBudget bounds the asynchronous teardown task. Defaults to
	// 60 seconds, matching the Engine's contract with its supervisor.
	ShutdownBudget time.Duration

	// ControlAckTimeout bounds how long a single stage may take to
	// acknowledge a suspend/continue signal inside a broadcast, beyond
	// the caller-supplied overall timeout. Zero means no per-stage
	// bound beyond the caller's timeout.
	ControlAckTimeout time.Duration
}

func (o StartOptions) shutdownBudget() time.Duration {
	if o.ShutdownBudget <= 0 {
		return 60 * time.Second
	}
	return o.ShutdownBudget
}

func bundleOrEmpty(b callback.Bundle) callback.Bundle {
	if b == nil {
		return callback.Bundle{}
	}
	return b
}
