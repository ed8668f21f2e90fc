package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/spidercore/engine/internal/infrastructure/events"
	"github.com/spidercore/engine/internal/infrastructure/logging"
	"github.com/spidercore/engine/internal/ports"
	"github.com/spidercore/engine/internal/registry"
)

// AppContext bundles the long-lived services shared across subcommands.
type AppContext struct {
	Logger    ports.Logger
	Events    *events.LoggingPublisher
	Registry  *registry.Registry
	JSONLogs  bool
	DataDir   string
}

// CommandContext returns the command's context (falling back to
// Background) together with a component-scoped logger.
func (a *AppContext) CommandContext(cmd *cobra.Command, component string) (context.Context, ports.Logger) {
	ctx := context.Background()
	if cmd != nil && cmd.Context() != nil {
		ctx = cmd.Context()
	}
	return ctx, a.LoggerFor(component)
}

// LoggerFor derives a child logger scoped to component. Callers never need
// a nil check: an AppContext built without a Logger yields a no-op one.
func (a *AppContext) LoggerFor(component string) ports.Logger {
	if a == nil || a.Logger == nil {
		return logging.NewNoOpLogger()
	}
	return a.Logger.With("component", component)
}
