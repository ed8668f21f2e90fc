package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spidercore/engine/internal/infrastructure/events"
	logginginfra "github.com/spidercore/engine/internal/infrastructure/logging"
	"github.com/spidercore/engine/internal/ports"
	"github.com/spidercore/engine/internal/registry"
)

func main() {
	appLogger, err := logginginfra.New(logginginfra.Options{
		Level:     "info",
		Component: "cli",
		Layer:     logginginfra.LayerCLI,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create application logger: %v\n", err)
		os.Exit(1)
	}

	correlationID := ports.GenerateCorrelationID()
	ctx := ports.WithCorrelationID(context.Background(), correlationID)

	app := &AppContext{
		Logger:   appLogger,
		Events:   events.NewLoggingPublisher(appLogger.With("component", "event_publisher")),
		Registry: registry.New(),
		DataDir:  "./data",
	}

	rootCmd := newRootCmd(app)
	appLogger.Info(ctx, "starting enginectl", "pid", os.Getpid())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
