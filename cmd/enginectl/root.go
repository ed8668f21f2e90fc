package main

import (
	"os"

	"github.com/spf13/cobra"

	logginginfra "github.com/spidercore/engine/internal/infrastructure/logging"
	"github.com/spidercore/engine/internal/infrastructure/events"
)

type rootFlags struct {
	jsonLogs bool
}

func newRootCmd(app *AppContext) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "enginectl",
		Short:         "Operate Engine-controlled spiders: start, inspect, and snapshot them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app.JSONLogs = flags.jsonLogs
			if flags.jsonLogs {
				app.Logger = logginginfra.NewJSONLogger(os.Stdout, "info")
				app.Events = events.NewLoggingPublisher(app.Logger.With("component", "event_publisher"))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&flags.jsonLogs, "json-logs", false, "Emit zerolog-formatted JSON logs instead of human-readable output")

	cmd.AddCommand(newStartCmd(app))
	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newSuspendCmd(app))
	cmd.AddCommand(newResumeCmd(app))
	cmd.AddCommand(newDumpCmd(app))
	cmd.AddCommand(newDashboardCmd(app))

	return cmd
}
