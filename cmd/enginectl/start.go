package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStartCmd(app *AppContext) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a spider's Engine and run until terminated",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, logger := app.CommandContext(cmd, "command.start")

			h, cfg, err := startEngineFromConfig(ctx, app, configPath)
			if err != nil {
				return err
			}
			logger.Info(ctx, "engine running", "spider", cfg.Spider)
			fmt.Fprintf(cmd.OutOrStdout(), "spider %q running (status=%s)\n", cfg.Spider, h.Status())
			fmt.Fprintln(cmd.OutOrStdout(), "press ctrl+c to terminate")

			waitForInterrupt(cmd)
			h.Terminate(nil)
			<-h.Done()
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to spider configuration file")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}
