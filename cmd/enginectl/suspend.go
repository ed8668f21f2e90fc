package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSuspendCmd(app *AppContext) *cobra.Command {
	var configPath string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "suspend",
		Short: "Start a spider's Engine, suspend it, and leave it suspended until ctrl+c",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, logger := app.CommandContext(cmd, "command.suspend")

			h, cfg, err := startEngineFromConfig(ctx, app, configPath)
			if err != nil {
				return err
			}

			if err := h.Suspend(ctx, timeout); err != nil {
				h.Terminate(err)
				<-h.Done()
				return fmt.Errorf("suspend %q: %w", cfg.Spider, err)
			}
			logger.Info(ctx, "spider suspended", "spider", cfg.Spider)
			fmt.Fprintf(cmd.OutOrStdout(), "%s suspended (status=%s)\n", cfg.Spider, h.Status())
			fmt.Fprintln(cmd.OutOrStdout(), "press ctrl+c to terminate")

			waitForInterrupt(cmd)
			h.Terminate(nil)
			<-h.Done()
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to spider configuration file")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "How long to wait for stage acknowledgement")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}
