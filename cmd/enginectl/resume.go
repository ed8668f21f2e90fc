package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spidercore/engine/internal/engine"
)

func newResumeCmd(app *AppContext) *cobra.Command {
	var configPath string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Start a spider's Engine, ensure it is suspended, resume it, and run until terminated",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, logger := app.CommandContext(cmd, "command.resume")

			h, cfg, err := startEngineFromConfig(ctx, app, configPath)
			if err != nil {
				return err
			}

			if h.Status() != engine.StatusSuspend {
				if err := h.Suspend(ctx, timeout); err != nil {
					h.Terminate(err)
					<-h.Done()
					return fmt.Errorf("resume %q: precondition suspend failed: %w", cfg.Spider, err)
				}
			}

			if err := h.Continue(ctx, timeout); err != nil {
				h.Terminate(err)
				<-h.Done()
				return fmt.Errorf("resume %q: %w", cfg.Spider, err)
			}
			logger.Info(ctx, "spider resumed", "spider", cfg.Spider)
			fmt.Fprintf(cmd.OutOrStdout(), "%s resumed (status=%s)\n", cfg.Spider, h.Status())
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
