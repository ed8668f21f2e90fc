package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/spidercore/engine/internal/engine"
	"github.com/spidercore/engine/internal/tui/dashboard"
)

func newDashboardCmd(app *AppContext) *cobra.Command {
	var configPaths []string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Launch the interactive dashboard over one or more spiders",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, logger := app.CommandContext(cmd, "command.dashboard")

			handles := make(map[string]*engine.Handle, len(configPaths))
			defer func() {
				for _, h := range handles {
					h.Terminate(nil)
				}
				for _, h := range handles {
					<-h.Done()
				}
			}()

			for _, path := range configPaths {
				h, cfg, err := startEngineFromConfig(ctx, app, path)
				if err != nil {
					return fmt.Errorf("starting %s: %w", path, err)
				}
				handles[cfg.Spider] = h
			}

			logger.Info(ctx, "dashboard starting", "spider_count", len(handles))

			m := dashboard.NewModel(handles, app.Events, app.DataDir, time.Second)
			p := tea.NewProgram(m, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("dashboard: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&configPaths, "config", "c", nil, "Path to a spider configuration file (repeatable)")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}
