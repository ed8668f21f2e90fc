package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(app *AppContext) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Start a spider's Engine, print its status once, then terminate",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _ := app.CommandContext(cmd, "command.status")

			h, cfg, err := startEngineFromConfig(ctx, app, configPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", cfg.Spider, h.Status())

			h.Terminate(nil)
			<-h.Done()
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to spider configuration file")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}
