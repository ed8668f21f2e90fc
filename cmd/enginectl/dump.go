package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newDumpCmd(app *AppContext) *cobra.Command {
	var configPath string
	var fileBase string
	var timeout time.Duration
	var force bool

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Suspend a spider's Engine and dump its tables to disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, logger := app.CommandContext(cmd, "command.dump")

			h, cfg, err := startEngineFromConfig(ctx, app, configPath)
			if err != nil {
				return err
			}
			defer func() {
				h.Terminate(nil)
				<-h.Done()
			}()

			if err := h.Suspend(ctx, timeout); err != nil {
				return fmt.Errorf("dump %q: suspend failed: %w", cfg.Spider, err)
			}

			base := fileBase
			if base == "" {
				base = app.DataDir + "/" + cfg.Spider
			}

			if force || !isTerminal(os.Stdout) {
				if err := h.DumpToFileForce(ctx, base, timeout); err != nil {
					return fmt.Errorf("dump %q: %w", cfg.Spider, err)
				}
			} else {
				confirmed, err := confirmDump(cmd, cfg.Spider, base)
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
					return nil
				}
				if err := h.DumpToFile(ctx, base, timeout); err != nil {
					return fmt.Errorf("dump %q: %w", cfg.Spider, err)
				}
			}

			logger.Info(ctx, "dump complete", "spider", cfg.Spider, "base", base)
			fmt.Fprintf(cmd.OutOrStdout(), "dumped %q to %s_<role>.ets\n", cfg.Spider, base)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to spider configuration file")
	cmd.Flags().StringVar(&fileBase, "out", "", "Dump file base path (default: <data-dir>/<spider>)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "How long to wait for suspend and dump to complete")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the interactive confirmation")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}

func confirmDump(cmd *cobra.Command, spider, base string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "Dump spider %q to %s_<role>.ets? [y/N]: ", spider, base)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		return false, scanner.Err()
	}
	answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
	return answer == "y" || answer == "yes", nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
