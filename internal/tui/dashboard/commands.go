package dashboard

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spidercore/engine/internal/engine"
)

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg { return tickMsg{} })
}

func refreshStatusesCmd(handles map[string]*engine.Handle) tea.Cmd {
	return func() tea.Msg {
		statuses := make(map[string]string, len(handles))
		for name, h := range handles {
			statuses[name] = string(h.Status())
		}
		return statusRefreshedMsg{statuses: statuses}
	}
}

func suspendCmd(h *engine.Handle, spider string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := h.Suspend(ctx, timeout)
		return actionDoneMsg{spider: spider, action: "suspend", err: err}
	}
}

func continueCmd(h *engine.Handle, spider string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := h.Continue(ctx, timeout)
		return actionDoneMsg{spider: spider, action: "continue", err: err}
	}
}

func dumpCmd(h *engine.Handle, spider, dumpDir string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		base := filepath.Join(dumpDir, fmt.Sprintf("%s_%d", spider, time.Now().Unix()))
		err := h.DumpToFileForce(ctx, base, timeout)
		return actionDoneMsg{spider: spider, action: "dump", err: err}
	}
}
