// Package dashboard renders a terminal dashboard over a set of running
// Engine instances: one row per spider, its current status, the most recent
// lifecycle event it published, and the suspend/continue/dump actions a
// human operator can trigger on it.
package dashboard

import (
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spidercore/engine/internal/engine"
	"github.com/spidercore/engine/internal/infrastructure/events"
)

// Model is the dashboard's Bubble Tea model.
type Model struct {
	spiders []string
	handles map[string]*engine.Handle
	events  *events.LoggingPublisher
	statues map[string]string

	cursor   int
	viewMode ViewMode
	spinner  spinner.Model

	confirmSpider  string
	confirmAction  string
	confirmMessage string

	showError bool
	errorMsg  string

	width  int
	height int

	dumpDir         string
	refreshInterval time.Duration
	actionTimeout   time.Duration
}

// NewModel builds a dashboard over the given spider-name -> engine handle
// map. dumpDir is where "d" dumps are written; refreshInterval controls
// how often the status column is repolled. publisher may be nil, in which
// case the dashboard simply omits the recent-events column.
func NewModel(handles map[string]*engine.Handle, publisher *events.LoggingPublisher, dumpDir string, refreshInterval time.Duration) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	names := make([]string, 0, len(handles))
	for name := range handles {
		names = append(names, name)
	}
	sort.Strings(names)

	if refreshInterval <= 0 {
		refreshInterval = time.Second
	}

	return Model{
		spiders:         names,
		handles:         handles,
		events:          publisher,
		statues:         make(map[string]string, len(names)),
		spinner:         s,
		dumpDir:         dumpDir,
		refreshInterval: refreshInterval,
		actionTimeout:   10 * time.Second,
		width:           80,
		height:          24,
	}
}

// Init starts the spinner and the status polling loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, refreshStatusesCmd(m.handles), tickCmd(m.refreshInterval))
}

func (m *Model) selected() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.spiders) {
		return "", false
	}
	return m.spiders[m.cursor], true
}

func (m *Model) moveCursor(delta int) {
	if len(m.spiders) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.spiders)) % len(m.spiders)
}

// recentEvents returns spider's recent lifecycle events, most recent last,
// or nil when no publisher was wired in.
func (m *Model) recentEvents(spider string) []string {
	if m.events == nil {
		return nil
	}
	return m.events.RecentEvents(spider)
}
