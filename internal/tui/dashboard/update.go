package dashboard

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles incoming messages and advances the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		return m, tea.Batch(refreshStatusesCmd(m.handles), tickCmd(m.refreshInterval))

	case statusRefreshedMsg:
		m.statues = msg.statuses
		return m, nil

	case confirmRequestMsg:
		m.viewMode = ViewConfirm
		m.confirmSpider = msg.spider
		m.confirmAction = msg.action
		m.confirmMessage = msg.message
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.showError = true
			m.errorMsg = fmt.Sprintf("%s %s: %v", msg.action, msg.spider, msg.err)
			return m, nil
		}
		m.showError = false
		return m, refreshStatusesCmd(m.handles)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.viewMode == ViewConfirm {
		switch msg.String() {
		case "y", "Y":
			m.viewMode = ViewList
			h, ok := m.handles[m.confirmSpider]
			if !ok {
				return m, nil
			}
			switch m.confirmAction {
			case "dump":
				return m, dumpCmd(h, m.confirmSpider, m.dumpDir, m.actionTimeout)
			}
			return m, nil
		default:
			m.viewMode = ViewList
			return m, nil
		}
	}

	if m.viewMode == ViewHelp {
		m.viewMode = ViewList
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		m.viewMode = ViewHelp
		return m, nil
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	case "s":
		spider, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, suspendCmd(m.handles[spider], spider, m.actionTimeout)
	case "c":
		spider, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, continueCmd(m.handles[spider], spider, m.actionTimeout)
	case "d":
		spider, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return confirmRequestMsg{
				spider:  spider,
				action:  "dump",
				message: fmt.Sprintf("Dump %s's tables to %s?", spider, m.dumpDir),
			}
		}
	case "esc":
		m.showError = false
		return m, nil
	}
	return m, nil
}
