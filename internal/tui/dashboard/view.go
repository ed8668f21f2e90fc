package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current screen.
func (m Model) View() string {
	switch m.viewMode {
	case ViewConfirm:
		return m.renderConfirm()
	case ViewHelp:
		return m.renderHelp()
	default:
		return m.renderList()
	}
}

func (m Model) renderList() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Engine Dashboard"))
	b.WriteString("\n")

	if m.showError {
		b.WriteString(errorBannerStyle.Render(m.errorMsg))
		b.WriteString("\n")
	}

	if len(m.spiders) == 0 {
		b.WriteString(itemStyle.Render("no spiders running"))
	}

	for i, name := range m.spiders {
		status := m.statues[name]
		if status == "" {
			status = "unknown"
		}
		line := fmt.Sprintf("%-20s %s", name, statusStyle(status).Render(status))
		if recent := m.recentEvents(name); len(recent) > 0 {
			line += "  " + itemStyle.Render("last: "+recent[len(recent)-1])
		}
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("> " + line))
		} else {
			b.WriteString(itemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString(footerStyle.Render(m.spinner.View() + " s suspend  c continue  d dump  ? help  q quit"))
	return b.String()
}

func (m Model) renderConfirm() string {
	box := confirmBoxStyle.Render(m.confirmMessage + "\n\n[y] confirm   [any key] cancel")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderHelp() string {
	help := strings.Join([]string{
		"up/k, down/j   move selection",
		"s              suspend selected spider",
		"c              continue selected spider",
		"d              dump selected spider (confirm)",
		"esc            dismiss error banner",
		"q, ctrl+c      quit",
		"",
		"press any key to return",
	}, "\n")
	return confirmBoxStyle.Render(help)
}
