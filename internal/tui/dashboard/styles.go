package dashboard

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("99")
	successColor = lipgloss.Color("42")
	warningColor = lipgloss.Color("226")
	errorColor   = lipgloss.Color("196")
	mutedColor   = lipgloss.Color("245")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			PaddingLeft(2).
			MarginBottom(1)

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(primaryColor).
				Bold(true)

	itemStyle = lipgloss.NewStyle().PaddingLeft(2)

	footerStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(mutedColor).
			PaddingTop(1).
			MarginTop(1)

	errorBannerStyle = lipgloss.NewStyle().
				Foreground(errorColor).
				Bold(true).
				Padding(0, 2).
				MarginBottom(1)

	confirmBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(warningColor).
			Padding(1, 3)
)

func statusStyle(status string) lipgloss.Style {
	switch status {
	case "running":
		return lipgloss.NewStyle().Foreground(successColor).Bold(true)
	case "suspend":
		return lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	case "terminating":
		return lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(mutedColor)
	}
}
