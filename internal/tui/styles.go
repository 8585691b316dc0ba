package tui

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	errorFg   = lipgloss.Color("#F87171")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	errorStyle = lipgloss.NewStyle().Foreground(errorFg)
)

// styles depend on the configured theme.
type styles struct {
	title     lipgloss.Style
	box       lipgloss.Style
	activeTab lipgloss.Style
	tab       lipgloss.Style
	axis      string
}

func newStyles(s Settings) styles {
	accent := lipgloss.Color(s.Accent)
	border := lipgloss.Color(s.Border)
	return styles{
		title:     lipgloss.NewStyle().Foreground(accent).Bold(true),
		box:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1),
		activeTab: lipgloss.NewStyle().Foreground(accent).Bold(true).Underline(true),
		tab:       dimStyle,
		axis:      s.Border,
	}
}
