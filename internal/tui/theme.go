package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the mapping editor.
type Theme struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Normal    lipgloss.Style
	Muted     lipgloss.Style
	Selected  lipgloss.Style
	Required  lipgloss.Style
	Missing   lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Box       lipgloss.Style
	TableHead lipgloss.Style
}

// DefaultTheme is the default theme.
var DefaultTheme = Theme{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#7c3aed")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),
	Required: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f59e0b")),
	Missing: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Italic(true),
	Success: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),
	TableHead: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#a78bfa")),
}
