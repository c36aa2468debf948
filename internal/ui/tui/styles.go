package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles of the browse view.
type Styles struct {
	Brand          lipgloss.Style
	Session        lipgloss.Style
	Category       lipgloss.Style
	ActiveCategory lipgloss.Style
	Title          lipgloss.Style
	Selected       lipgloss.Style
	Subtitle       lipgloss.Style
	Muted          lipgloss.Style
	Error          lipgloss.Style
	Liked          lipgloss.Style
	Detail         lipgloss.Style
}

func DefaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#3B5BDB", Dark: "#748FFC"}
	muted := lipgloss.AdaptiveColor{Light: "#868E96", Dark: "#909296"}
	return Styles{
		Brand:          lipgloss.NewStyle().Bold(true).Foreground(primary),
		Session:        lipgloss.NewStyle().Foreground(muted),
		Category:       lipgloss.NewStyle().Padding(0, 1).Foreground(muted),
		ActiveCategory: lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(primary),
		Title:          lipgloss.NewStyle().Bold(true),
		Selected:       lipgloss.NewStyle().Bold(true).Foreground(primary),
		Subtitle:       lipgloss.NewStyle().Foreground(muted),
		Muted:          lipgloss.NewStyle().Foreground(muted).Italic(true),
		Error:          lipgloss.NewStyle().Foreground(lipgloss.Color("#E03131")),
		Liked:          lipgloss.NewStyle().Foreground(lipgloss.Color("#F03E3E")),
		Detail:         lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1),
	}
}
