package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	Header   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Favorite lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Favorite: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}
