package chat

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	section   lipgloss.Style
	empty     lipgloss.Style
	user      lipgloss.Style
	bot       lipgloss.Style
	meta      lipgloss.Style
	body      lipgloss.Style
	inspector lipgloss.Style
	label     lipgloss.Style
	warning   lipgloss.Style
	active    lipgloss.Style
	typing    lipgloss.Style
	link      lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		section:   lipgloss.NewStyle().MarginTop(1),
		empty:     lipgloss.NewStyle().Faint(true),
		user:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		bot:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		meta:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		body:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		inspector: lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("238")).PaddingLeft(1),
		label:     lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Bold(true),
		warning:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		active:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("159")),
		typing:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245")),
		link:      lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("69")),
	}
}
