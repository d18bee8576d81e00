package main

import "github.com/charmbracelet/lipgloss"

type styles struct {
	app      lipgloss.Style
	header   lipgloss.Style
	viewport lipgloss.Style
	footer   lipgloss.Style
	inactive lipgloss.Style
	error    lipgloss.Style
	success  lipgloss.Style
	warning  lipgloss.Style
}

func newStyles() styles {
	primary := lipgloss.Color("51")
	return styles{
		app: lipgloss.NewStyle().Margin(0, 1),
		header: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(primary).
			Padding(0, 2).
			MarginBottom(1),
		viewport: lipgloss.NewStyle().PaddingLeft(1),
		footer: lipgloss.NewStyle().
			MarginTop(1).
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(primary).
			PaddingTop(1),
		inactive: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		error:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		success:  lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
		warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
	}
}
