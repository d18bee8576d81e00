package main

import (
	"context"
	"os"

	"github.com/charmbracelet/glamour"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sevigo/hubmerge/internal/coordinator"
)

func runMergeCmd(ctx context.Context, in coordinator.Input) tea.Cmd {
	return func() tea.Msg {
		out, err := coordinator.Run(ctx, in)
		return runCompleteMsg{out: out, err: err}
	}
}

func loadPreviewCmd(path string, width int) tea.Cmd {
	return func() tea.Msg {
		raw, err := os.ReadFile(path)
		if err != nil {
			return previewLoadedMsg{err: err}
		}
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return previewLoadedMsg{err: err}
		}
		rendered, err := renderer.Render(string(raw))
		if err != nil {
			return previewLoadedMsg{err: err}
		}
		return previewLoadedMsg{rendered: rendered}
	}
}
