package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sevigo/hubmerge/internal/coordinator"
)

const header = "hubmerge — merge report preview"

type model struct {
	styles  styles
	spinner spinner.Model
	view    viewport.Model

	ctx context.Context
	in  coordinator.Input

	isLoading bool
	result    *coordinator.Output
	err       error
}

func initialModel(ctx context.Context, in coordinator.Input) *model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))

	return &model{
		styles:    newStyles(),
		spinner:   sp,
		view:      viewport.New(100, 24),
		ctx:       ctx,
		in:        in,
		isLoading: true,
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, runMergeCmd(m.ctx, m.in))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var spCmd, vpCmd tea.Cmd
	m.spinner, spCmd = m.spinner.Update(msg)
	m.view, vpCmd = m.view.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}

	case runCompleteMsg:
		m.isLoading = false
		m.result = msg.out
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		if len(msg.out.Artifacts) > 0 && len(msg.out.Artifacts[0].TextPaths) > 0 {
			return m, loadPreviewCmd(msg.out.Artifacts[0].TextPaths[0], m.view.Width)
		}
		return m, nil

	case previewLoadedMsg:
		if msg.err != nil {
			m.view.SetContent(m.styles.error.Render("preview unavailable: " + msg.err.Error()))
			return m, nil
		}
		m.view.SetContent(msg.rendered)

	case tea.WindowSizeMsg:
		m.view.Width = msg.Width - 4
		m.view.Height = msg.Height - 10
	}

	return m, tea.Batch(spCmd, vpCmd)
}

func (m *model) View() string {
	var body strings.Builder
	body.WriteString(m.styles.header.Render(header))
	body.WriteString("\n")

	switch {
	case m.isLoading:
		body.WriteString(fmt.Sprintf("%s running merge across %d repo(s)...\n", m.spinner.View(), len(m.in.Repos)))
	case m.err != nil:
		body.WriteString(m.styles.error.Render("merge run failed: "+m.err.Error()) + "\n")
	case m.result != nil:
		body.WriteString(m.styles.success.Render(fmt.Sprintf("run %s complete, %d artifact(s)", m.result.RunID, len(m.result.Artifacts))) + "\n")
	}

	body.WriteString(m.styles.viewport.Render(m.view.View()))
	body.WriteString("\n")
	body.WriteString(m.styles.footer.Render(m.styles.inactive.Render("q / esc / ctrl+c to quit")))

	return m.styles.app.Render(body.String())
}
