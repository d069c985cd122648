// Package tui provides the interactive preview shown before a patch is
// written to disk.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Background(lipgloss.Color("240")).Padding(0, 1)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// previewModel scrolls the rendered commit diff and waits for a verdict.
type previewModel struct {
	viewport  viewport.Model
	title     string
	confirmed bool
	decided   bool
	ready     bool
	content   string
}

func newPreviewModel(title, content string) previewModel {
	return previewModel{title: title, content: content}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y", "enter":
			m.confirmed = true
			m.decided = true
			return m, tea.Quit
		case "n", "N", "q", "esc", "ctrl+c":
			m.decided = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		headerHeight := 1
		footerHeight := 1
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m previewModel) View() string {
	if !m.ready {
		return "loading preview..."
	}
	header := titleStyle.Render(m.title)
	footer := helpStyle.Render(fmt.Sprintf("%3.0f%%  y/enter apply · n/q cancel · ↑/↓ scroll", m.viewport.ScrollPercent()*100))
	return strings.Join([]string{header, m.viewport.View(), footer}, "\n")
}

// Confirm shows the rendered diff full-screen and returns whether the user
// chose to apply it.
func Confirm(title, diff string) (bool, error) {
	p := tea.NewProgram(newPreviewModel(title, diff), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(previewModel)
	if !ok {
		return false, fmt.Errorf("unexpected model type from preview")
	}
	return m.confirmed, nil
}
