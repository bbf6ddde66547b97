// Package tui shows a spinner while the patch session runs and the run
// summary when it finishes.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fitzzftw/ftwpatch/internal/ui"
	"github.com/fitzzftw/ftwpatch/model"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// Runner executes the patch session and reports its result.
type Runner func() (model.Summary, error)

type summaryMsg struct{ model.Summary }

type errorMsg struct{ err error }

type state int

const (
	stateRunning state = iota
	stateSummary
	stateError
)

// Model is the bubbletea model wrapping one patch run.
type Model struct {
	run     Runner
	label   string
	spinner spinner.Model
	state   state
	summary model.Summary
	err     error
}

// New creates the model. label names the diff source shown next to the
// spinner.
func New(run Runner, label string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return Model{run: run, label: label, spinner: s}
}

// Err returns the run error, if any, after the program has finished.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.start)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case summaryMsg:
		m.state = stateSummary
		m.summary = msg.Summary
		return m, tea.Quit

	case errorMsg:
		m.state = stateError
		m.err = msg.err
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		if m.state == stateRunning {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.state {
	case stateRunning:
		return fmt.Sprintf("%s Applying %s...", m.spinner.View(), m.label)
	case stateError:
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	case stateSummary:
		return ui.RenderSummary(m.summary)
	default:
		return ""
	}
}

func (m Model) start() tea.Msg {
	summary, err := m.run()
	if err != nil {
		return errorMsg{err}
	}
	return summaryMsg{summary}
}

// Run drives the model to completion and returns the session result.
func Run(run Runner, label string) (model.Summary, error) {
	p := tea.NewProgram(New(run, label))
	final, err := p.Run()
	if err != nil {
		return model.Summary{}, err
	}
	m := final.(Model)
	if m.err != nil {
		return model.Summary{}, m.err
	}
	return m.summary, nil
}
