package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	typingLabel    = "AI is typing..."
	uploadingLabel = "Uploading and analyzing resume..."
)

type pendingDoneMsg struct {
	err error
}

// pendingModel shows a label and the time spent waiting until the work it
// runs reports back with a pendingDoneMsg.
type pendingModel struct {
	spinner spinner.Model
	elapsed lipgloss.Style
	label   string
	started time.Time
	now     func() time.Time
	work    tea.Cmd
	result  *pendingDoneMsg
}

func newPendingModel(label string, work tea.Cmd, now func() time.Time) pendingModel {
	if now == nil {
		now = time.Now
	}

	return pendingModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
		),
		elapsed: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		label:   label,
		started: now(),
		now:     now,
		work:    work,
	}
}

func (m pendingModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.work)
}

func (m pendingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pendingDoneMsg:
		m.result = &msg
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View clears the line once the work has settled so nothing is left above
// the rendered result.
func (m pendingModel) View() string {
	if m.result != nil {
		return ""
	}

	line := m.spinner.View() + " " + m.label
	if waited := m.now().Sub(m.started).Truncate(time.Second); waited >= time.Second {
		line += " " + m.elapsed.Render(waited.String())
	}

	return line
}

func (m pendingModel) err() error {
	if m.result == nil {
		return nil
	}
	return m.result.err
}

// runWithSpinner shows label next to a spinner on output until work returns.
func runWithSpinner(ctx context.Context, output io.Writer, label string, work func(context.Context) error) error {
	done := func() tea.Msg {
		return pendingDoneMsg{err: work(ctx)}
	}

	final, err := tea.NewProgram(
		newPendingModel(label, done, nil),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	).Run()
	if err != nil {
		return err
	}

	model, ok := final.(pendingModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", final)
	}

	return model.err()
}
