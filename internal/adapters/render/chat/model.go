package chat

import (
	"errors"
	"io"

	"github.com/bnema/coach-cli/internal/application"
	"github.com/bnema/coach-cli/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	view   func(styles) string
	styles styles
	output string
}

func newModel(view func(styles) string) model {
	return model{view: view, styles: newStyles()}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = m.view(m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

func Transcript(chat application.ChatSession) (string, error) {
	return render(func(s styles) string { return transcriptView(chat, s) })
}

func Sessions(sessions []domain.Session, active domain.SessionID) (string, error) {
	return render(func(s styles) string { return sessionsView(sessions, active, s) })
}

func Resume(session domain.Session) (string, error) {
	return render(func(s styles) string { return resumeView(session, s) })
}

func Reply(msg domain.Message) (string, error) {
	return render(func(s styles) string { return messageView(msg, s) })
}

func render(view func(styles) string) (string, error) {
	p := tea.NewProgram(
		newModel(view),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
