package application

import "github.com/bnema/coach-cli/internal/domain"

type SessionState string

const (
	SessionIdle     SessionState = "idle"
	SessionAwaiting SessionState = "awaiting"
)

// ChatSession is a read-only projection of one session and its log.
type ChatSession struct {
	Session  domain.Session
	Messages []domain.Message
	Awaiting bool
}

func (c ChatSession) State() SessionState {
	if c.Awaiting {
		return SessionAwaiting
	}
	return SessionIdle
}

func (c ChatSession) LastMessage() (domain.Message, bool) {
	if len(c.Messages) == 0 {
		return domain.Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}
