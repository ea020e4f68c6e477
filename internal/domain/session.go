package domain

import (
	"strings"
	"time"
)

type SessionID string

type Session struct {
	ID        SessionID
	Label     string
	Document  Document
	CreatedAt time.Time
}

// DisplayName prefers the parsed full name and falls back to the label.
func (s Session) DisplayName() string {
	if name := strings.TrimSpace(s.Document.Resume().FullName); name != "" {
		return name
	}
	if s.Label != "" {
		return s.Label
	}

	return "Unknown User"
}

func NormalizeSessionID(raw string) SessionID {
	return SessionID(strings.TrimSpace(raw))
}
