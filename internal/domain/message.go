package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// ExcerptLimit is the number of leading runes of a source document that is
// kept on a message.
const ExcerptLimit = 120

type Message struct {
	Sender          Sender
	Text            string
	Time            time.Time
	EngineContext   *EngineContext
	SourceDocuments []DocumentExcerpt
	// LearningPlan is passed through untouched; use Plan for a typed view.
	LearningPlan any
}

type DocumentExcerpt struct {
	Content string
	Source  string
}

func NewUserMessage(text string, at time.Time) Message {
	return Message{Sender: SenderUser, Text: text, Time: at}
}

func NewBotMessage(text string, at time.Time) Message {
	return Message{Sender: SenderBot, Text: text, Time: at}
}

func (m Message) Plan() (LearningPlan, bool) {
	return DecodeLearningPlan(m.LearningPlan)
}

// Excerpt trims s and cuts it to ExcerptLimit runes.
func Excerpt(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= ExcerptLimit {
		return s
	}

	runes := []rune(s)
	return string(runes[:ExcerptLimit])
}
