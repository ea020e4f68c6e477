package application

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/coach-cli/internal/domain"
)

// The stored shapes keep the field names the browser client used so state
// written by either client reads back the same.

type sessionSchema struct {
	UserID       string         `json:"user_id"`
	FileName     string         `json:"fileName"`
	ParsedResume map[string]any `json:"parsed_resume,omitempty"`
	CreatedAt    string         `json:"created_at"`
}

type messageSchema struct {
	Sender          string          `json:"sender"`
	Text            string          `json:"text"`
	Time            string          `json:"time,omitempty"`
	EngineContext   any             `json:"engine_context,omitempty"`
	SourceDocuments []excerptSchema `json:"source_documents,omitempty"`
	LearningPlan    any             `json:"learning_plan,omitempty"`

	// LegacyMessage is the text field of the single-session format.
	LegacyMessage string `json:"message,omitempty"`
}

type excerptSchema struct {
	PageContent string `json:"page_content"`
	Source      string `json:"source,omitempty"`
}

func encodeSessions(sessions []domain.Session) (string, error) {
	encoded := make([]sessionSchema, 0, len(sessions))
	for _, session := range sessions {
		encoded = append(encoded, sessionSchema{
			UserID:       string(session.ID),
			FileName:     session.Label,
			ParsedResume: session.Document,
			CreatedAt:    formatTime(session.CreatedAt),
		})
	}

	data, err := json.Marshal(encoded)
	if err != nil {
		return "", fmt.Errorf("encode sessions: %w", err)
	}

	return string(data), nil
}

// decodeSessions drops entries without an id and keeps the first entry of
// any repeated id.
func decodeSessions(raw string) ([]domain.Session, error) {
	var decoded []sessionSchema
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}

	sessions := make([]domain.Session, 0, len(decoded))
	seen := make(map[domain.SessionID]struct{}, len(decoded))
	for _, entry := range decoded {
		id := domain.NormalizeSessionID(entry.UserID)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		sessions = append(sessions, domain.Session{
			ID:        id,
			Label:     entry.FileName,
			Document:  domain.Document(entry.ParsedResume),
			CreatedAt: parseTime(entry.CreatedAt),
		})
	}

	return sessions, nil
}

func encodeMessages(messages []domain.Message) (string, error) {
	encoded := make([]messageSchema, 0, len(messages))
	for _, msg := range messages {
		encoded = append(encoded, toMessageSchema(msg))
	}

	data, err := json.Marshal(encoded)
	if err != nil {
		return "", fmt.Errorf("encode messages: %w", err)
	}

	return string(data), nil
}

func decodeMessages(raw string) ([]domain.Message, error) {
	var decoded []messageSchema
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}

	messages := make([]domain.Message, 0, len(decoded))
	for _, entry := range decoded {
		messages = append(messages, fromMessageSchema(entry))
	}

	return messages, nil
}

func toMessageSchema(msg domain.Message) messageSchema {
	encoded := messageSchema{
		Sender:       string(msg.Sender),
		Text:         msg.Text,
		Time:         formatTime(msg.Time),
		LearningPlan: msg.LearningPlan,
	}

	if msg.EngineContext != nil {
		if msg.EngineContext.Degraded() {
			encoded.EngineContext = msg.EngineContext.Raw
		} else {
			encoded.EngineContext = msg.EngineContext.Structured.Fields()
		}
	}

	for _, excerpt := range msg.SourceDocuments {
		encoded.SourceDocuments = append(encoded.SourceDocuments, excerptSchema{
			PageContent: excerpt.Content,
			Source:      excerpt.Source,
		})
	}

	return encoded
}

func fromMessageSchema(entry messageSchema) domain.Message {
	text := entry.Text
	if text == "" {
		text = entry.LegacyMessage
	}

	sender := domain.Sender(strings.TrimSpace(entry.Sender))
	if sender != domain.SenderUser {
		sender = domain.SenderBot
	}

	msg := domain.Message{
		Sender:        sender,
		Text:          text,
		Time:          parseTime(entry.Time),
		EngineContext: NormalizeEngineContext(entry.EngineContext),
		LearningPlan:  entry.LearningPlan,
	}

	for _, excerpt := range entry.SourceDocuments {
		msg.SourceDocuments = append(msg.SourceDocuments, domain.DocumentExcerpt{
			Content: excerpt.PageContent,
			Source:  excerpt.Source,
		})
	}

	return msg
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed.UTC()
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339Nano)
}
