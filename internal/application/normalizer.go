package application

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/coach-cli/internal/domain"
)

const (
	FallbackReplyText   = "Unable to reach server."
	InvalidResponseText = "Invalid response"
)

// NormalizeResponse turns an untrusted chat reply into a bot message. It
// never fails: a field that cannot be read is left out of the message.
func NormalizeResponse(payload map[string]any, at time.Time) domain.Message {
	msg := domain.NewBotMessage(InvalidResponseText, at)

	guardField(func() {
		if answer, ok := payload["answer"].(string); ok {
			msg.Text = strings.TrimSpace(answer)
		}
	})
	guardField(func() {
		msg.EngineContext = NormalizeEngineContext(payload["engine_context_used"])
	})
	guardField(func() {
		msg.SourceDocuments = normalizeSourceDocuments(payload["source_documents"])
	})
	guardField(func() {
		msg.LearningPlan = normalizeLearningPlan(payload["learning_plan"])
	})

	return msg
}

// NormalizeEngineContext accepts the engine context as an object or as a
// JSON-encoded string. A string that does not decode to an object is kept
// verbatim as a degraded context.
func NormalizeEngineContext(raw any) *domain.EngineContext {
	switch typed := raw.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(typed) == "" {
			return nil
		}

		var decoded any
		if err := json.Unmarshal([]byte(typed), &decoded); err != nil {
			return &domain.EngineContext{Raw: typed}
		}
		switch fields := decoded.(type) {
		case nil:
			return nil
		case map[string]any:
			return &domain.EngineContext{Structured: normalizeContextFields(fields)}
		default:
			return &domain.EngineContext{Raw: typed}
		}
	case map[string]any:
		cloned, err := cloneValue(typed)
		if err != nil {
			return nil
		}
		return &domain.EngineContext{Structured: normalizeContextFields(cloned.(map[string]any))}
	default:
		return nil
	}
}

func normalizeContextFields(fields map[string]any) *domain.NormalizedContext {
	occupation := stringField(fields, "primary_occupation")
	if occupation == "" {
		occupation = stringField(fields, "occupation")
	}

	return &domain.NormalizedContext{
		Domain:              stringField(fields, "domain"),
		PrimaryOccupation:   occupation,
		CanonicalOccupation: stringField(recordField(fields, "occupation_meta"), "canonical"),
		SkillGaps:           stringSet(fields["skill_gaps"]),
		LearningSummary:     stringField(recordField(fields, "learning_plan"), "summary"),
		Salary:              salaryText(fields["salary"]),
	}
}

func normalizeSourceDocuments(raw any) []domain.DocumentExcerpt {
	entries, ok := raw.([]any)
	if !ok {
		return nil
	}

	var excerpts []domain.DocumentExcerpt
	for _, entry := range entries {
		var excerpt domain.DocumentExcerpt
		switch typed := entry.(type) {
		case string:
			excerpt.Content = domain.Excerpt(typed)
		case map[string]any:
			for _, key := range []string{"page_content", "content", "text"} {
				if content := stringField(typed, key); content != "" {
					excerpt.Content = domain.Excerpt(content)
					break
				}
			}
			excerpt.Source = stringField(recordField(typed, "metadata"), "source")
			if excerpt.Source == "" {
				excerpt.Source = stringField(typed, "source")
			}
		}
		if excerpt.Content == "" && excerpt.Source == "" {
			continue
		}
		excerpts = append(excerpts, excerpt)
	}

	return excerpts
}

func normalizeLearningPlan(raw any) any {
	if raw == nil {
		return nil
	}

	cloned, err := cloneValue(raw)
	if err != nil {
		return nil
	}

	return cloned
}

func stringField(fields map[string]any, key string) string {
	value, ok := fields[key].(string)
	if !ok {
		return ""
	}

	return strings.TrimSpace(value)
}

func recordField(fields map[string]any, key string) map[string]any {
	record, _ := fields[key].(map[string]any)
	return record
}

func stringSet(raw any) []string {
	out := []string{}
	seen := map[string]struct{}{}

	add := func(value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		if _, ok := seen[value]; ok {
			return
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}

	switch typed := raw.(type) {
	case []any:
		for _, item := range typed {
			if value, ok := item.(string); ok {
				add(value)
			}
		}
	case []string:
		for _, value := range typed {
			add(value)
		}
	}

	return out
}

func salaryText(raw any) string {
	switch typed := raw.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case json.Number:
		return typed.String()
	case int, int64:
		return fmt.Sprint(typed)
	case map[string]any:
		average := salaryText(typed["average_salary"])
		if average == "" {
			return ""
		}
		if location := stringField(typed, "location"); location != "" {
			return fmt.Sprintf("%s (%s)", average, location)
		}
		return average
	default:
		return ""
	}
}

func guardField(read func()) {
	defer func() {
		_ = recover()
	}()

	read()
}
