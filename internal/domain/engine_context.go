package domain

import (
	"fmt"
	"strings"
)

const notDetected = "Not detected"

// EngineContext is either a structured context or, when the service sent a
// string that did not parse, the raw string kept for display only.
type EngineContext struct {
	Structured *NormalizedContext
	Raw        string
}

func (c EngineContext) Degraded() bool {
	return c.Structured == nil
}

type NormalizedContext struct {
	Domain              string
	PrimaryOccupation   string
	CanonicalOccupation string
	SkillGaps           []string
	LearningSummary     string
	Salary              string
}

// Fields returns c in the shape the remote service sends it.
func (c NormalizedContext) Fields() map[string]any {
	gaps := make([]any, 0, len(c.SkillGaps))
	for _, gap := range c.SkillGaps {
		gaps = append(gaps, gap)
	}

	fields := map[string]any{"skill_gaps": gaps}
	if c.Domain != "" {
		fields["domain"] = c.Domain
	}
	if c.PrimaryOccupation != "" {
		fields["primary_occupation"] = c.PrimaryOccupation
	}
	if c.CanonicalOccupation != "" {
		fields["occupation_meta"] = map[string]any{"canonical": c.CanonicalOccupation}
	}
	if c.LearningSummary != "" {
		fields["learning_plan"] = map[string]any{"summary": c.LearningSummary}
	}
	if c.Salary != "" {
		fields["salary"] = c.Salary
	}

	return fields
}

func (c NormalizedContext) Lines() []string {
	lines := []string{
		fmt.Sprintf("Domain: %s", orDefault(c.Domain, notDetected)),
		fmt.Sprintf("Occupation: %s", orDefault(c.PrimaryOccupation, notDetected)),
	}
	if c.CanonicalOccupation != "" {
		lines = append(lines, fmt.Sprintf("Canonical Role: %s", c.CanonicalOccupation))
	}

	gaps := "None"
	if len(c.SkillGaps) > 0 {
		gaps = strings.Join(c.SkillGaps, ", ")
	}
	lines = append(lines, fmt.Sprintf("Skill Gaps: %s", gaps))

	if c.LearningSummary != "" {
		lines = append(lines, fmt.Sprintf("Learning Plan: %s", c.LearningSummary))
	}
	if c.Salary != "" {
		lines = append(lines, fmt.Sprintf("Salary Estimate: %s", c.Salary))
	}

	return lines
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
