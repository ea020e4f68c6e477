package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExcerptTrimsAndCutsRunes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", Excerpt("  short \n"))

	long := strings.Repeat("ü", ExcerptLimit+10)
	got := Excerpt(long)
	assert.Equal(t, ExcerptLimit, len([]rune(got)))
	assert.True(t, strings.HasPrefix(long, got))
}

func TestSessionDisplayNameFallbacks(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Ada", Session{Label: "cv.pdf", Document: Document{"full_name": " Ada "}}.DisplayName())
	assert.Equal(t, "cv.pdf", Session{Label: "cv.pdf", Document: Document{"full_name": "  "}}.DisplayName())
	assert.Equal(t, "Unknown User", Session{}.DisplayName())
}

func TestDocumentResumeDecodesLooseShapes(t *testing.T) {
	t.Parallel()

	resume := Document{
		"full_name": "Ada",
		"skills":    []any{"math", 1.5},
		"experience": []any{
			map[string]any{"role": "Analyst", "company": "Engine Co", "bullets": []any{"a", "b"}},
		},
		"education": []any{"BSc", nil, map[string]any{"school": "London", "year": 1835}},
	}.Resume()

	assert.Equal(t, "Ada", resume.FullName)
	assert.Equal(t, []string{"math", "1.5"}, resume.Skills)
	require.Len(t, resume.Experience, 1)
	assert.Equal(t, Experience{Role: "Analyst", Company: "Engine Co", Bullets: []string{"a", "b"}}, resume.Experience[0])
	assert.Equal(t, []string{"BSc", "London, 1835"}, resume.EducationLines())
}

func TestDocumentResumeOfNilDocument(t *testing.T) {
	t.Parallel()

	var doc Document
	assert.Equal(t, Resume{}, doc.Resume())
}

func TestDecodeLearningPlan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    any
		wantOK bool
	}{
		{name: "nil", raw: nil, wantOK: false},
		{name: "not a record", raw: []any{"phase"}, wantOK: false},
		{name: "no phases", raw: map[string]any{"occupation": "Analyst"}, wantOK: false},
		{name: "null phases", raw: map[string]any{"phases": nil}, wantOK: false},
		{name: "phases of wrong shape", raw: map[string]any{"phases": "soon"}, wantOK: false},
		{name: "empty phases", raw: map[string]any{"phases": []any{}}, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := DecodeLearningPlan(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestDecodeLearningPlanFields(t *testing.T) {
	t.Parallel()

	plan, ok := DecodeLearningPlan(map[string]any{
		"occupation": "Data Analyst",
		"phases": []any{
			map[string]any{
				"phase_index":       2.0,
				"skill":             "SQL",
				"weekly_milestones": []any{"joins"},
				"courses":           []any{map[string]any{"title": "SQL 101", "url": "https://example.com"}},
			},
		},
		"capstone": map[string]any{"title": "Dashboard"},
	})

	require.True(t, ok)
	assert.Equal(t, "Data Analyst", plan.Occupation)
	require.Len(t, plan.Phases, 1)
	assert.Equal(t, 2, plan.Phases[0].Index)
	assert.Equal(t, []string{"joins"}, plan.Phases[0].WeeklyMilestones)
	assert.Equal(t, []Course{{Title: "SQL 101", URL: "https://example.com"}}, plan.Phases[0].Courses)
	require.NotNil(t, plan.Capstone)
	assert.Equal(t, "Dashboard", plan.Capstone.Title)
}

func TestNormalizedContextLines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		"Domain: Not detected",
		"Occupation: Not detected",
		"Skill Gaps: None",
	}, NormalizedContext{}.Lines())

	assert.Equal(t, []string{
		"Domain: tech",
		"Occupation: Engineer",
		"Canonical Role: Software Engineers",
		"Skill Gaps: go, k8s",
		"Learning Plan: 12 weeks",
		"Salary Estimate: 120000",
	}, NormalizedContext{
		Domain:              "tech",
		PrimaryOccupation:   "Engineer",
		CanonicalOccupation: "Software Engineers",
		SkillGaps:           []string{"go", "k8s"},
		LearningSummary:     "12 weeks",
		Salary:              "120000",
	}.Lines())
}

func TestNormalizedContextFieldsAlwaysCarrySkillGaps(t *testing.T) {
	t.Parallel()

	fields := NormalizedContext{}.Fields()
	assert.Equal(t, map[string]any{"skill_gaps": []any{}}, fields)

	fields = NormalizedContext{CanonicalOccupation: "Nurses", LearningSummary: "soon"}.Fields()
	assert.Equal(t, map[string]any{"canonical": "Nurses"}, fields["occupation_meta"])
	assert.Equal(t, map[string]any{"summary": "soon"}, fields["learning_plan"])
}
