package chat

import (
	"fmt"
	"strings"

	"github.com/bnema/coach-cli/internal/application"
	"github.com/bnema/coach-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	timeLayout    = "15:04"
	typingLabel   = "AI is typing..."
	excerptSuffix = "..."
)

func transcriptView(chat application.ChatSession, s styles) string {
	lines := []string{
		s.title.Render("AI Career Coach"),
		s.header.Render(fmt.Sprintf("resume: %s (%s)", chat.Session.Label, chat.Session.ID)),
	}

	if len(chat.Messages) == 0 {
		lines = append(lines, s.empty.Render("No messages yet."))
	}
	for _, msg := range chat.Messages {
		lines = append(lines, s.section.Render(messageView(msg, s)))
	}

	if chat.Awaiting {
		lines = append(lines, s.section.Render(s.typing.Render(typingLabel)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func messageView(msg domain.Message, s styles) string {
	author := s.bot.Render("Coach")
	if msg.Sender == domain.SenderUser {
		author = s.user.Render("You")
	}

	heading := author
	if !msg.Time.IsZero() {
		heading += " " + s.meta.Render(msg.Time.Local().Format(timeLayout))
	}

	parts := []string{heading}
	for _, line := range strings.Split(msg.Text, "\n") {
		parts = append(parts, s.body.Render(line))
	}

	if msg.EngineContext != nil {
		parts = append(parts, s.inspector.Render(inspectorView(*msg.EngineContext, msg.SourceDocuments, s)))
	}
	if plan, ok := msg.Plan(); ok {
		parts = append(parts, s.inspector.Render(timelineView(plan, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func inspectorView(ctx domain.EngineContext, sources []domain.DocumentExcerpt, s styles) string {
	if ctx.Degraded() {
		return lipgloss.JoinVertical(lipgloss.Left,
			s.label.Render("Engine Context:"),
			s.body.Render(ctx.Raw),
		)
	}

	lines := make([]string, 0, 8)
	for _, line := range ctx.Structured.Lines() {
		lines = append(lines, s.body.Render(line))
	}

	if len(sources) > 0 {
		lines = append(lines, s.label.Render("Sources:"))
		for _, source := range sources {
			entry := "- " + source.Content + excerptSuffix
			if source.Source != "" {
				entry += " " + s.meta.Render("("+source.Source+")")
			}
			lines = append(lines, s.body.Render(entry))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func timelineView(plan domain.LearningPlan, s styles) string {
	lines := []string{s.label.Render("Learning Roadmap: " + plan.Occupation)}

	for _, phase := range plan.Phases {
		lines = append(lines, s.title.Render(fmt.Sprintf("Phase %d: %s", phase.Index, phase.Skill)))
		if phase.Start != "" || phase.End != "" {
			lines = append(lines, s.meta.Render(fmt.Sprintf("%s -> %s", phase.Start, phase.End)))
		}
		for _, milestone := range phase.WeeklyMilestones {
			lines = append(lines, s.body.Render("  * "+milestone))
		}
		if len(phase.Courses) > 0 {
			lines = append(lines, s.body.Render("  Recommended Courses:"))
		}
		for _, course := range phase.Courses {
			entry := "    - " + course.Title
			if course.Platform != "" {
				entry += " (" + course.Platform + ")"
			}
			if course.URL != "" {
				entry += " " + s.link.Render(course.URL)
			}
			lines = append(lines, s.body.Render(entry))
		}
	}

	if plan.Capstone != nil {
		lines = append(lines,
			s.label.Render("Capstone Project: "+plan.Capstone.Title),
			s.body.Render(plan.Capstone.Description),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func sessionsView(sessions []domain.Session, active domain.SessionID, s styles) string {
	lines := []string{
		s.title.Render("Sessions"),
		s.header.Render(fmt.Sprintf("sessions: %d", len(sessions))),
	}

	if len(sessions) == 0 {
		lines = append(lines, s.empty.Render("No sessions. Upload a resume to start."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, session := range sessions {
		marker := "  "
		label := s.body.Render(fmt.Sprintf("%s (%s)", session.Label, session.ID))
		if session.ID == active {
			marker = s.active.Render("* ")
			label = s.active.Render(fmt.Sprintf("%s (%s)", session.Label, session.ID))
		}
		lines = append(lines, marker+label+" "+s.meta.Render(session.DisplayName()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func resumeView(session domain.Session, s styles) string {
	if len(session.Document) == 0 {
		return s.empty.Render("No resume parsed.")
	}

	resume := session.Document.Resume()
	name := resume.FullName
	if name == "" {
		name = "Unknown"
	}

	lines := []string{s.title.Render("Resume Summary"), s.body.Render(name)}
	if resume.Email != "" {
		lines = append(lines, s.meta.Render(resume.Email))
	}

	lines = append(lines, s.section.Render(s.label.Render("Skills")))
	if len(resume.Skills) == 0 {
		lines = append(lines, s.empty.Render("No skills parsed."))
	}
	for _, skill := range resume.Skills {
		lines = append(lines, s.body.Render("- "+skill))
	}

	lines = append(lines, s.section.Render(s.label.Render("Experience")))
	if len(resume.Experience) == 0 {
		lines = append(lines, s.empty.Render("No experience parsed."))
	}
	for _, exp := range resume.Experience {
		lines = append(lines, s.body.Render(strings.TrimSpace(exp.Role+" "+s.meta.Render(exp.Company))))
		for _, bullet := range exp.Bullets {
			lines = append(lines, s.body.Render("  * "+bullet))
		}
	}

	lines = append(lines, s.section.Render(s.label.Render("Education")))
	education := resume.EducationLines()
	if len(education) == 0 {
		lines = append(lines, s.empty.Render("No education parsed."))
	}
	for _, entry := range education {
		lines = append(lines, s.body.Render("- "+entry))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
