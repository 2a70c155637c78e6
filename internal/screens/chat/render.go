package chat

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/transcript"
	"github.com/abhisek/studymate/internal/ui/theme"
)

// renderEntries formats the transcript for the viewport at the given width.
func renderEntries(entries []transcript.Entry, width int) string {
	if width < 10 {
		width = 10
	}
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(wrap.Render(renderEntry(e)))
		b.WriteString("\n")
	}
	return b.String()
}

func renderEntry(e transcript.Entry) string {
	switch e.Kind {
	case transcript.KindError:
		return theme.ErrorText.Render("! " + e.Text)
	case transcript.KindPlaceholder:
		return theme.AssistantLabel.Render("StudyMate: ") + theme.Hint.Render(e.Text)
	case transcript.KindQuestion:
		return theme.AssistantLabel.Render("Question: ") + theme.QuestionText.Render(e.Text)
	case transcript.KindSummary:
		return theme.SummaryText.Render(e.Text)
	case transcript.KindFeedback:
		style := theme.Incorrect
		if e.Correct != nil && *e.Correct {
			style = theme.Correct
		}
		return style.Render(e.Text)
	}

	switch e.Role {
	case transcript.RoleUser:
		return theme.UserLabel.Render("You: ") + theme.Body.Render(e.Text)
	case transcript.RoleSystem:
		return theme.SystemText.Render(e.Text)
	default:
		return theme.AssistantLabel.Render("StudyMate: ") + theme.Body.Render(e.Text)
	}
}
