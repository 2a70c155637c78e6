// Package profile shows the learner's progress report.
package profile

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/profile"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/services"
	"github.com/abhisek/studymate/internal/store"
	"github.com/abhisek/studymate/internal/ui/layout"
	"github.com/abhisek/studymate/internal/ui/theme"
)

type reportLoadedMsg struct {
	Report profile.Report
	Err    error
}

// ProfileScreen renders the report for one identity.
type ProfileScreen struct {
	svc      *services.Services
	identity store.Identity

	report  profile.Report
	loaded  bool
	loading bool
	errMsg  string
	scroll  int
}

var _ screen.Screen = (*ProfileScreen)(nil)
var _ screen.KeyHintProvider = (*ProfileScreen)(nil)

// New creates a ProfileScreen for identity.
func New(svc *services.Services, identity store.Identity) *ProfileScreen {
	return &ProfileScreen{svc: svc, identity: identity}
}

func (s *ProfileScreen) Title() string {
	return "Profile"
}

func (s *ProfileScreen) Init() tea.Cmd {
	return s.load()
}

func (s *ProfileScreen) load() tea.Cmd {
	s.loading = true
	s.errMsg = ""
	svc, userID := s.svc, s.identity.UserID
	return func() tea.Msg {
		r, err := profile.Load(context.Background(), svc.API, userID)
		if err != nil {
			svc.Logger().Warn("load profile", zap.String("user_id", userID), zap.Error(err))
		}
		return reportLoadedMsg{Report: r, Err: err}
	}
}

func (s *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reportLoadedMsg:
		s.loading = false
		if msg.Err != nil {
			s.errMsg = api.Describe(msg.Err)
			return s, nil
		}
		s.report = msg.Report
		s.loaded = true
		s.scroll = 0
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "r":
			if !s.loading {
				return s, s.load()
			}
		case "up", "k":
			if s.scroll > 0 {
				s.scroll--
			}
		case "down", "j":
			if s.scroll < len(s.report.Rows)-1 {
				s.scroll++
			}
		}
	}
	return s, nil
}

func (s *ProfileScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case s.errMsg != "":
		return center.Foreground(theme.Error).Render("\n\nCould not load your profile. " + s.errMsg)
	case !s.loaded:
		return center.Foreground(theme.TextDim).Render("\n\n  Loading profile...")
	}

	r := s.report
	name := r.Name
	if name == "" {
		name = s.identity.Username
	}
	if name == "" {
		name = r.UserID
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(name) + "\n\n")

	stat := func(label, value string) string {
		return theme.Hint.Render(label+": ") + theme.Body.Render(value)
	}
	stats := []string{
		stat("Average accuracy", r.AvgAccuracy),
		stat("Attempts", fmt.Sprintf("%d", r.Attempts)),
		stat("Correct", fmt.Sprintf("%d", r.Correct)),
		stat("Best topic", r.BestTopic),
		stat("Weakest topic", r.WeakestTopic),
	}
	if layout.IsCompactWidth(width) {
		b.WriteString(strings.Join(stats, "\n"))
	} else {
		b.WriteString(strings.Join(stats[:3], "   ") + "\n" + strings.Join(stats[3:], "   "))
	}
	b.WriteString("\n\n")
	b.WriteString(theme.SummaryText.Render(r.Recommendation))
	b.WriteString("\n\n")

	if len(r.Rows) == 0 {
		b.WriteString(theme.Hint.Italic(true).Render("No quiz history yet. Take a quiz to see your topics here."))
	} else {
		b.WriteString(renderTable(r.Rows, s.scroll, height-12))
	}

	return theme.Card.Width(min(width-4, 90)).Render(b.String())
}

func renderTable(rows []profile.Row, offset, maxRows int) string {
	if maxRows < 1 {
		maxRows = 1
	}
	head := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	line := func(date, topic, score, acc string) string {
		return fmt.Sprintf("%-12s %-28s %-8s %8s", date, truncate(topic, 28), score, acc)
	}

	var b strings.Builder
	b.WriteString(head.Render(line("Date", "Topic", "Score", "Accuracy")) + "\n")
	end := min(offset+maxRows, len(rows))
	for _, r := range rows[offset:end] {
		b.WriteString(theme.Body.Render(line(r.Date, r.Topic, r.Score, r.Accuracy)) + "\n")
	}
	if end < len(rows) {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("... %d more", len(rows)-end)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func (s *ProfileScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "r", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}
