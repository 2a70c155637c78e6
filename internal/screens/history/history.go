// Package history lists past chat runs from the local transcript history.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/store"
	"github.com/abhisek/studymate/internal/transcript"
	"github.com/abhisek/studymate/internal/ui/layout"
	"github.com/abhisek/studymate/internal/ui/theme"
)

// maxEntries bounds how much history is loaded.
const maxEntries = 500

type historyLoadedMsg struct {
	Runs []Run
	Err  error
}

// Run is the stored part of one chat session.
type Run struct {
	ID      string
	Entries []transcript.Entry
}

// Questions counts quiz questions asked in the run.
func (r Run) Questions() int {
	n := 0
	for _, e := range r.Entries {
		if e.Kind == transcript.KindQuestion {
			n++
		}
	}
	return n
}

// Summary returns the final quiz line of the run, if any.
func (r Run) Summary() string {
	for i := len(r.Entries) - 1; i >= 0; i-- {
		if r.Entries[i].Kind == transcript.KindSummary {
			return r.Entries[i].Text
		}
	}
	return ""
}

// groupRuns splits entries (oldest first) into runs, newest run first.
func groupRuns(entries []store.HistoryEntry) []Run {
	var runs []Run
	index := make(map[string]int)
	for _, h := range entries {
		i, ok := index[h.RunID]
		if !ok {
			i = len(runs)
			index[h.RunID] = i
			runs = append(runs, Run{ID: h.RunID})
		}
		runs[i].Entries = append(runs[i].Entries, h.Entry)
	}
	for l, r := 0, len(runs)-1; l < r; l, r = l+1, r-1 {
		runs[l], runs[r] = runs[r], runs[l]
	}
	return runs
}

// HistoryScreen displays past runs and their transcripts.
type HistoryScreen struct {
	repo     store.HistoryRepo
	runs     []Run
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(repo store.HistoryRepo) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		if repo == nil {
			return historyLoadedMsg{}
		}
		entries, err := repo.Recent(context.Background(), maxEntries)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Runs: groupRuns(entries)}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.runs = msg.Runs
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.runs)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n  Loading history...")
	}
	if len(s.runs) == 0 {
		return center.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Start a chat or a quiz!")
	}

	var lines []string
	for i, run := range s.runs {
		first := run.Entries[0]
		desc := fmt.Sprintf("%d messages", len(run.Entries))
		if q := run.Questions(); q > 0 {
			desc = fmt.Sprintf("%d questions", q)
		}
		if sum := run.Summary(); sum != "" {
			desc += "  " + sum
		}

		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "▸ "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s%s  %s",
			prefix, first.At.Local().Format("Jan 02, 2006 15:04"), desc)))

		if s.expanded[i] {
			for _, e := range run.Entries {
				lines = append(lines, renderEntry(e, width-8))
			}
		}
	}

	// Keep the selected run in view.
	maxLines := max(height-2, 1)
	start := 0
	if sel := s.selectedLine(); sel >= maxLines {
		start = sel - maxLines + 1
	}
	end := min(start+maxLines, len(lines))
	return "\n" + strings.Join(lines[start:end], "\n")
}

// selectedLine is the index in the rendered lines of the selected run.
func (s *HistoryScreen) selectedLine() int {
	line := 0
	for i := 0; i < s.selected && i < len(s.runs); i++ {
		line++
		if s.expanded[i] {
			line += len(s.runs[i].Entries)
		}
	}
	return line
}

func renderEntry(e transcript.Entry, width int) string {
	text := strings.ReplaceAll(e.Text, "\n", " ")
	if r := []rune(text); width > 4 && len(r) > width {
		text = string(r[:width-1]) + "…"
	}
	switch {
	case e.Role == transcript.RoleUser:
		return "      " + theme.UserLabel.Render("You: ") + text
	case e.Kind == transcript.KindError:
		return "      " + theme.ErrorText.Render(text)
	case e.Kind == transcript.KindQuestion:
		return "      " + theme.QuestionText.Render(text)
	default:
		return "      " + theme.Hint.Render(text)
	}
}
