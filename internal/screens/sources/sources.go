// Package sources is the screen for managing uploaded study materials.
package sources

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/services"
	"github.com/abhisek/studymate/internal/sources"
	"github.com/abhisek/studymate/internal/ui/components"
	"github.com/abhisek/studymate/internal/ui/layout"
	"github.com/abhisek/studymate/internal/ui/theme"
)

type filesLoadedMsg struct {
	Files []string
	Err   error
}

type uploadedMsg struct {
	Results []sources.UploadResult
}

type removedMsg struct {
	Message string
	Err     error
}

// SourcesScreen lists uploaded files and lets the user add or remove them.
type SourcesScreen struct {
	mgr *sources.Manager

	files    []string
	selected int
	loaded   bool
	busy     bool

	adding       bool
	input        components.TextInput
	confirmClear bool

	status    string
	statusErr bool
}

var _ screen.Screen = (*SourcesScreen)(nil)
var _ screen.KeyHintProvider = (*SourcesScreen)(nil)

// New creates a SourcesScreen.
func New(svc *services.Services) *SourcesScreen {
	return &SourcesScreen{
		mgr:   svc.Sources(),
		input: components.NewTextInput("path/to/notes.pdf other.txt", 0),
	}
}

func (s *SourcesScreen) Title() string {
	return "Sources"
}

func (s *SourcesScreen) Init() tea.Cmd {
	return s.refresh()
}

func (s *SourcesScreen) refresh() tea.Cmd {
	s.busy = true
	mgr := s.mgr
	return func() tea.Msg {
		files, err := mgr.List(context.Background())
		return filesLoadedMsg{Files: files, Err: err}
	}
}

func (s *SourcesScreen) setStatus(text string, isErr bool) {
	s.status = text
	s.statusErr = isErr
}

func (s *SourcesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case filesLoadedMsg:
		s.busy = false
		if msg.Err != nil {
			s.setStatus("Could not load files. "+api.Describe(msg.Err), true)
			return s, nil
		}
		s.files = msg.Files
		s.loaded = true
		if s.selected >= len(s.files) {
			s.selected = max(len(s.files)-1, 0)
		}
		return s, nil

	case uploadedMsg:
		failed := sources.Failed(msg.Results)
		switch {
		case failed == 0:
			s.setStatus(fmt.Sprintf("Uploaded %d file(s).", len(msg.Results)), false)
		default:
			var names []string
			for _, r := range msg.Results {
				if r.Err != nil {
					names = append(names, r.Name+": "+api.Describe(r.Err))
				}
			}
			s.setStatus(fmt.Sprintf("%d of %d upload(s) failed. %s",
				failed, len(msg.Results), strings.Join(names, "; ")), true)
		}
		return s, s.refresh()

	case removedMsg:
		if msg.Err != nil {
			s.busy = false
			s.setStatus(api.Describe(msg.Err), true)
			return s, nil
		}
		s.setStatus(msg.Message, false)
		return s, s.refresh()

	case tea.KeyPressMsg:
		return s, s.handleKey(msg)
	}

	if s.adding {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SourcesScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if s.adding {
		if msg.String() != "enter" {
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			return cmd
		}
		s.adding = false
		paths := strings.Fields(s.input.Take())
		if len(paths) == 0 {
			return nil
		}
		return s.upload(paths)
	}

	if s.confirmClear {
		s.confirmClear = false
		if msg.String() != "y" {
			s.setStatus("Nothing was removed.", false)
			return nil
		}
		return s.remove(func(ctx context.Context) (string, error) {
			return s.mgr.Clear(ctx)
		})
	}

	if s.busy {
		return nil
	}

	switch msg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.files)-1 {
			s.selected++
		}
	case "a":
		s.adding = true
		return s.input.Init()
	case "d", "delete":
		if len(s.files) == 0 {
			return nil
		}
		name := s.files[s.selected]
		return s.remove(func(ctx context.Context) (string, error) {
			return s.mgr.Delete(ctx, name)
		})
	case "c":
		if len(s.files) > 0 {
			s.confirmClear = true
		}
	case "r":
		return s.refresh()
	}
	return nil
}

func (s *SourcesScreen) upload(paths []string) tea.Cmd {
	s.busy = true
	s.setStatus(fmt.Sprintf("Uploading %d file(s)...", len(paths)), false)
	mgr := s.mgr
	return func() tea.Msg {
		return uploadedMsg{Results: mgr.UploadAll(context.Background(), paths)}
	}
}

func (s *SourcesScreen) remove(fn func(context.Context) (string, error)) tea.Cmd {
	s.busy = true
	return func() tea.Msg {
		m, err := fn(context.Background())
		return removedMsg{Message: m, Err: err}
	}
}

func (s *SourcesScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Your study materials") + "\n\n")

	switch {
	case !s.loaded && s.busy:
		b.WriteString(theme.Hint.Render("Loading files..."))
	case len(s.files) == 0:
		b.WriteString(theme.Hint.Italic(true).Render("No files uploaded yet. Press a to add some."))
	default:
		rows := max(height-10, 1)
		start := 0
		if s.selected >= rows {
			start = s.selected - rows + 1
		}
		end := min(start+rows, len(s.files))
		for i := start; i < end; i++ {
			line := "    " + s.files[i]
			style := theme.Unselected
			if i == s.selected {
				line = "  ▸ " + s.files[i]
				style = theme.Selected
			}
			b.WriteString(style.Render(line) + "\n")
		}
	}

	b.WriteString("\n")
	switch {
	case s.adding:
		s.input.SetWidth(min(width-10, 70))
		b.WriteString(theme.Body.Render("Files to upload (separate with spaces, empty to cancel):") + "\n")
		b.WriteString(s.input.View())
	case s.confirmClear:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render(fmt.Sprintf("Remove all %d files? (y/N)", len(s.files))))
	case s.status != "":
		style := theme.SummaryText
		if s.statusErr {
			style = theme.ErrorText
		}
		b.WriteString(style.Width(min(width-8, 90)).Render(s.status))
	}

	return theme.Card.Width(min(width-4, 96)).Render(strings.TrimRight(b.String(), "\n"))
}

func (s *SourcesScreen) KeyHints() []layout.KeyHint {
	if s.adding {
		return []layout.KeyHint{{Key: "Enter", Description: "Upload"}}
	}
	return []layout.KeyHint{
		{Key: "a", Description: "Add"},
		{Key: "d", Description: "Delete"},
		{Key: "c", Description: "Clear all"},
		{Key: "r", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}
