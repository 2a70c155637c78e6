// Package home is the main menu shown once the user is known.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/studymate/internal/assistant"
	"github.com/abhisek/studymate/internal/router"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/screens/chat"
	historyscreen "github.com/abhisek/studymate/internal/screens/history"
	profilescreen "github.com/abhisek/studymate/internal/screens/profile"
	sourcesscreen "github.com/abhisek/studymate/internal/screens/sources"
	"github.com/abhisek/studymate/internal/services"
	"github.com/abhisek/studymate/internal/store"
	"github.com/abhisek/studymate/internal/ui/components"
	"github.com/abhisek/studymate/internal/ui/layout"
	"github.com/abhisek/studymate/internal/ui/theme"
)

const titleFull = `╔═╗┌┬┐┬ ┬┌┬┐┬ ┬╔╦╗┌─┐┌┬┐┌─┐
╚═╗ │ │ │ ││└┬┘║║║├─┤ │ ├┤
╚═╝ ┴ └─┘─┴┘ ┴ ╩ ╩┴ ┴ ┴ └─┘`

const titleCompact = "S T U D Y M A T E"

type signedOutMsg struct {
	Err error
}

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	svc          *services.Services
	identity     store.Identity
	loginFactory func() screen.Screen
	menu         components.Menu
	errText      string
	openOnStart  screen.Screen
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a HomeScreen for identity. loginFactory builds the screen
// shown after signing out.
func New(svc *services.Services, identity store.Identity, loginFactory func() screen.Screen) *HomeScreen {
	h := &HomeScreen{svc: svc, identity: identity, loginFactory: loginFactory}

	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: build()} }
		}
	}

	items := []components.MenuItem{
		{Label: "Study chat", Hint: "ask questions about your materials", Action: push(func() screen.Screen {
			return chat.New(svc, identity, assistant.ModeStudy)
		})},
		{Label: "Quiz me", Hint: "test yourself on your materials", Action: push(func() screen.Screen {
			return chat.New(svc, identity, assistant.ModeQuiz)
		})},
		{Label: "Profile", Hint: "accuracy and weak topics", Disabled: identity.Guest(), Action: push(func() screen.Screen {
			return profilescreen.New(svc, identity)
		})},
		{Label: "Sources", Hint: "upload and remove study files", Action: push(func() screen.Screen {
			return sourcesscreen.New(svc)
		})},
		{Label: "History", Hint: "past chats and quizzes", Action: push(func() screen.Screen {
			return historyscreen.New(svc.History)
		})},
		{Label: "Sign out", Action: h.signOut},
		{Label: "Exit", Action: func() tea.Cmd { return tea.Quit }},
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) signOut() tea.Cmd {
	repo, log := h.svc.Identity, h.svc.Logger()
	return func() tea.Msg {
		if repo == nil {
			return signedOutMsg{}
		}
		err := repo.Clear(context.Background())
		if err != nil {
			log.Warn("clear identity", zap.Error(err))
		}
		return signedOutMsg{Err: err}
	}
}

// OpenOnStart makes Init push s over the menu.
func (h *HomeScreen) OpenOnStart(s screen.Screen) {
	h.openOnStart = s
}

func (h *HomeScreen) Init() tea.Cmd {
	if s := h.openOnStart; s != nil {
		h.openOnStart = nil
		return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
	}
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(signedOutMsg); ok {
		if msg.Err != nil {
			h.errText = "Could not sign out: " + msg.Err.Error()
			return h, nil
		}
		next := h.loginFactory()
		return h, tea.Batch(
			func() tea.Msg { return services.IdentityChangedMsg{Identity: store.Identity{UserID: store.GuestUserID}} },
			func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} },
		)
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactWidth(width) || height < 24
	cw := contentWidth(width)

	title := titleFull
	if compact {
		title = titleCompact
	}
	sections := []string{
		lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
			Render(theme.Title.Render(title)),
		lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
			Render(theme.Subtitle.Render(h.greeting())),
		theme.Card.Width(cw).Render(strings.TrimRight(h.menu.View(), "\n")),
	}
	if h.errText != "" {
		sections = append(sections, theme.ErrorText.Render(h.errText))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n\n"))
}

func (h *HomeScreen) greeting() string {
	if h.identity.Guest() || h.identity.Username == "" {
		return "Studying as guest. Sign in to track your progress."
	}
	return fmt.Sprintf("Welcome back, %s!", h.identity.Username)
}

// contentWidth is the shared width of the home sections.
func contentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 56)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
