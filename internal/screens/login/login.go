// Package login is the first screen: it asks for a name, registers it with
// the API and remembers the returned identity.
package login

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/router"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/services"
	"github.com/abhisek/studymate/internal/store"
	"github.com/abhisek/studymate/internal/ui/components"
	"github.com/abhisek/studymate/internal/ui/layout"
	"github.com/abhisek/studymate/internal/ui/theme"
)

const maxNameLen = 40

// registeredMsg carries the outcome of registration and identity save.
type registeredMsg struct {
	Identity store.Identity
	Err      error
}

// LoginScreen collects the user's name.
type LoginScreen struct {
	svc         *services.Services
	homeFactory func(store.Identity) screen.Screen

	input   components.TextInput
	busy    bool
	errText string
	done    bool
}

var _ screen.Screen = (*LoginScreen)(nil)

// New creates a LoginScreen that hands over to the screen produced by
// homeFactory once an identity is known.
func New(svc *services.Services, homeFactory func(store.Identity) screen.Screen) *LoginScreen {
	return &LoginScreen{
		svc:         svc,
		homeFactory: homeFactory,
		input:       components.NewTextInput("Your name", maxNameLen),
	}
}

func (l *LoginScreen) Title() string {
	return "Sign in"
}

func (l *LoginScreen) Init() tea.Cmd {
	return l.input.Init()
}

func (l *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case registeredMsg:
		l.busy = false
		l.input.Busy = false
		if msg.Err != nil {
			l.errText = api.Describe(msg.Err)
			return l, nil
		}
		return l, l.transition(msg.Identity)

	case tea.KeyPressMsg:
		if l.busy {
			return l, nil
		}
		switch msg.String() {
		case "enter":
			name := l.input.Value()
			if name == "" {
				l.errText = "Please enter your name."
				return l, nil
			}
			l.busy = true
			l.input.Busy = true
			l.errText = ""
			return l, l.registerCmd(name)
		case "tab":
			return l, l.transition(store.Identity{UserID: store.GuestUserID})
		}
	}

	var cmd tea.Cmd
	l.input, cmd = l.input.Update(msg)
	return l, cmd
}

func (l *LoginScreen) registerCmd(name string) tea.Cmd {
	svc := l.svc
	return func() tea.Msg {
		ctx := context.Background()
		resp, err := svc.API.Register(ctx, name)
		if err != nil {
			svc.Logger().Warn("register failed", zap.Error(err))
			return registeredMsg{Err: err}
		}
		id := store.Identity{UserID: resp.UserID, Username: name}
		if resp.Name != "" {
			id.Username = resp.Name
		}
		if svc.Identity != nil {
			if err := svc.Identity.Save(ctx, id); err != nil {
				return registeredMsg{Err: err}
			}
		}
		svc.Logger().Info("registered", zap.String("user_id", id.UserID))
		return registeredMsg{Identity: id}
	}
}

func (l *LoginScreen) transition(id store.Identity) tea.Cmd {
	if l.done {
		return nil
	}
	l.done = true
	next := l.homeFactory(id)
	return tea.Batch(
		func() tea.Msg { return services.IdentityChangedMsg{Identity: id} },
		func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} },
	)
}

func (l *LoginScreen) View(width, height int) string {
	sections := []string{
		RenderBanner(width),
		"",
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Your study assistant in the terminal"),
		"",
		theme.Body.Render("What should we call you?"),
		l.input.View(),
	}

	switch {
	case l.busy:
		sections = append(sections, "", theme.Hint.Render("Signing you in..."))
	case l.errText != "":
		sections = append(sections, "", theme.ErrorText.Render(l.errText))
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (l *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Sign in"},
		{Key: "Tab", Description: "Continue as guest"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
