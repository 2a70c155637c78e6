// Package app wires the screens into the root Bubble Tea model.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/assistant"
	"github.com/abhisek/studymate/internal/router"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/screens/chat"
	"github.com/abhisek/studymate/internal/screens/home"
	"github.com/abhisek/studymate/internal/screens/login"
	"github.com/abhisek/studymate/internal/services"
	"github.com/abhisek/studymate/internal/store"
	"github.com/abhisek/studymate/internal/ui/layout"
)

// Options selects the first screen.
type Options struct {
	// ForceLogin shows the sign-in screen even when an identity is stored.
	ForceLogin bool
	// StartQuiz opens a quiz chat on top of home, after sign-in when the
	// app starts at the login screen.
	StartQuiz bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router   *router.Router
	svc      *services.Services
	identity store.Identity
	initCmd  tea.Cmd
	width    int
	height   int
}

// newAppModel creates an AppModel starting at login for new users and at
// home for known ones.
func newAppModel(svc *services.Services, identity store.Identity, opts Options) AppModel {
	known := identity.UserID != "" && !identity.Guest()
	startAtHome := known && !opts.ForceLogin
	// A quiz requested before sign-in opens once login hands over to home.
	quizAfterLogin := opts.StartQuiz && !startAtHome

	var homeFor func(store.Identity) screen.Screen
	loginFn := func() screen.Screen { return login.New(svc, homeFor) }
	homeFor = func(id store.Identity) screen.Screen {
		h := home.New(svc, id, loginFn)
		if quizAfterLogin {
			quizAfterLogin = false
			h.OpenOnStart(chat.New(svc, id, assistant.ModeQuiz))
		}
		return h
	}

	var first screen.Screen
	if startAtHome {
		first = homeFor(identity)
	} else {
		first = loginFn()
	}

	r := router.New(first)
	cmds := []tea.Cmd{first.Init()}
	if startAtHome && opts.StartQuiz {
		cmds = append(cmds, r.Push(chat.New(svc, identity, assistant.ModeQuiz)))
	}

	return AppModel{
		router:   r,
		svc:      svc,
		identity: identity,
		initCmd:  tea.Batch(cmds...),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.initCmd
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case services.IdentityChangedMsg:
		m.identity = msg.Identity
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.HeaderStatusProvider); ok {
			status = sp.HeaderStatus()
		}
	}

	header := layout.RenderHeader(title, m.identity.Username, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(svc *services.Services, identity store.Identity, opts Options) error {
	p := tea.NewProgram(newAppModel(svc, identity, opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
