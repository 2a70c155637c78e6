// Package chat is the study/quiz conversation screen: one transcript, one
// shared input, and an option picker for multiple-choice questions.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/studymate/internal/assistant"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/services"
	"github.com/abhisek/studymate/internal/store"
	"github.com/abhisek/studymate/internal/ui/components"
	"github.com/abhisek/studymate/internal/ui/layout"
	"github.com/abhisek/studymate/internal/ui/theme"
)

const refreshInterval = 150 * time.Millisecond

// ChatScreen hosts one conversation run.
type ChatScreen struct {
	conv     *services.Conversation
	identity store.Identity
	initial  assistant.Mode
	log      *zap.Logger

	input      components.TextInput
	options    components.OptionList
	optionsFor string // question the option list was built for
	viewport   viewport.Model

	pending   int  // assistant calls in flight
	inputBusy bool // a submission or option pick is in flight
	version   uint64
	contentW  int
}

var _ screen.Screen = (*ChatScreen)(nil)

// New creates a ChatScreen for identity, opening in mode.
func New(svc *services.Services, identity store.Identity, mode assistant.Mode) *ChatScreen {
	conv := svc.NewConversation()
	return &ChatScreen{
		conv:     conv,
		identity: identity,
		initial:  mode,
		log:      svc.Logger().Named("chat").With(zap.String("run_id", conv.RunID)),
		input:    components.NewTextInput("Ask about your materials...", 0),
		viewport: viewport.New(),
	}
}

// Conversation exposes the run behind the screen.
func (c *ChatScreen) Conversation() *services.Conversation {
	return c.conv
}

func (c *ChatScreen) Title() string {
	return "Chat"
}

// HeaderStatus shows the active mode in the header.
func (c *ChatScreen) HeaderStatus() string {
	if c.conv.Assistant.Mode() == assistant.ModeQuiz {
		return "Quiz mode"
	}
	return "Study mode"
}

func (c *ChatScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{c.input.Init()}
	if c.initial == assistant.ModeQuiz {
		cmds = append(cmds, c.setMode(assistant.ModeQuiz))
	}
	return tea.Batch(cmds...)
}

func (c *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case actionDoneMsg:
		c.pending--
		if c.pending < 0 {
			c.pending = 0
		}
		if msg.Input {
			c.inputBusy = false
		}
		if msg.Err != nil {
			c.log.Debug("assistant call failed", zap.Error(msg.Err))
		}
		c.sync()
		return c, nil

	case refreshTickMsg:
		c.sync()
		if c.pending > 0 {
			return c, tick()
		}
		return c, nil

	case tea.KeyPressMsg:
		return c, c.handleKey(msg)
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c *ChatScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "tab":
		next := assistant.ModeQuiz
		if c.conv.Assistant.Mode() == assistant.ModeQuiz {
			next = assistant.ModeStudy
		}
		return c.setMode(next)
	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		c.viewport, cmd = c.viewport.Update(msg)
		return cmd
	}

	if c.choosing() {
		var chosen bool
		c.options, chosen = c.options.Update(msg)
		if !chosen {
			return nil
		}
		idx := c.options.Chosen
		return c.dispatch(true, func(ctx context.Context) error {
			return c.conv.Assistant.SelectOption(ctx, idx)
		})
	}

	if msg.String() == "enter" {
		if c.inputBusy {
			return nil
		}
		text := c.input.Take()
		if text == "" {
			return nil
		}
		userID := c.identity.UserID
		return c.dispatch(true, func(ctx context.Context) error {
			return c.conv.Assistant.Submit(ctx, text, userID)
		})
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

// setMode switches mode on the UI goroutine so toggles apply in the order
// they were pressed; only the quiz fetch runs in the background.
func (c *ChatScreen) setMode(mode assistant.Mode) tea.Cmd {
	ticket, start := c.conv.Assistant.SetMode(mode, c.identity.UserID)
	c.sync()
	if !start {
		return nil
	}
	return c.dispatch(false, func(ctx context.Context) error {
		return c.conv.Assistant.CompleteStart(ctx, ticket)
	})
}

func (c *ChatScreen) dispatch(input bool, fn func(context.Context) error) tea.Cmd {
	c.pending++
	if input {
		c.inputBusy = true
	}
	c.input.Busy = c.inputBusy
	return tea.Batch(
		func() tea.Msg { return actionDoneMsg{Err: fn(context.Background()), Input: input} },
		tick(),
	)
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

// choosing reports whether keys go to the option list.
func (c *ChatScreen) choosing() bool {
	return c.optionsFor != "" && !c.options.Done() && !c.inputBusy &&
		c.conv.Quiz.OpenQuestion() == c.optionsFor
}

// sync pulls transcript and quiz state into the view.
func (c *ChatScreen) sync() {
	c.input.Busy = c.inputBusy

	open := c.conv.Quiz.OpenQuestion()
	q, ok := c.conv.Quiz.CurrentQuestion()
	switch {
	case ok && open == q.ID && q.MultipleChoice():
		// A new question, or the same one reopened after a failed submit.
		if c.optionsFor != q.ID || (c.options.Done() && !c.inputBusy) {
			c.options = components.NewOptionList(q.Options)
			c.optionsFor = q.ID
		}
	case open == "" && !c.inputBusy:
		c.optionsFor = ""
	case ok && open == q.ID && !q.MultipleChoice():
		c.optionsFor = ""
	}

	if v := c.conv.Transcript.Version(); v != c.version || c.contentW != c.viewport.Width() {
		c.version = v
		c.contentW = c.viewport.Width()
		c.viewport.SetContent(renderEntries(c.conv.Transcript.Entries(), c.contentW))
		c.viewport.GotoBottom()
	}
}

func (c *ChatScreen) View(width, height int) string {
	header := c.renderModeBar(width)

	var bottom string
	if c.choosing() || (c.optionsFor != "" && c.options.Done()) {
		bottom = c.options.View()
	} else {
		c.input.SetWidth(width - 6)
		bottom = c.input.View()
	}
	bottom = strings.TrimRight(bottom, "\n")

	vpHeight := height - lipgloss.Height(header) - lipgloss.Height(bottom) - 2
	if vpHeight < 3 {
		vpHeight = 3
	}
	c.viewport.SetWidth(width - 2)
	c.viewport.SetHeight(vpHeight)
	c.sync()

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		c.viewport.View(),
		"",
		bottom,
	)
}

func (c *ChatScreen) renderModeBar(width int) string {
	study, quiz := theme.ModeInactive, theme.ModeInactive
	if c.conv.Assistant.Mode() == assistant.ModeQuiz {
		quiz = theme.ModeActive
	} else {
		study = theme.ModeActive
	}
	bar := study.Render("Study") + " " + quiz.Render("Quiz")

	s := c.conv.Quiz.Session()
	if s.Active && s.TotalQuestions > 0 && !layout.IsCompactWidth(width) {
		bar += "   " + components.QuizProgress(s.Answered, s.TotalQuestions, 36).View()
	} else if s.Active {
		bar += "   " + theme.Hint.Render(fmt.Sprintf("%d/%d answered", s.Answered, s.TotalQuestions))
	}
	if c.pending > 0 {
		bar += "   " + theme.Hint.Render("working...")
	}
	return bar
}

func (c *ChatScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Tab", Description: "Study/Quiz"}}
	if c.choosing() {
		hints = append(hints,
			layout.KeyHint{Key: "1-9", Description: "Pick"},
			layout.KeyHint{Key: "↑↓ Enter", Description: "Choose"},
		)
	} else {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Send"})
	}
	return append(hints,
		layout.KeyHint{Key: "PgUp/PgDn", Description: "Scroll"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}
