// Package assistant routes the chat input between study questions and the
// quiz coordinator, and owns the study/quiz mode.
package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/quiz"
	"github.com/abhisek/studymate/internal/transcript"
)

// Mode selects how free input is interpreted.
type Mode int

const (
	ModeStudy Mode = iota
	ModeQuiz
)

func (m Mode) String() string {
	if m == ModeQuiz {
		return "quiz"
	}
	return "study"
}

// Transcript texts written by the assistant.
const (
	msgStudyMode   = "Switched to Study mode — ask me anything about your materials!"
	msgQuizMode    = "Switched to Quiz mode — I'll test your knowledge!"
	msgThinking    = "Thinking..."
	msgNoResponse  = "No response"
	msgQuizWaiting = "The quiz is waiting for you. Pick an option, or switch to Study mode to ask questions."
)

// ChatAPI answers study questions.
type ChatAPI interface {
	Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
}

// Quiz is the part of the quiz coordinator the assistant drives.
type Quiz interface {
	BeginStart(userID string) (quiz.Ticket, bool)
	CompleteStart(ctx context.Context, t quiz.Ticket) error
	SubmitAnswer(ctx context.Context, text string) error
	SelectOption(ctx context.Context, index int) error
	AwaitingFreeText() (string, bool)
	OpenQuestion() string
	Reset()
}

// Assistant is the single input handler behind the chat screen.
type Assistant struct {
	chat     ChatAPI
	quiz     Quiz
	tr       *transcript.Log
	language string
	log      *zap.Logger

	mu   sync.Mutex
	mode Mode
}

// New creates an Assistant in study mode.
func New(chat ChatAPI, q Quiz, tr *transcript.Log, language string, log *zap.Logger) *Assistant {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assistant{
		chat:     chat,
		quiz:     q,
		tr:       tr,
		language: language,
		log:      log.Named("assistant"),
	}
}

// Mode returns the current mode.
func (a *Assistant) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// SwitchMode announces the new mode in the transcript. Entering quiz mode
// starts a quiz once; entering study mode abandons any running quiz.
// Switching to the current mode is a no-op.
func (a *Assistant) SwitchMode(ctx context.Context, mode Mode, userID string) error {
	t, start := a.SetMode(mode, userID)
	if !start {
		return nil
	}
	return a.CompleteStart(ctx, t)
}

// SetMode is the synchronous half of SwitchMode. When it reports true the
// returned ticket must be passed to CompleteStart to fetch the quiz; a
// later SetMode invalidates it.
func (a *Assistant) SetMode(mode Mode, userID string) (quiz.Ticket, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode == mode {
		return quiz.Ticket{}, false
	}
	a.mode = mode
	a.log.Debug("mode switched", zap.Stringer("mode", mode))

	if mode == ModeStudy {
		a.quiz.Reset()
		a.tr.Say(transcript.RoleAssistant, msgStudyMode)
		return quiz.Ticket{}, false
	}

	a.tr.Say(transcript.RoleAssistant, msgQuizMode)
	return a.quiz.BeginStart(userID)
}

// CompleteStart runs the network part of a quiz start. A start that was
// superseded by a later mode switch is not an error.
func (a *Assistant) CompleteStart(ctx context.Context, t quiz.Ticket) error {
	err := a.quiz.CompleteStart(ctx, t)
	if errors.Is(err, quiz.ErrSuperseded) {
		return nil
	}
	return err
}

// Submit handles one line from the shared input. Blank input is ignored.
// An open free-text question takes the next submission. While a
// multiple-choice question is open in quiz mode the text is refused with a
// hint; otherwise it goes to chat.
func (a *Assistant) Submit(ctx context.Context, text, userID string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if _, ok := a.quiz.AwaitingFreeText(); ok {
		err := a.quiz.SubmitAnswer(ctx, text)
		if errors.Is(err, quiz.ErrSuperseded) {
			return nil
		}
		return err
	}

	if a.Mode() == ModeQuiz && a.quiz.OpenQuestion() != "" {
		a.tr.Say(transcript.RoleSystem, msgQuizWaiting)
		return nil
	}

	return a.ask(ctx, text)
}

// SelectOption forwards an option pick to the quiz.
func (a *Assistant) SelectOption(ctx context.Context, index int) error {
	err := a.quiz.SelectOption(ctx, index)
	if errors.Is(err, quiz.ErrSuperseded) {
		return nil
	}
	return err
}

func (a *Assistant) ask(ctx context.Context, query string) error {
	a.tr.Say(transcript.RoleUser, query)
	id := a.tr.Append(transcript.Entry{
		Role: transcript.RoleAssistant,
		Kind: transcript.KindPlaceholder,
		Text: msgThinking,
	})

	resp, err := a.chat.Chat(ctx, api.ChatRequest{Query: query, Language: a.language})
	if err != nil {
		a.log.Warn("chat failed", zap.Error(err))
		a.tr.Resolve(id, transcript.KindError, api.Describe(err))
		return err
	}

	answer := resp.Answer
	if answer == "" {
		answer = msgNoResponse
	}
	a.tr.Resolve(id, transcript.KindMessage, answer)
	return nil
}
