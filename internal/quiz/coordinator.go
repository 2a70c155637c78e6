package quiz

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/transcript"
)

var (
	// ErrSuperseded is returned when a response arrives for a flow that was
	// reset or replaced while the request was in flight. The response is dropped.
	ErrSuperseded = errors.New("quiz flow superseded")

	// ErrNoOpenQuestion is returned when an answer is given with no question open.
	ErrNoOpenQuestion = errors.New("no open question")

	// ErrInvalidOption is returned for an option index outside the question's options.
	ErrInvalidOption = errors.New("invalid option")
)

// API is the subset of the study-assistant API the coordinator needs.
type API interface {
	CreateQuiz(ctx context.Context, req api.CreateQuizRequest) (*api.CreateQuizResponse, error)
	StartQuiz(ctx context.Context, quizID, userID string) (*api.Question, error)
	SubmitAnswer(ctx context.Context, req api.AnswerRequest) (*api.AnswerResponse, error)
}

// Transcript receives the coordinator's output.
type Transcript interface {
	Append(e transcript.Entry) string
}

// Config holds the fixed quiz creation parameters.
type Config struct {
	NumQuestions int
	Language     string
}

// Coordinator drives one quiz at a time against the API and writes
// questions, feedback and the final score into the transcript.
//
// All methods are safe for concurrent use. The mutex is never held across
// a network call; every continuation checks the generation it was started
// under and is dropped if a Reset or a newer StartQuiz happened meanwhile.
type Coordinator struct {
	api API
	tr  Transcript
	cfg Config
	log *zap.Logger

	mu          sync.Mutex
	state       State
	session     Session
	current     *Question
	open        string // ID of the question awaiting an answer
	freeTextFor string // ID of the open free-text question
	userID      string
	generation  uint64
}

// New creates an idle Coordinator.
func New(a API, tr Transcript, cfg Config, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{
		api: a,
		tr:  tr,
		cfg: cfg,
		log: log.Named("quiz"),
	}
}

// Ticket identifies one quiz start. It is issued by BeginStart and redeemed
// by CompleteStart; a Reset in between invalidates it.
type Ticket struct {
	generation uint64
	userID     string
}

// StartQuiz creates a quiz and presents its first question to userID.
// It is a no-op while a previous start is still in flight.
func (c *Coordinator) StartQuiz(ctx context.Context, userID string) error {
	t, ok := c.BeginStart(userID)
	if !ok {
		return nil
	}
	return c.CompleteStart(ctx, t)
}

// BeginStart abandons any current quiz and claims a new start for userID
// without touching the network. It reports false while a previous start is
// still in flight. Callers that dispatch the network part asynchronously
// call BeginStart on their own goroutine so starts and resets keep the
// order in which the user issued them.
func (c *Coordinator) BeginStart(userID string) (Ticket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateStarting {
		c.log.Debug("start ignored, already starting")
		return Ticket{}, false
	}
	c.resetLocked()
	c.state = StateStarting
	c.userID = userID
	c.tr.Append(transcript.Entry{Role: transcript.RoleSystem, Text: msgCreating})
	return Ticket{generation: c.generation, userID: userID}, true
}

// CompleteStart creates the quiz claimed by t and presents its first
// question. It returns ErrSuperseded, without any request or transcript
// change, if the ticket was invalidated.
func (c *Coordinator) CompleteStart(ctx context.Context, t Ticket) error {
	gen := t.generation

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return ErrSuperseded
	}
	c.mu.Unlock()

	created, err := c.api.CreateQuiz(ctx, api.CreateQuizRequest{
		NumQuestions: c.cfg.NumQuestions,
		Language:     c.cfg.Language,
	})

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.log.Debug("dropping stale create response", zap.Uint64("generation", gen))
		return ErrSuperseded
	}
	if err == nil && created == nil {
		err = &api.ErrInvalidResponse{Err: errors.New("empty quiz")}
	}
	if err != nil {
		c.failStartLocked(err)
		c.mu.Unlock()
		return err
	}
	c.session = Session{
		QuizID:         created.QuizID,
		TotalQuestions: created.TotalQuestions,
		Active:         true,
	}
	quizID := created.QuizID
	c.tr.Append(transcript.Entry{Role: transcript.RoleAssistant, Text: msgQuizReady(created.TotalQuestions)})
	c.log.Info("quiz created", zap.String("quiz_id", quizID), zap.Int("total", created.TotalQuestions))
	c.mu.Unlock()

	first, err := c.api.StartQuiz(ctx, quizID, t.userID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		c.log.Debug("dropping stale start response", zap.Uint64("generation", gen))
		return ErrSuperseded
	}
	if err == nil {
		err = checkQuestion(first)
	}
	if err != nil {
		c.failStartLocked(err)
		return err
	}
	c.presentLocked(questionFromAPI(first))
	return nil
}

// SelectOption answers the open multiple-choice question with the option
// at index. The option text is echoed to the transcript and submitted.
func (c *Coordinator) SelectOption(ctx context.Context, index int) error {
	c.mu.Lock()
	if c.state != StateAwaitingAnswer || c.open == "" || c.current == nil || !c.current.MultipleChoice() {
		c.mu.Unlock()
		return ErrNoOpenQuestion
	}
	if index < 0 || index >= len(c.current.Options) {
		c.mu.Unlock()
		return ErrInvalidOption
	}
	label := c.current.Options[index]
	sub, gen := c.beginSubmitLocked(label)
	c.mu.Unlock()

	return c.finishSubmit(ctx, sub, gen)
}

// SubmitAnswer answers the open question with text. The text is echoed to
// the transcript. Each open question accepts exactly one submission.
func (c *Coordinator) SubmitAnswer(ctx context.Context, text string) error {
	c.mu.Lock()
	if c.state != StateAwaitingAnswer || c.open == "" {
		c.mu.Unlock()
		return ErrNoOpenQuestion
	}
	sub, gen := c.beginSubmitLocked(text)
	c.mu.Unlock()

	return c.finishSubmit(ctx, sub, gen)
}

// Reset abandons the current quiz. Requests still in flight are left to
// finish but their responses are discarded.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

// State returns the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns a copy of the current session.
func (c *Coordinator) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// CurrentQuestion returns the most recently presented question, if any.
func (c *Coordinator) CurrentQuestion() (Question, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Question{}, false
	}
	q := *c.current
	q.Options = append([]string(nil), c.current.Options...)
	return q, true
}

// OpenQuestion returns the ID of the question awaiting an answer, or "".
func (c *Coordinator) OpenQuestion() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// AwaitingFreeText reports whether the next text submission should be
// routed as the answer to an open free-text question, and which one.
func (c *Coordinator) AwaitingFreeText() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.freeTextFor, c.freeTextFor != ""
}

func (c *Coordinator) resetLocked() {
	c.generation++
	c.state = StateIdle
	c.session = Session{}
	c.current = nil
	c.open = ""
	c.freeTextFor = ""
}

func (c *Coordinator) failStartLocked(err error) {
	c.log.Warn("quiz start failed", zap.Error(err))
	c.tr.Append(transcript.Entry{
		Role: transcript.RoleSystem,
		Kind: transcript.KindError,
		Text: msgStartFailed(api.Describe(err)),
	})
	c.state = StateIdle
	c.session = Session{}
}

func (c *Coordinator) presentLocked(q Question) {
	c.current = &q
	c.open = q.ID
	c.state = StateAwaitingAnswer

	prompt := q.Prompt
	if prompt == "" {
		prompt = msgNoPrompt
	}
	c.tr.Append(transcript.Entry{
		Role:    transcript.RoleAssistant,
		Kind:    transcript.KindQuestion,
		Text:    prompt,
		Options: q.Options,
	})

	if q.MultipleChoice() {
		c.freeTextFor = ""
		c.tr.Append(transcript.Entry{Role: transcript.RoleSystem, Text: msgChoiceHint})
	} else {
		c.freeTextFor = q.ID
		c.tr.Append(transcript.Entry{Role: transcript.RoleSystem, Text: msgFreeTextHint})
	}
}

// beginSubmitLocked closes the open question and returns the submission
// to send together with the generation it belongs to.
func (c *Coordinator) beginSubmitLocked(text string) (Submission, uint64) {
	sub := Submission{
		QuizID:     c.session.QuizID,
		QuestionID: c.open,
		UserID:     c.userID,
		AnswerText: text,
	}
	c.tr.Append(transcript.Entry{Role: transcript.RoleUser, Text: text})
	c.open = ""
	c.freeTextFor = ""
	c.state = StateGrading
	return sub, c.generation
}

func (c *Coordinator) finishSubmit(ctx context.Context, sub Submission, gen uint64) error {
	res, err := c.api.SubmitAnswer(ctx, sub.request())

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.log.Debug("dropping stale answer response", zap.String("question_id", sub.QuestionID))
		return ErrSuperseded
	}
	if err == nil && res == nil {
		err = &api.ErrInvalidResponse{Err: errors.New("empty answer result")}
	}
	if err != nil {
		c.log.Warn("answer submission failed", zap.String("question_id", sub.QuestionID), zap.Error(err))
		c.tr.Append(transcript.Entry{
			Role: transcript.RoleSystem,
			Kind: transcript.KindError,
			Text: msgAnswerFailed(api.Describe(err)),
		})
		// Reopen the question so the user can try again.
		c.open = sub.QuestionID
		if c.current != nil && !c.current.MultipleChoice() {
			c.freeTextFor = sub.QuestionID
		}
		c.state = StateAwaitingAnswer
		return err
	}

	c.applyResultLocked(res)
	return nil
}

func (c *Coordinator) applyResultLocked(res *api.AnswerResponse) {
	c.session.Answered++

	feedback := res.Feedback
	if feedback == "" {
		if res.Correct {
			feedback = msgCorrect
		} else {
			feedback = msgIncorrect
		}
	}
	correct := res.Correct
	c.tr.Append(transcript.Entry{
		Role:    transcript.RoleAssistant,
		Kind:    transcript.KindFeedback,
		Text:    feedback,
		Correct: &correct,
	})

	switch {
	case res.NextQuestion != nil:
		if err := checkQuestion(res.NextQuestion); err != nil {
			// Nothing could answer a question without an ID.
			c.log.Warn("next question rejected", zap.String("quiz_id", c.session.QuizID), zap.Error(err))
			c.tr.Append(transcript.Entry{
				Role: transcript.RoleSystem,
				Kind: transcript.KindError,
				Text: msgContinueFailed(api.Describe(err)),
			})
			c.finishLocked()
			return
		}
		c.presentLocked(questionFromAPI(res.NextQuestion))
	case res.Summary != nil:
		c.tr.Append(transcript.Entry{
			Role: transcript.RoleAssistant,
			Kind: transcript.KindSummary,
			Text: msgFinished(res.Summary.Correct, res.Summary.Total),
		})
		c.log.Info("quiz finished",
			zap.String("quiz_id", c.session.QuizID),
			zap.Int("correct", res.Summary.Correct),
			zap.Int("total", res.Summary.Total))
		c.finishLocked()
	default:
		// Neither a next question nor a summary: end the session rather
		// than leave a question-less quiz open.
		c.log.Warn("answer result without next question or summary", zap.String("quiz_id", c.session.QuizID))
		c.tr.Append(transcript.Entry{
			Role: transcript.RoleSystem,
			Kind: transcript.KindSummary,
			Text: msgEndedNoResult,
		})
		c.finishLocked()
	}
}

// checkQuestion rejects questions that cannot be answered.
func checkQuestion(q *api.Question) error {
	if q == nil {
		return &api.ErrInvalidResponse{Err: errors.New("empty question")}
	}
	if q.ID == "" {
		return &api.ErrInvalidResponse{Err: errors.New("question without id")}
	}
	return nil
}

func (c *Coordinator) finishLocked() {
	c.state = StateFinished
	c.session = Session{}
	c.current = nil
	c.open = ""
	c.freeTextFor = ""
}
