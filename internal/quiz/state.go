package quiz

import "github.com/abhisek/studymate/internal/api"

// State is the coordinator's position in the quiz flow.
type State int

const (
	StateIdle           State = iota // No quiz running
	StateStarting                    // Create + first question in flight
	StateAwaitingAnswer              // A question is open
	StateGrading                     // An answer is in flight
	StateFinished                    // Summary received; a new quiz may start
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateAwaitingAnswer:
		return "awaiting-answer"
	case StateGrading:
		return "grading"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Session is the client-side view of one server quiz.
type Session struct {
	QuizID         string
	TotalQuestions int
	Answered       int
	Active         bool
}

// Question is a quiz question. It is multiple-choice when Options is
// non-empty and free-text otherwise.
type Question struct {
	ID      string
	Prompt  string
	Options []string
}

// MultipleChoice reports whether the question offers discrete options.
func (q Question) MultipleChoice() bool {
	return len(q.Options) > 0
}

// Submission is one answer bound for the API.
type Submission struct {
	QuizID     string
	QuestionID string
	UserID     string
	AnswerText string
}

func (s Submission) request() api.AnswerRequest {
	return api.AnswerRequest{
		QuizID:     s.QuizID,
		QuestionID: s.QuestionID,
		UserID:     s.UserID,
		UserAnswer: s.AnswerText,
	}
}

func questionFromAPI(q *api.Question) Question {
	return Question{
		ID:      q.ID,
		Prompt:  q.Question,
		Options: append([]string(nil), q.Options...),
	}
}
