package api

// CreateQuizRequest is the body of POST /quiz/create.
type CreateQuizRequest struct {
	NumQuestions int    `json:"num_questions"`
	Language     string `json:"language"`
}

// CreateQuizResponse identifies a freshly generated quiz.
type CreateQuizResponse struct {
	QuizID         string `json:"quiz_id"`
	TotalQuestions int    `json:"total_questions"`
}

// Question is a single quiz question as served by the API.
// Options is empty for free-text questions.
type Question struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Type     string   `json:"type,omitempty"`
	Options  []string `json:"options,omitempty"`
}

// AnswerRequest is the body of POST /quiz/answer.
type AnswerRequest struct {
	QuizID     string `json:"quiz_id"`
	QuestionID string `json:"question_id"`
	UserID     string `json:"user_id"`
	UserAnswer string `json:"user_answer"`
}

// AnswerResponse carries the grading of one answer and what comes next.
// The API does not guarantee that exactly one of NextQuestion and Summary is set.
type AnswerResponse struct {
	Correct      bool      `json:"correct"`
	Feedback     string    `json:"feedback"`
	Score        float64   `json:"score"`
	NextQuestion *Question `json:"next_question"`
	Summary      *Summary  `json:"summary"`
}

// Summary is the final tally of a finished quiz.
type Summary struct {
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Score   float64 `json:"score,omitempty"`
}

// ChatRequest is the body of POST /chat/.
type ChatRequest struct {
	Query    string `json:"query"`
	Language string `json:"language"`
}

// ChatResponse holds the assistant's answer grounded on uploaded sources.
type ChatResponse struct {
	Answer string `json:"answer"`
}

// FileList is returned by GET /chat/files.
type FileList struct {
	Files []string `json:"files"`
}

// UploadResponse is returned by POST /chat/files.
type UploadResponse struct {
	Message     string `json:"message"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	TextPreview string `json:"text_preview"`
}

// MessageResponse is the generic acknowledgement body of delete endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterRequest is the body of POST /users/register.
type RegisterRequest struct {
	Name string `json:"name"`
}

// RegisterResponse carries the server-assigned user id.
type RegisterResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// WeakTopicsResponse is returned by GET /users/weak_topics/{user_id}.
// Every field is optional; callers render defaults for missing data.
type WeakTopicsResponse struct {
	UserID     string          `json:"user_id"`
	WeakTopics []string        `json:"weak_topics"`
	Summary    *ProfileSummary `json:"summary"`
	User       *UserProfile    `json:"user"`
}

// ProfileSummary aggregates a user's quiz attempts.
type ProfileSummary struct {
	Attempts int     `json:"attempts"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// UserProfile describes a registered user and their per-topic stats.
type UserProfile struct {
	UserID string      `json:"user_id"`
	Name   string      `json:"name"`
	Joined string      `json:"joined"`
	Topics []TopicStat `json:"topics"`
}

// TopicStat is the accuracy on one topic.
type TopicStat struct {
	Topic    string  `json:"topic"`
	Attempts int     `json:"attempts"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}
