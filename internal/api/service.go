package api

import "context"

// Service is the full study-assistant API surface. Client talks to the
// real server; MockClient stands in for it in tests.
type Service interface {
	CreateQuiz(ctx context.Context, req CreateQuizRequest) (*CreateQuizResponse, error)
	StartQuiz(ctx context.Context, quizID, userID string) (*Question, error)
	SubmitAnswer(ctx context.Context, req AnswerRequest) (*AnswerResponse, error)
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	ListFiles(ctx context.Context) (*FileList, error)
	UploadFile(ctx context.Context, path string) (*UploadResponse, error)
	DeleteFile(ctx context.Context, name string) (*MessageResponse, error)
	DeleteAllFiles(ctx context.Context) (*MessageResponse, error)
	Register(ctx context.Context, name string) (*RegisterResponse, error)
	WeakTopics(ctx context.Context, userID string) (*WeakTopicsResponse, error)
}

var (
	_ Service = (*Client)(nil)
	_ Service = (*MockClient)(nil)
)
