package api

import (
	"context"
	"sync"
)

// MockResult is a canned outcome for one MockClient call.
type MockResult[T any] struct {
	Value *T
	Err   error
}

// MockClient is a deterministic stand-in for Client in tests. Each endpoint
// returns its canned results in FIFO order and every request is recorded.
// An exhausted queue yields ErrUnavailable.
type MockClient struct {
	mu sync.Mutex

	CreateResults   []MockResult[CreateQuizResponse]
	StartResults    []MockResult[Question]
	AnswerResults   []MockResult[AnswerResponse]
	ChatResults     []MockResult[ChatResponse]
	ListResults     []MockResult[FileList]
	UploadResults   []MockResult[UploadResponse]
	DeleteResults   []MockResult[MessageResponse]
	RegisterResults []MockResult[RegisterResponse]
	ProfileResults  []MockResult[WeakTopicsResponse]

	CreateCalls   []CreateQuizRequest
	StartCalls    []StartCall
	AnswerCalls   []AnswerRequest
	ChatCalls     []ChatRequest
	UploadCalls   []string
	DeleteCalls   []string
	RegisterCalls []string
	ProfileCalls  []string
}

// StartCall records the arguments of a StartQuiz call.
type StartCall struct {
	QuizID string
	UserID string
}

func next[T any](q *[]MockResult[T]) (*T, error) {
	if len(*q) == 0 {
		return nil, &ErrUnavailable{}
	}
	r := (*q)[0]
	*q = (*q)[1:]
	if r.Err != nil {
		return nil, r.Err
	}
	if r.Value == nil {
		return new(T), nil
	}
	v := *r.Value
	return &v, nil
}

func (m *MockClient) CreateQuiz(_ context.Context, req CreateQuizRequest) (*CreateQuizResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, req)
	return next(&m.CreateResults)
}

func (m *MockClient) StartQuiz(_ context.Context, quizID, userID string) (*Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartCalls = append(m.StartCalls, StartCall{QuizID: quizID, UserID: userID})
	return next(&m.StartResults)
}

func (m *MockClient) SubmitAnswer(_ context.Context, req AnswerRequest) (*AnswerResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnswerCalls = append(m.AnswerCalls, req)
	return next(&m.AnswerResults)
}

func (m *MockClient) Chat(_ context.Context, req ChatRequest) (*ChatResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatCalls = append(m.ChatCalls, req)
	return next(&m.ChatResults)
}

func (m *MockClient) ListFiles(_ context.Context) (*FileList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return next(&m.ListResults)
}

func (m *MockClient) UploadFile(_ context.Context, path string) (*UploadResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UploadCalls = append(m.UploadCalls, path)
	return next(&m.UploadResults)
}

func (m *MockClient) DeleteFile(_ context.Context, name string) (*MessageResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, name)
	return next(&m.DeleteResults)
}

func (m *MockClient) DeleteAllFiles(_ context.Context) (*MessageResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, "*")
	return next(&m.DeleteResults)
}

func (m *MockClient) Register(_ context.Context, name string) (*RegisterResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RegisterCalls = append(m.RegisterCalls, name)
	return next(&m.RegisterResults)
}

func (m *MockClient) WeakTopics(_ context.Context, userID string) (*WeakTopicsResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProfileCalls = append(m.ProfileCalls, userID)
	return next(&m.ProfileResults)
}

// AnswerCount returns the number of SubmitAnswer calls made.
func (m *MockClient) AnswerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.AnswerCalls)
}

// CreateCount returns the number of CreateQuiz calls made.
func (m *MockClient) CreateCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.CreateCalls)
}
