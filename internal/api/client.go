package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/studymate/internal/config"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

// Client talks to the study-assistant HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	strict  bool
	log     *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger used for request logging.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithStrict enables schema validation of response bodies.
func WithStrict(strict bool) Option {
	return func(c *Client) { c.strict = strict }
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig creates a Client from the API section of the config.
func NewFromConfig(cfg config.APIConfig, log *zap.Logger) *Client {
	return New(cfg.BaseURL, cfg.Timeout, WithLogger(log), WithStrict(cfg.Strict))
}

// BaseURL returns the API root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateQuiz asks the API to generate a quiz from the uploaded sources.
func (c *Client) CreateQuiz(ctx context.Context, req CreateQuizRequest) (*CreateQuizResponse, error) {
	var out CreateQuizResponse
	if err := c.doJSON(ctx, http.MethodPost, "/quiz/create", nil, req, &out, schemaCreateQuiz); err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}
	return &out, nil
}

// StartQuiz fetches the first question of quizID for userID.
func (c *Client) StartQuiz(ctx context.Context, quizID, userID string) (*Question, error) {
	path := "/quiz/" + url.PathEscape(quizID) + "/start"
	query := url.Values{"user_id": {userID}}

	var out Question
	if err := c.doJSON(ctx, http.MethodGet, path, query, nil, &out, schemaQuestion); err != nil {
		return nil, fmt.Errorf("start quiz: %w", err)
	}
	return &out, nil
}

// SubmitAnswer sends one answer and returns its grading.
func (c *Client) SubmitAnswer(ctx context.Context, req AnswerRequest) (*AnswerResponse, error) {
	var out AnswerResponse
	if err := c.doJSON(ctx, http.MethodPost, "/quiz/answer", nil, req, &out, schemaAnswer); err != nil {
		return nil, fmt.Errorf("submit answer: %w", err)
	}
	return &out, nil
}

// Chat asks a free-form question about the uploaded sources.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var out ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/chat/", nil, req, &out, schemaChat); err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}
	return &out, nil
}

// ListFiles returns the names of uploaded source documents.
func (c *Client) ListFiles(ctx context.Context) (*FileList, error) {
	var out FileList
	if err := c.doJSON(ctx, http.MethodGet, "/chat/files", nil, nil, &out, schemaFileList); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return &out, nil
}

// UploadFile uploads the file at path as a new source document.
func (c *Client) UploadFile(ctx context.Context, path string) (*UploadResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("upload file: read %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}

	var out UploadResponse
	if err := c.do(ctx, http.MethodPost, "/chat/files", nil, &buf, mw.FormDataContentType(), &out, ""); err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}
	return &out, nil
}

// DeleteFile removes one uploaded source document by name.
func (c *Client) DeleteFile(ctx context.Context, name string) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.doJSON(ctx, http.MethodDelete, "/chat/files/"+url.PathEscape(name), nil, nil, &out, ""); err != nil {
		return nil, fmt.Errorf("delete file: %w", err)
	}
	return &out, nil
}

// DeleteAllFiles removes every uploaded source document.
func (c *Client) DeleteAllFiles(ctx context.Context) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.doJSON(ctx, http.MethodDelete, "/chat/files", nil, nil, &out, ""); err != nil {
		return nil, fmt.Errorf("delete all files: %w", err)
	}
	return &out, nil
}

// Register gets or creates the user called name.
func (c *Client) Register(ctx context.Context, name string) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.doJSON(ctx, http.MethodPost, "/users/register", nil, RegisterRequest{Name: name}, &out, schemaRegister); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &out, nil
}

// WeakTopics fetches the profile and topic accuracy summary for userID.
func (c *Client) WeakTopics(ctx context.Context, userID string) (*WeakTopicsResponse, error) {
	var out WeakTopicsResponse
	path := "/users/weak_topics/" + url.PathEscape(userID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &out, ""); err != nil {
		return nil, fmt.Errorf("weak topics: %w", err)
	}
	return &out, nil
}

// doJSON sends body (if non-nil) as JSON and decodes the response into out.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any, schema string) error {
	var r io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, query, r, contentType, out, schema)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any, schema string) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err))
		if errors.Is(err, context.Canceled) {
			return err
		}
		return &ErrUnavailable{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &ErrUnavailable{Err: fmt.Errorf("read body: %w", err)}
	}

	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ErrStatus{Code: resp.StatusCode, Detail: errorDetail(raw)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if c.strict && schema != "" {
		if err := validateResponse(schema, raw); err != nil {
			return err
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}
	return nil
}

// errorDetail extracts the server's error message from a failure body.
// The API reports errors as {"detail": "..."}; anything else is returned
// as trimmed text.
func errorDetail(raw []byte) string {
	var body struct {
		Detail any    `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		switch d := body.Detail.(type) {
		case string:
			return d
		case nil:
		default:
			if b, err := json.Marshal(d); err == nil {
				return string(b)
			}
		}
		if body.Error != "" {
			return body.Error
		}
		return ""
	}
	text := strings.TrimSpace(string(raw))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
