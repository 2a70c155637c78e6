// Package sources manages the study materials uploaded to the assistant.
package sources

import (
	"context"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/studymate/internal/api"
)

// DefaultParallelUploads bounds concurrent uploads in UploadAll.
const DefaultParallelUploads = 3

// API is the file endpoints of the study-assistant API.
type API interface {
	ListFiles(ctx context.Context) (*api.FileList, error)
	UploadFile(ctx context.Context, path string) (*api.UploadResponse, error)
	DeleteFile(ctx context.Context, name string) (*api.MessageResponse, error)
	DeleteAllFiles(ctx context.Context) (*api.MessageResponse, error)
}

// UploadResult is the outcome of uploading one file.
type UploadResult struct {
	Path    string
	Name    string
	Message string
	Err     error
}

// Manager lists, uploads and removes sources.
type Manager struct {
	api      API
	parallel int
	log      *zap.Logger
}

// New creates a Manager. parallel <= 0 uses DefaultParallelUploads.
func New(a API, parallel int, log *zap.Logger) *Manager {
	if parallel <= 0 {
		parallel = DefaultParallelUploads
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{api: a, parallel: parallel, log: log.Named("sources")}
}

// List returns the uploaded file names, sorted.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	resp, err := m.api.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	names := append([]string(nil), resp.Files...)
	sort.Strings(names)
	return names, nil
}

// UploadAll uploads every path with bounded concurrency. One failing file
// does not stop the others; each result carries its own error. Results are
// in the order of paths.
func (m *Manager) UploadAll(ctx context.Context, paths []string) []UploadResult {
	results := make([]UploadResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.parallel)
	for i, p := range paths {
		g.Go(func() error {
			res := UploadResult{Path: p, Name: filepath.Base(p)}
			resp, err := m.api.UploadFile(ctx, p)
			if err != nil {
				m.log.Warn("upload failed", zap.String("path", p), zap.Error(err))
				res.Err = err
			} else {
				m.log.Info("uploaded", zap.String("path", p), zap.String("type", resp.Type))
				res.Message = resp.Message
			}
			results[i] = res
			// Per-file errors are reported in results, not through the group.
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Delete removes one uploaded file by name.
func (m *Manager) Delete(ctx context.Context, name string) (string, error) {
	resp, err := m.api.DeleteFile(ctx, name)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Clear removes every uploaded file.
func (m *Manager) Clear(ctx context.Context) (string, error) {
	resp, err := m.api.DeleteAllFiles(ctx)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Failed counts results that carry an error.
func Failed(results []UploadResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
