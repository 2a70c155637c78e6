package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://127.0.0.1:8000", cfg.API.BaseURL)
	assert.Equal(t, 5, cfg.Quiz.NumQuestions)
	assert.Equal(t, "en", cfg.Quiz.Language)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "studymate.yaml")
	content := `api:
  base_url: http://study.example:9000/
  timeout: 5s
  strict: true
quiz:
  num_questions: 8
  language: uk
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://study.example:9000", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.True(t, cfg.API.Strict)
	assert.Equal(t, 8, cfg.Quiz.NumQuestions)
	assert.Equal(t, "uk", cfg.Quiz.Language)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "studymate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quiz:\n  num_questions: 3\n"), 0o644))

	t.Setenv("STUDYMATE_QUIZ_NUM_QUESTIONS", "12")
	t.Setenv("STUDYMATE_API_BASE_URL", "http://env.example")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Quiz.NumQuestions)
	assert.Equal(t, "http://env.example", cfg.API.BaseURL)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }},
		{"zero questions", func(c *Config) { c.Quiz.NumQuestions = 0 }},
		{"empty language", func(c *Config) { c.Quiz.Language = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
