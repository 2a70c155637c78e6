package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. STUDYMATE_API_BASE_URL.
const EnvPrefix = "STUDYMATE"

// Config holds all client configuration.
type Config struct {
	API  APIConfig
	Quiz QuizConfig
	Log  LogConfig
	DB   DBConfig
}

// APIConfig configures the study-assistant HTTP API client.
type APIConfig struct {
	// BaseURL is the root of the API, without trailing slash.
	BaseURL string

	// Timeout bounds a single HTTP request. Zero disables the timeout.
	Timeout time.Duration

	// Strict turns on response validation against the contract schemas.
	Strict bool
}

// QuizConfig holds the fixed quiz creation parameters.
type QuizConfig struct {
	NumQuestions int
	Language     string
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string // "debug" or "info"
	Env   string // "production" selects the JSON encoder
	File  string // empty means stderr
}

// DBConfig locates the local sqlite store.
type DBConfig struct {
	Path string // empty means the default XDG location
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://127.0.0.1:8000",
			Timeout: 60 * time.Second,
		},
		Quiz: QuizConfig{
			NumQuestions: 5,
			Language:     "en",
		},
		Log: LogConfig{
			Level: "info",
			Env:   "development",
		},
	}
}

// Load builds a Config from defaults, an optional .env file in the working
// directory, an optional YAML config file and STUDYMATE_* environment
// variables, in increasing priority. An empty path searches for
// studymate.yaml in the working directory and the user config dir.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("studymate")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "studymate"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(v.GetString("api.base_url"), "/"),
			Timeout: v.GetDuration("api.timeout"),
			Strict:  v.GetBool("api.strict"),
		},
		Quiz: QuizConfig{
			NumQuestions: v.GetInt("quiz.num_questions"),
			Language:     v.GetString("quiz.language"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
			Env:   v.GetString("log.env"),
			File:  v.GetString("log.file"),
		},
		DB: DBConfig{
			Path: v.GetString("db.path"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports configuration values the client cannot work with.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if c.Quiz.NumQuestions <= 0 {
		return fmt.Errorf("quiz.num_questions must be positive, got %d", c.Quiz.NumQuestions)
	}
	if c.Quiz.Language == "" {
		return errors.New("quiz.language is required")
	}
	return nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.strict", d.API.Strict)
	v.SetDefault("quiz.num_questions", d.Quiz.NumQuestions)
	v.SetDefault("quiz.language", d.Quiz.Language)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.env", d.Log.Env)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("db.path", d.DB.Path)
}
