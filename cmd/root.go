package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/config"
	"github.com/abhisek/studymate/internal/logger"
	"github.com/abhisek/studymate/internal/quiz"
	"github.com/abhisek/studymate/internal/services"
	"github.com/abhisek/studymate/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "studymate",
	Short: "Study assistant for your own materials",
	Long:  "StudyMate — terminal client for asking questions about your study materials and quizzing yourself on them.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default: ./studymate.yaml or the user config dir)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides STUDYMATE_DB env var)")
	rootCmd.PersistentFlags().String("api", "", "Base URL of the study assistant API (overrides api.base_url)")
	rootCmd.PersistentFlags().Bool("login", false, "Show the sign-in screen even if a user is remembered")

	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then db.path from config, then STUDYMATE_DB and the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DB.Path != "" {
		return cfg.DB.Path, store.EnsureDir(cfg.DB.Path)
	}
	return store.DefaultDBPath()
}

// cliEnv is everything a command needs, opened once per invocation.
type cliEnv struct {
	cfg   *config.Config
	store *store.Store
	svc   *services.Services
}

func (r *cliEnv) Close() {
	if r.store != nil {
		r.store.Close()
	}
	_ = logger.Sync()
}

// setup loads configuration, initializes logging and opens the store.
// The TUI logs to a file since it owns the terminal.
func setup(cmd *cobra.Command, tui bool) (*cliEnv, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if base, _ := cmd.Flags().GetString("api"); base != "" {
		cfg.API.BaseURL = base
	}

	if tui && cfg.Log.File == "" {
		if cfg.Log.File, err = logger.DefaultFile(); err != nil {
			return nil, err
		}
	}
	if err := logger.Initialize(cfg.Log); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log := logger.Get()

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", zap.String("path", dbPath))

	svc := &services.Services{
		API:      api.NewFromConfig(cfg.API, log),
		Identity: st.IdentityRepo(),
		History:  st.HistoryRepo(),
		Quiz:     quiz.Config{NumQuestions: cfg.Quiz.NumQuestions, Language: cfg.Quiz.Language},
		Language: cfg.Quiz.Language,
		Log:      log,
	}
	return &cliEnv{cfg: cfg, store: st, svc: svc}, nil
}
