package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/studymate/internal/app"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Open the TUI straight into a quiz",
	RunE: func(cmd *cobra.Command, args []string) error {
		return launch(cmd, app.Options{StartQuiz: true})
	},
}
