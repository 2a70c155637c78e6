package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/studymate/internal/app"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	return launch(cmd, app.Options{})
}

func launch(cmd *cobra.Command, opts app.Options) error {
	rt, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	if login, _ := cmd.Flags().GetBool("login"); login {
		opts.ForceLogin = true
	}
	identity := rt.svc.CurrentIdentity(cmd.Context())
	rt.svc.Logger().Info("starting",
		zap.String("api", rt.cfg.API.BaseURL),
		zap.String("user_id", identity.UserID),
	)
	return app.Run(rt.svc, identity, opts)
}
