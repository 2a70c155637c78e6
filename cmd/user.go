package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/store"
)

var registerCmd = &cobra.Command{
	Use:   "register NAME",
	Short: "Register a user and remember it on this machine",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		name := strings.TrimSpace(strings.Join(args, " "))
		if name == "" {
			return fmt.Errorf("name must not be empty")
		}
		resp, err := rt.svc.API.Register(ctx, name)
		if err != nil {
			return fmt.Errorf("register: %s", api.Describe(err))
		}
		id := store.Identity{UserID: resp.UserID, Username: name}
		if resp.Name != "" {
			id.Username = resp.Name
		}
		if err := rt.svc.Identity.Save(ctx, id); err != nil {
			return err
		}
		rt.svc.Logger().Info("registered", zap.String("user_id", id.UserID))
		fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s)\n", id.Username, id.UserID)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the remembered user",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		id, err := rt.svc.Identity.Load(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if id.Guest() {
			fmt.Fprintln(out, "Not signed in (guest).")
			return nil
		}
		fmt.Fprintf(out, "%s (%s)\n", id.Username, id.UserID)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the remembered user",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.svc.Identity.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}
