package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studymate/internal/transcript"
)

var askCmd = &cobra.Command{
	Use:   "ask QUERY",
	Short: "Ask one question about your study materials",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		identity := rt.svc.CurrentIdentity(ctx)
		conv := rt.svc.NewConversation()

		// The failure is already written to the transcript as an error entry.
		submitErr := conv.Assistant.Submit(ctx, strings.Join(args, " "), identity.UserID)

		last, ok := conv.Transcript.Last()
		if !ok {
			return nil
		}
		if last.Kind == transcript.KindError {
			return fmt.Errorf("%s", last.Text)
		}
		fmt.Fprintln(cmd.OutOrStdout(), last.Text)
		return submitErr
	},
}
