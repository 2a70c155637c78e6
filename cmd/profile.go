package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show accuracy, weak topics and per-topic history",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		identity := rt.svc.CurrentIdentity(ctx)
		if identity.Guest() {
			return fmt.Errorf("not signed in; run `studymate register NAME` first")
		}

		r, err := profile.Load(ctx, rt.svc.API, identity.UserID)
		if err != nil {
			return fmt.Errorf("load profile: %s", api.Describe(err))
		}

		out := cmd.OutOrStdout()
		name := r.Name
		if name == "" {
			name = identity.Username
		}
		fmt.Fprintf(out, "%s (%s)\n\n", name, r.UserID)
		fmt.Fprintf(out, "Average accuracy: %s\n", r.AvgAccuracy)
		fmt.Fprintf(out, "Attempts:         %d\n", r.Attempts)
		fmt.Fprintf(out, "Correct:          %d\n", r.Correct)
		fmt.Fprintf(out, "Best topic:       %s\n", r.BestTopic)
		fmt.Fprintf(out, "Weakest topic:    %s\n\n", r.WeakestTopic)
		fmt.Fprintln(out, r.Recommendation)

		if len(r.Rows) == 0 {
			return nil
		}
		fmt.Fprintln(out)
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "DATE\tTOPIC\tSCORE\tACCURACY")
		fmt.Fprintln(tw, strings.Repeat("─", 10)+"\t"+strings.Repeat("─", 10)+"\t"+strings.Repeat("─", 5)+"\t"+strings.Repeat("─", 8))
		for _, row := range r.Rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.Date, row.Topic, row.Score, row.Accuracy)
		}
		return tw.Flush()
	},
}
