package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent transcript entries from past sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		clearAll, _ := cmd.Flags().GetBool("clear")

		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		repo := rt.store.HistoryRepo()

		if clearAll {
			if err := repo.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, "History cleared.")
			return nil
		}

		entries, err := repo.Recent(ctx, limit)
		if err != nil {
			return fmt.Errorf("query history: %w", err)
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "No history yet.")
			return nil
		}

		fmt.Fprintf(out, "%-19s  %-8s  %-10s  %-9s  %s\n", "Timestamp", "Run", "Role", "Kind", "Text")
		fmt.Fprintln(out, strings.Repeat("─", 100))

		for _, h := range entries {
			run := h.RunID
			if len(run) > 8 {
				run = run[:8]
			}
			text := strings.ReplaceAll(h.Entry.Text, "\n", " ")
			if len(h.Entry.Options) > 0 {
				text += " [" + strings.Join(h.Entry.Options, " | ") + "]"
			}
			if r := []rune(text); len(r) > 60 {
				text = string(r[:59]) + "…"
			}
			fmt.Fprintf(out, "%-19s  %-8s  %-10s  %-9s  %s\n",
				h.Entry.At.Local().Format("2006-01-02 15:04:05"),
				run, h.Entry.Role, h.Entry.Kind, text)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 50, "Maximum number of entries to show (0 for all)")
	historyCmd.Flags().Bool("clear", false, "Delete all stored history")
}
