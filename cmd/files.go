package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/sources"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Manage uploaded study materials",
}

var filesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded files",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		names, err := rt.svc.Sources().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list files: %s", api.Describe(err))
		}
		out := cmd.OutOrStdout()
		if len(names) == 0 {
			fmt.Fprintln(out, "No files uploaded.")
			return nil
		}
		for _, n := range names {
			fmt.Fprintln(out, n)
		}
		return nil
	},
}

var filesUploadCmd = &cobra.Command{
	Use:   "upload PATH...",
	Short: "Upload one or more files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		if n, _ := cmd.Flags().GetInt("parallel"); n > 0 {
			rt.svc.UploadParallel = n
		}
		results := rt.svc.Sources().UploadAll(cmd.Context(), args)

		out := cmd.OutOrStdout()
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(out, "✗ %s: %s\n", r.Name, api.Describe(r.Err))
				continue
			}
			msg := r.Message
			if msg == "" {
				msg = "uploaded"
			}
			fmt.Fprintf(out, "✓ %s: %s\n", r.Name, msg)
		}
		if failed := sources.Failed(results); failed > 0 {
			return fmt.Errorf("%d of %d uploads failed", failed, len(results))
		}
		return nil
	},
}

var filesDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete one uploaded file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		msg, err := rt.svc.Sources().Delete(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("delete %s: %s", args[0], api.Describe(err))
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

var filesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every uploaded file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("refusing to delete all files without --yes")
		}
		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		msg, err := rt.svc.Sources().Clear(cmd.Context())
		if err != nil {
			return fmt.Errorf("clear files: %s", api.Describe(err))
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

func init() {
	filesUploadCmd.Flags().Int("parallel", sources.DefaultParallelUploads, "Maximum concurrent uploads")
	filesClearCmd.Flags().Bool("yes", false, "Confirm deleting all files")

	filesCmd.AddCommand(filesListCmd)
	filesCmd.AddCommand(filesUploadCmd)
	filesCmd.AddCommand(filesDeleteCmd)
	filesCmd.AddCommand(filesClearCmd)
}
