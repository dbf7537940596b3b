package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var branchCmd = &cobra.Command{
	Use:   "branch",
	Short: "Print the branch of the working copy",
	Long: `Print the branch of the working copy: the name after /branches/ in
its URL, "trunk" for trunk checkouts, or "?" otherwise.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		r, err := openRepo(ctx)
		if err != nil {
			return err
		}
		branch, err := r.Branch(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), branch)
		return err
	},
}

func init() {
	rootCmd.AddCommand(branchCmd)
}
