package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagUpdateRevision string

var updateCmd = &cobra.Command{
	Use:   "update [path]...",
	Short: "Update the working copy, or the given paths, to a revision",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		r, err := openRepo(ctx)
		if err != nil {
			return err
		}
		paths := make([]string, 0, len(args))
		for _, arg := range args {
			p, err := resolvePath(arg)
			if err != nil {
				return err
			}
			paths = append(paths, p)
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderStatusBar("Updating...", false))
		if err := r.Update(ctx, paths, flagUpdateRevision); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderStatusBar("Updated", true))
		return saveRepo(ctx, r)
	},
}

func init() {
	updateCmd.Flags().StringVarP(&flagUpdateRevision, "revision", "r", "", "revision to update to (default HEAD)")
	rootCmd.AddCommand(updateCmd)
}
