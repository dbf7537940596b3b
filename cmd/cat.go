package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagCatRevision string
	flagCatName     bool
)

var catCmd = &cobra.Command{
	Use:   "cat <path>",
	Short: "Print a file as of a revision",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		r, err := openRepo(ctx)
		if err != nil {
			return err
		}
		path, err := resolvePath(args[0])
		if err != nil {
			return err
		}

		if flagCatName {
			name, err := r.BufferName(ctx, path, flagCatRevision)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), name)
			return err
		}

		content, err := r.Cat(ctx, path, flagCatRevision)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), current.highlighter.File(path, content))
		return err
	},
}

func init() {
	catCmd.Flags().StringVarP(&flagCatRevision, "revision", "r", "", "revision to print (default BASE)")
	catCmd.Flags().BoolVar(&flagCatName, "name", false, "print the buffer name of the file instead of its content")
	rootCmd.AddCommand(catCmd)
}
