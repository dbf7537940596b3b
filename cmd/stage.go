package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/penwyp/svnstage/repo"
)

var stageCmd = &cobra.Command{
	Use:   "stage <path>...",
	Short: "Stage paths for the next commit",
	Long: `Stage paths for the next commit.

Unversioned paths are scheduled for addition and missing paths for deletion
before they are staged.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return eachPath(cmd, args, func(ctx context.Context, r *repo.Repo, path string) (string, error) {
			if err := r.Stage(ctx, path); err != nil {
				return "", err
			}
			return "staged", nil
		})
	},
}

var unstageCmd = &cobra.Command{
	Use:   "unstage <path>...",
	Short: "Remove paths from the staging area",
	Long: `Remove paths from the staging area.

Paths that were scheduled for addition are reverted back to unversioned.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return eachPath(cmd, args, func(ctx context.Context, r *repo.Repo, path string) (string, error) {
			if err := r.Unstage(ctx, path); err != nil {
				return "", err
			}
			return "unstaged", nil
		})
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <path>...",
	Short: "Stage unstaged paths and unstage staged ones",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return eachPath(cmd, args, func(ctx context.Context, r *repo.Repo, path string) (string, error) {
			staged, err := r.Toggle(ctx, path)
			if err != nil {
				return "", err
			}
			if staged {
				return "staged", nil
			}
			return "unstaged", nil
		})
	},
}

func init() {
	rootCmd.AddCommand(stageCmd, unstageCmd, toggleCmd)
}

// eachPath 对每个路径执行操作；出错时仍会保存已完成的暂存变更
func eachPath(cmd *cobra.Command, args []string, op func(context.Context, *repo.Repo, string) (string, error)) error {
	ctx := cmd.Context()
	r, err := openRepo(ctx)
	if err != nil {
		return err
	}

	var opErr error
	for _, arg := range args {
		path, err := resolvePath(arg)
		if err != nil {
			opErr = err
			break
		}
		verb, err := op(ctx, r, path)
		if err != nil {
			opErr = err
			break
		}
		rel, err := r.Rel(path)
		if err != nil {
			rel = path
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderStatusBar(fmt.Sprintf("%s %s", verb, rel), true))
	}

	if err := saveRepo(ctx, r); err != nil {
		return err
	}
	return opErr
}
