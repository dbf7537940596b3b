package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/svnstage/backend"
	"github.com/penwyp/svnstage/repo"
)

var (
	flagDiffOld    string
	flagDiffNew    string
	flagDiffStaged bool
)

var diffCmd = &cobra.Command{
	Use:   "diff [path]",
	Short: "Show changes of a path between two revisions",
	Long: `Show changes of a path between two revisions.

By default the working copy is compared with HEAD. Unversioned files are
shown as new files. With --staged the diff of every staged path is shown,
exactly as it appears below the commit document's scissors line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVar(&flagDiffOld, "old", "HEAD", "old revision")
	diffCmd.Flags().StringVar(&flagDiffNew, "new", "", "new revision (empty for the working copy)")
	diffCmd.Flags().BoolVar(&flagDiffStaged, "staged", false, "show the diff of all staged paths")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	r, err := openRepo(ctx)
	if err != nil {
		return err
	}

	var text string
	switch {
	case flagDiffStaged:
		var parts []string
		for _, p := range r.StagedPaths() {
			parts = append(parts, r.Diffs().Diff(ctx, p, "HEAD", ""))
		}
		text = strings.Join(parts, "\n")
	case len(args) == 1:
		path, err := resolvePath(args[0])
		if err != nil {
			return err
		}
		text, err = pathDiff(ctx, r, path)
		if err != nil {
			return err
		}
	default:
		text = r.Diffs().Diff(ctx, r.Root(), flagDiffOld, flagDiffNew)
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), current.highlighter.Diff(text))
	return err
}

// pathDiff diffs one path, synthesizing a new-file diff for unversioned paths.
func pathDiff(ctx context.Context, r *repo.Repo, path string) (string, error) {
	if entryType(ctx, r, path) == backend.StatusUnversioned {
		rel, err := r.Rel(path)
		if err != nil {
			return "", err
		}
		return r.Diffs().UntrackedDiff(path, rel)
	}
	return r.Diffs().Diff(ctx, path, flagDiffOld, flagDiffNew), nil
}

// entryType returns the status of path itself, StatusNone when svn has
// nothing to report or the status call fails.
func entryType(ctx context.Context, r *repo.Repo, path string) backend.StatusType {
	entries, err := r.Gateway().Status(ctx, path)
	if err != nil {
		return backend.StatusNone
	}
	for _, e := range entries {
		if e.Path == path {
			return e.Type
		}
	}
	return backend.StatusNone
}

// previewEntry renders the diff shown in the review screen.
func previewEntry(r *repo.Repo) func(ctx context.Context, e backend.StatusEntry) string {
	return func(ctx context.Context, e backend.StatusEntry) string {
		if e.Type == backend.StatusUnversioned {
			rel, err := r.Rel(e.Path)
			if err != nil {
				rel = e.Path
			}
			text, err := r.Diffs().UntrackedDiff(e.Path, rel)
			if err != nil {
				return err.Error()
			}
			return current.highlighter.Diff(text)
		}
		return current.highlighter.Diff(r.Diffs().Diff(ctx, e.Path, "HEAD", ""))
	}
}
