package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/penwyp/svnstage/repo"
)

var (
	flagLogLimit   int
	flagLogNoDiff  bool
	flagLogRange   string
	flagLogSearch  string
	flagLogOneline bool
)

var logCmd = &cobra.Command{
	Use:   "log [path]",
	Short: "Show revision history with diffs",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLog,
}

func init() {
	logCmd.Flags().IntVarP(&flagLogLimit, "limit", "n", 0, "number of revisions (default log_limit from the config)")
	logCmd.Flags().BoolVar(&flagLogNoDiff, "no-diff", false, "omit the diff of each revision")
	logCmd.Flags().StringVarP(&flagLogRange, "revision", "r", "", "revision range FROM:TO (either side may be empty)")
	logCmd.Flags().StringVar(&flagLogSearch, "search", "", "only revisions whose author or message matches")
	logCmd.Flags().BoolVar(&flagLogOneline, "oneline", false, "one revision per line")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	r, err := openRepo(ctx)
	if err != nil {
		return err
	}

	q := repo.HistoryQuery{
		Limit:       flagLogLimit,
		IncludeDiff: !flagLogNoDiff && !flagLogOneline,
		Search:      flagLogSearch,
	}
	if q.Limit <= 0 {
		q.Limit = current.cfg.LogLimit
	}
	q.RevisionFrom, q.RevisionTo = splitRange(flagLogRange)
	if len(args) == 1 {
		if q.Path, err = resolvePath(args[0]); err != nil {
			return err
		}
	}

	records, err := r.History(ctx, q)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagLogOneline {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, rec := range records {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				color.YellowString("r%d", rec.Revision),
				rec.Author,
				rec.Date.Format("2006-01-02"),
				rec.Summary())
		}
		return w.Flush()
	}

	for i, rec := range records {
		if i > 0 {
			_, _ = fmt.Fprintln(out)
		}
		text := rec.Text()
		if rec.Diff != "" {
			head := strings.TrimSuffix(text, rec.Diff)
			text = head + current.highlighter.Diff(rec.Diff)
		}
		_, _ = fmt.Fprint(out, text)
	}
	return nil
}

// splitRange parses "FROM:TO", "FROM:" or ":TO". A single revision without a
// colon selects just that revision.
func splitRange(rng string) (from, to string) {
	if rng == "" {
		return "", ""
	}
	from, to, found := strings.Cut(rng, ":")
	if !found {
		return rng, rng
	}
	return from, to
}
