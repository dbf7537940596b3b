package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/penwyp/svnstage/internal/watch"
	"github.com/penwyp/svnstage/repo"
	"github.com/penwyp/svnstage/ui"
)

var flagWatch bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show untracked, unstaged, staged and changelist groups",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "redraw the status whenever the working copy changes")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	r, err := openRepo(ctx)
	if err != nil {
		return err
	}

	if err := printStatus(ctx, cmd.OutOrStdout(), r); err != nil {
		return err
	}
	if err := saveRepo(ctx, r); err != nil {
		return err
	}
	if !flagWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	changed := make(chan struct{}, 1)
	w, err := watch.New(r.Root(), current.cfg.MarkerDir, current.cfg.WatchDebounce(), func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}, appLogger)
	if err != nil {
		return err
	}
	defer w.Close()
	go func() {
		if err := w.Run(ctx); err != nil && ctx.Err() == nil {
			appLogger.Warn("Watcher stopped", zap.Error(err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changed:
			if current.color {
				// 清屏后重绘
				_, _ = fmt.Fprint(cmd.OutOrStdout(), "\033[H\033[2J")
			} else {
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			if err := printStatus(ctx, cmd.OutOrStdout(), r); err != nil {
				appLogger.Warn("Status refresh failed", zap.Error(err))
				continue
			}
			if err := saveRepo(ctx, r); err != nil {
				appLogger.Warn("Could not save staging", zap.Error(err))
			}
		}
	}
}

// printStatus writes the status document. With colors on, group headers and
// entries are styled the way the review screen shows them.
func printStatus(ctx context.Context, out io.Writer, r *repo.Repo) error {
	doc, err := r.StatusDocument(ctx)
	if err != nil {
		return err
	}
	if current.color {
		doc = styleStatus(doc)
	}
	_, err = fmt.Fprint(out, doc)
	return err
}

// styleStatus colors a rendered status document line by line.
func styleStatus(doc string) string {
	styles := ui.DefaultStyles()
	lines := strings.Split(doc, "\n")
	var section lipgloss.Style
	for i, line := range lines {
		switch {
		case line == "":
		case strings.HasPrefix(line, "Head: "):
			lines[i] = styles.Head.Render(line)
		case isSectionTitle(line):
			section = sectionStyle(styles, line)
			lines[i] = styles.Header.Render(line)
		default:
			lines[i] = section.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func isSectionTitle(line string) bool {
	for _, prefix := range []string{"Untracked (", "Unstaged (", "Staged (", "Changelist["} {
		if strings.HasPrefix(line, prefix) && strings.HasSuffix(line, ")") {
			return true
		}
	}
	return false
}

func sectionStyle(styles ui.UIStyles, title string) lipgloss.Style {
	switch {
	case strings.HasPrefix(title, "Untracked"):
		return styles.Untracked
	case strings.HasPrefix(title, "Unstaged"):
		return styles.Unstaged
	case strings.HasPrefix(title, "Staged"):
		return styles.Staged
	default:
		return styles.Changelist
	}
}
