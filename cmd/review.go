package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/penwyp/svnstage/internal/watch"
	"github.com/penwyp/svnstage/ui"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Stage and unstage interactively",
	Long: `Open the interactive status screen.

Keys: j/k move, space/s/-/a toggle staging (on a group header: the whole
group), d diff preview, r refresh, ctrl+n/ctrl+p next/previous group,
q quit. The screen refreshes when files in the working copy change.`,
	Args: cobra.NoArgs,
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	r, err := openRepo(ctx)
	if err != nil {
		return err
	}

	model := ui.NewStatusModel(ctx, r, previewEntry(r))
	model.OnStagingChange(func() {
		if err := saveRepo(ctx, r); err != nil {
			appLogger.Warn("Could not save staging", zap.Error(err))
		}
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	w, err := watch.New(r.Root(), current.cfg.MarkerDir, current.cfg.WatchDebounce(), func() {
		program.Send(ui.RefreshMsg{})
	}, appLogger)
	if err != nil {
		// 没有文件监听也可以手动刷新
		appLogger.Warn("File watching disabled", zap.Error(err))
	} else {
		defer w.Close()
		go func() {
			if err := w.Run(ctx); err != nil {
				appLogger.Debug("Watcher stopped", zap.Error(err))
			}
		}()
	}

	if _, err := program.Run(); err != nil {
		return err
	}
	if err := saveRepo(ctx, r); err != nil {
		return err
	}
	return model.Err()
}
