package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/penwyp/svnstage/internal/errors"
	"github.com/penwyp/svnstage/repo"
)

const commitDocName = "COMMIT_EDITMSG"

var (
	flagMessage string
	flagFile    string
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Commit the staged paths",
	Long: `Commit the staged paths.

Without -m or -F the commit document is opened in your editor. Lines
starting with '#' are ignored, as is everything below the scissors line.
If svn rejects the commit the message is saved as a draft so it can be
reused with -F.`,
	Args: cobra.NoArgs,
	RunE: runCommit,
}

func init() {
	commitCmd.Flags().StringVarP(&flagMessage, "message", "m", "", "use the given commit message")
	commitCmd.Flags().StringVarP(&flagFile, "file", "F", "", "read the commit message from a file ('-' for stdin)")
	commitCmd.MarkFlagsMutuallyExclusive("message", "file")
	rootCmd.AddCommand(commitCmd)
}

func runCommit(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	r, err := openRepo(ctx)
	if err != nil {
		return err
	}
	// 在打开编辑器之前检查
	if len(r.StagedPaths()) == 0 {
		return errors.ErrNothingStaged
	}

	lines, docPath, err := commitLines(ctx, cmd.InOrStdin(), r)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderStatusBar("Committing...", false))
	res, err := r.Commit(ctx, lines)
	if err != nil {
		appLogger.Debug("Commit failed", zap.String("reason", res.Message), zap.Error(err))
		if errors.GetType(err) == errors.ErrTypeBackend {
			return withDraft(err, lines)
		}
		if docPath != "" {
			return keepDocument(err, docPath)
		}
		return err
	}

	if docPath != "" {
		_ = os.Remove(docPath)
	}
	if err := saveRepo(ctx, r); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderStatusBar(res.Message, true))
	return nil
}

// commitLines 返回提交文档的行；使用编辑器时同时返回文档路径
func commitLines(ctx context.Context, stdin io.Reader, r *repo.Repo) ([]string, string, error) {
	switch {
	case flagMessage != "":
		return repo.SplitDocument(flagMessage), "", nil
	case flagFile == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", err
		}
		return repo.SplitDocument(string(data)), "", nil
	case flagFile != "":
		path, err := resolvePath(flagFile)
		if err != nil {
			return nil, "", err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", err
		}
		return repo.SplitDocument(string(data)), "", nil
	}

	doc, err := r.CommitDocument(ctx)
	if err != nil {
		return nil, "", err
	}
	dir, err := current.cfg.StatePath()
	if err != nil {
		return nil, "", invalidConfig(err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, "", err
	}
	path := filepath.Join(dir, commitDocName)
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return nil, "", err
	}

	editor := current.cfg.EditorCommand()
	appLogger.Debug("Opening editor", zap.String("editor", editor), zap.String("path", path))
	if err := editorRunner(ctx, editor, path); err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return repo.SplitDocument(string(data)), path, nil
}

// withDraft saves the commit document under drafts/ so a rejected commit
// can be retried with -F, and points the user at it.
func withDraft(err error, lines []string) error {
	var e *errors.SvnstageError
	if !errors.As(err, &e) {
		return err
	}
	dir, perr := current.cfg.StatePath()
	if perr != nil {
		return err
	}
	dir = filepath.Join(dir, "drafts")
	if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
		appLogger.Warn("Could not save commit draft", zap.Error(mkErr))
		return err
	}
	path := filepath.Join(dir, uuid.NewString()+".txt")
	if wErr := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); wErr != nil {
		appLogger.Warn("Could not save commit draft", zap.Error(wErr))
		return err
	}

	hint := fmt.Sprintf("commit message saved to %s; retry with 'svnstage commit -F %s'", path, path)
	if e.Suggestion != "" {
		hint = e.Suggestion + "\n" + hint
	}
	return e.WithCause(e.Cause).WithSuggestion(hint)
}

func keepDocument(err error, path string) error {
	var e *errors.SvnstageError
	if !errors.As(err, &e) {
		return err
	}
	return e.WithCause(e.Cause).WithSuggestion(fmt.Sprintf("the edited message is kept in %s", path))
}
