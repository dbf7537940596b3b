package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/penwyp/svnstage/internal/errors"
)

func invalidConfig(err error) error {
	return errors.ErrInvalidConfig.WithCause(err)
}

func absJoin(dir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(dir, path)
}

// runEditor 在终端中打开编辑器，editor 可以包含参数（如 "code --wait"）
func runEditor(ctx context.Context, editor, path string) error {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return fmt.Errorf("no editor configured")
	}
	args := append(fields[1:], path)
	cmd := exec.CommandContext(ctx, fields[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %q failed: %w", editor, err)
	}
	return nil
}
