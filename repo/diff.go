package repo

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"

	"github.com/penwyp/svnstage/backend"
)

// DiffService produces display diffs. Failures are folded into the returned
// text so one bad path never aborts a status or commit render.
type DiffService struct {
	gateway backend.Gateway
	logger  *zap.Logger
}

// NewDiffService wraps gateway.
func NewDiffService(gateway backend.Gateway, logger *zap.Logger) *DiffService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiffService{gateway: gateway, logger: logger}
}

// Diff returns the git-style diff of target between two revisions with the
// leading "Index:" and "===" lines removed. An empty revision means the
// working copy. On failure it returns a "New file" marker followed by the
// error text.
func (d *DiffService) Diff(ctx context.Context, target, oldRev, newRev string) string {
	out, err := d.gateway.Diff(ctx, target, oldRev, newRev)
	if err != nil {
		d.logger.Debug("Diff failed",
			zap.String("target", target),
			zap.String("old", oldRev),
			zap.String("new", newRev),
			zap.Error(err))
		return fmt.Sprintf("New file: %s\n%s", target, err.Error())
	}
	return trimLeadingLines(out, 2)
}

// trimLeadingLines drops the first n lines of s. If s has fewer than n line
// breaks nothing is left.
func trimLeadingLines(s string, n int) string {
	for i := 0; i < n; i++ {
		idx := strings.IndexByte(s, '\n')
		if idx < 0 {
			return ""
		}
		s = s[idx+1:]
	}
	return s
}

// UntrackedDiff renders an unversioned file as an all-additions unified diff,
// which svn cannot produce for files it does not know about.
func (d *DiffService) UntrackedDiff(path, rel string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	header := fmt.Sprintf("diff --git a/%s b/%s\nnew file\n", filepath.ToSlash(rel), filepath.ToSlash(rel))
	if info.IsDir() {
		return header + "(new directory)\n", nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if bytes.IndexByte(content, 0) >= 0 {
		return header + "(binary file)\n", nil
	}
	if len(content) == 0 {
		return header + "(empty file)\n", nil
	}

	ud := difflib.UnifiedDiff{
		A:        []string{},
		B:        difflib.SplitLines(strings.TrimSuffix(string(content), "\n")),
		FromFile: "/dev/null",
		ToFile:   "b/" + filepath.ToSlash(rel),
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", err
	}
	return header + text, nil
}
