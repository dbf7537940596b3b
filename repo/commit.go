package repo

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/penwyp/svnstage/backend"
	"github.com/penwyp/svnstage/internal/errors"
)

// CommitResult describes the outcome of a commit. On failure Message is the
// reason shown to the user.
type CommitResult struct {
	Success  bool
	Revision int // 0 when the revision could not be resolved
	Message  string
}

// failed reports validation errors by their short message and backend errors
// by the text svn printed.
func failed(err error) (CommitResult, error) {
	var e *errors.SvnstageError
	if errors.As(err, &e) && e.Type != errors.ErrTypeBackend {
		return CommitResult{Message: e.Message}, err
	}
	if e != nil && e.Cause != nil {
		return CommitResult{Message: e.Cause.Error()}, err
	}
	return CommitResult{Message: err.Error()}, err
}

// SplitDocument splits a commit document into lines without their line
// endings. An empty document has no lines.
func SplitDocument(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// ParseCommitMessage extracts the message from commit document lines. The
// sentinel line, everything after it and a blank line directly above it are
// discarded, then comment lines are removed. A message with nothing but
// whitespace returns errors.ErrEmptyCommitMessage.
func ParseCommitMessage(lines []string) (string, error) {
	if len(lines) == 0 {
		return "", errors.ErrEmptyCommitMessage
	}

	for i, line := range lines {
		if strings.Contains(line, Sentinel) {
			lines = lines[:i]
			if i > 0 && strings.TrimSpace(lines[i-1]) == "" {
				lines = lines[:i-1]
			}
			break
		}
	}

	kept := make([]string, 0, len(lines))
	empty := true
	for _, line := range lines {
		if strings.HasPrefix(line, "#") {
			continue
		}
		if strings.TrimSpace(line) != "" {
			empty = false
		}
		kept = append(kept, line)
	}
	if empty {
		return "", errors.ErrEmptyCommitMessage
	}

	var b strings.Builder
	for _, line := range kept {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Commit commits every staged path with the message parsed from lines.
//
// Nothing staged and an empty message are validation errors; a rejected
// commit is a backend error. Both leave the staging set untouched. After a
// successful commit the staging set is cleared and the new revision is
// looked up from the log of a staged path that still exists on disk.
func (r *Repo) Commit(ctx context.Context, lines []string) (CommitResult, error) {
	if len(r.staged) == 0 {
		return failed(errors.ErrNothingStaged)
	}
	message, err := ParseCommitMessage(lines)
	if err != nil {
		return failed(err)
	}

	paths := r.StagedPaths()
	r.logger.Debug("Committing staged paths", zap.Strings("paths", paths))
	if err := r.gateway.Commit(ctx, message, paths); err != nil {
		if errors.GetType(err) != errors.ErrTypeBackend {
			err = errors.Backend(err)
		}
		return failed(err)
	}

	r.staged = make(map[string]struct{})

	rev := r.resolveRevision(ctx, paths)
	if rev == 0 {
		return CommitResult{Success: true, Message: "Committed unknown revision"}, nil
	}
	return CommitResult{Success: true, Revision: rev, Message: fmt.Sprintf("Committed revision %d.", rev)}, nil
}

// resolveRevision asks the log of the first path that still exists. svn
// cannot show the log of a deleted path without a peg revision.
func (r *Repo) resolveRevision(ctx context.Context, paths []string) int {
	for _, p := range paths {
		if _, err := os.Lstat(p); err != nil {
			continue
		}
		entries, err := r.gateway.Log(ctx, backend.LogQuery{Path: p, Limit: 1})
		if err != nil {
			r.logger.Debug("Could not resolve committed revision", zap.String("path", p), zap.Error(err))
			return 0
		}
		if len(entries) == 0 {
			return 0
		}
		return entries[0].Revision
	}
	return 0
}
