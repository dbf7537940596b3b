package repo

import (
	"context"

	"go.uber.org/zap"

	"github.com/penwyp/svnstage/backend"
	"github.com/penwyp/svnstage/internal/errors"
)

// Stage marks path for the next commit. Unversioned paths are added and
// missing paths are scheduled for removal first. Staging a staged path is a
// no-op apart from those backend calls.
func (r *Repo) Stage(ctx context.Context, path string) error {
	p, err := r.normalize(path)
	if err != nil {
		return err
	}
	typ, err := r.statusOf(ctx, p)
	if err != nil {
		return err
	}

	switch typ {
	case backend.StatusUnversioned:
		r.logger.Debug("Adding unversioned path", zap.String("path", p))
		if err := r.gateway.Add(ctx, p); err != nil {
			return err
		}
	case backend.StatusMissing:
		r.logger.Debug("Removing missing path", zap.String("path", p))
		if err := r.gateway.Remove(ctx, p); err != nil {
			return err
		}
	}

	r.staged[p] = struct{}{}
	return nil
}

// Unstage drops path from the staging set. A path that is scheduled for
// addition is reverted so it does not stay versioned behind the user's back.
// Unstaging a path that is not staged returns errors.ErrNotStaged.
func (r *Repo) Unstage(ctx context.Context, path string) error {
	p, err := r.normalize(path)
	if err != nil {
		return err
	}
	if _, ok := r.staged[p]; !ok {
		return errors.ErrNotStaged.WithPath(p)
	}
	typ, err := r.statusOf(ctx, p)
	if err != nil {
		return err
	}

	delete(r.staged, p)
	if typ == backend.StatusAdded {
		r.logger.Debug("Reverting added path", zap.String("path", p))
		if err := r.gateway.Revert(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Toggle stages path if it is not staged and unstages it otherwise. It
// reports whether the path is staged afterwards.
func (r *Repo) Toggle(ctx context.Context, path string) (bool, error) {
	if r.IsStaged(path) {
		if err := r.Unstage(ctx, path); err != nil {
			return r.IsStaged(path), err
		}
		return false, nil
	}
	if err := r.Stage(ctx, path); err != nil {
		return false, err
	}
	return true, nil
}

// IsStaged reports whether path is in the staging set.
func (r *Repo) IsStaged(path string) bool {
	p, err := r.normalize(path)
	if err != nil {
		return false
	}
	_, ok := r.staged[p]
	return ok
}

// StagedPaths returns the staged absolute paths in sorted order.
func (r *Repo) StagedPaths() []string {
	return sortedKeys(r.staged)
}

// Restore replaces the staging set without calling the backend. It is used
// to reload staging state persisted between processes.
func (r *Repo) Restore(paths []string) {
	r.staged = make(map[string]struct{}, len(paths))
	for _, path := range paths {
		p, err := r.normalize(path)
		if err != nil {
			r.logger.Warn("Skipping unusable staged path", zap.String("path", path), zap.Error(err))
			continue
		}
		r.staged[p] = struct{}{}
	}
}

// statusOf returns the raw type svn reports for exactly p. Unchanged
// versioned paths are not listed by svn status and come back as StatusNone.
func (r *Repo) statusOf(ctx context.Context, p string) (backend.StatusType, error) {
	entries, err := r.gateway.Status(ctx, p)
	if err != nil {
		return backend.StatusNone, err
	}
	for _, e := range entries {
		if e.Path == p {
			return e.Type, nil
		}
	}
	return backend.StatusNone, nil
}
