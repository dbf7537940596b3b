// Package repo emulates a git-style staging area on top of an svn working
// copy. A Repo keeps the set of staged paths in memory, classifies backend
// status against it and renders the status and commit documents.
//
// A Repo is not safe for concurrent use; callers serialize access.
package repo

import (
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/penwyp/svnstage/backend"
	"github.com/penwyp/svnstage/internal/workspace"
)

const (
	// DefaultIgnoreChangelist names the changelist whose unchanged members
	// are never shown.
	DefaultIgnoreChangelist = "ignore-on-commit"
	// DefaultBufferPrefix replaces the URL scheme in BufferName.
	DefaultBufferPrefix = "svnstage"
)

// Option configures a Repo.
type Option func(*Repo)

// WithIgnoreChangelist sets the reserved do-not-commit changelist name.
func WithIgnoreChangelist(name string) Option {
	return func(r *Repo) { r.ignoreChangelist = name }
}

// WithPruneStale controls whether staged paths that the backend no longer
// reports as changed are dropped from the staging set on Classify.
func WithPruneStale(prune bool) Option {
	return func(r *Repo) { r.pruneStale = prune }
}

// WithBufferPrefix sets the prefix used by BufferName.
func WithBufferPrefix(prefix string) Option {
	return func(r *Repo) {
		if prefix != "" {
			r.bufferPrefix = prefix
		}
	}
}

// WithLogger attaches a zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Repo) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Repo is one svn working copy plus its staging set.
type Repo struct {
	root    string
	gateway backend.Gateway
	staged  map[string]struct{}
	diffs   *DiffService

	ignoreChangelist string
	pruneStale       bool
	bufferPrefix     string
	logger           *zap.Logger
}

// New creates a Repo for the canonical working copy root.
func New(root string, gateway backend.Gateway, opts ...Option) *Repo {
	r := &Repo{
		root:             filepath.Clean(root),
		gateway:          gateway,
		staged:           make(map[string]struct{}),
		ignoreChangelist: DefaultIgnoreChangelist,
		pruneStale:       true,
		bufferPrefix:     DefaultBufferPrefix,
		logger:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.diffs = NewDiffService(gateway, r.logger)
	return r
}

// Root returns the working copy root.
func (r *Repo) Root() string { return r.root }

// Gateway returns the backend the repo talks to.
func (r *Repo) Gateway() backend.Gateway { return r.gateway }

// Diffs returns the repo's diff service.
func (r *Repo) Diffs() *DiffService { return r.diffs }

// Rel converts path into a root-relative path.
func (r *Repo) Rel(path string) (string, error) {
	return workspace.Rel(r.root, path)
}

// Abs converts a root-relative path into an absolute one.
func (r *Repo) Abs(rel string) string {
	return workspace.Abs(r.root, rel)
}

// normalize turns a user supplied path into the form used as a staging key.
// Relative paths are taken relative to the root.
func (r *Repo) normalize(path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.root, path)
	}
	return workspace.Normalize(path)
}

// relative strips the root from a backend path without touching the disk.
func (r *Repo) relative(path string) string {
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return path
	}
	return rel
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
