// Package state persists staging sets between CLI invocations. The staging
// set itself lives in memory inside repo.Repo; this file only carries it
// from one process to the next.
package state

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/penwyp/svnstage/internal/errors"
)

const (
	fileName      = "staging.yaml"
	formatVersion = 1

	lockRetry   = 50 * time.Millisecond
	lockTimeout = 5 * time.Second
)

// RepoState is the persisted staging set of one working copy.
type RepoState struct {
	Staged    []string  `yaml:"staged"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

type document struct {
	Version int                  `yaml:"version"`
	Repos   map[string]RepoState `yaml:"repos"`
}

// Store reads and writes the staging file under a directory. Access is
// serialized across processes with a lock file next to it.
type Store struct {
	path   string
	lock   *flock.Flock
	logger *zap.Logger
	now    func() time.Time

	mu   sync.Mutex
	seen map[string][]string // 每个根目录最近一次 Load/Save 时的暂存集合
}

// NewStore creates a store in dir. The directory is created on first save.
func NewStore(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	path := filepath.Join(dir, fileName)
	return &Store{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logger,
		now:    time.Now,
		seen:   make(map[string][]string),
	}
}

// Path returns the location of the staging file.
func (s *Store) Path() string { return s.path }

// Load returns the staged paths recorded for root, sorted.
func (s *Store) Load(ctx context.Context, root string) ([]string, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		s.remember(root, nil)
		return nil, nil
	}
	if err := s.acquire(ctx, true); err != nil {
		return nil, err
	}
	defer s.release()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	staged := append([]string(nil), doc.Repos[root].Staged...)
	sort.Strings(staged)
	s.remember(root, staged)
	return staged, nil
}

// Save records staged as the staging set of root. An empty set removes the
// entry.
//
// When root was loaded through this store, only the paths staged or unstaged
// since then are applied to the file, so a concurrent run that changed other
// paths in between keeps its changes.
func (s *Store) Save(ctx context.Context, root string, staged []string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrap(errors.ErrTypeState, "failed to create state directory", err)
	}
	if err := s.acquire(ctx, false); err != nil {
		return err
	}
	defer s.release()

	doc, err := s.read()
	if err != nil {
		return err
	}

	paths := staged
	if base, ok := s.base(root); ok {
		paths = merge(doc.Repos[root].Staged, base, staged)
	}
	if len(paths) == 0 {
		delete(doc.Repos, root)
	} else {
		paths = append([]string(nil), paths...)
		sort.Strings(paths)
		doc.Repos[root] = RepoState{Staged: paths, UpdatedAt: s.now().UTC()}
	}

	s.logger.Debug("Saving staging state",
		zap.String("root", root),
		zap.Int("staged", len(paths)))
	if err := s.write(doc); err != nil {
		return err
	}
	s.remember(root, staged)
	return nil
}

func (s *Store) remember(root string, staged []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[root] = append([]string(nil), staged...)
}

func (s *Store) base(root string) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.seen[root]
	return b, ok
}

// merge applies the difference between base and staged to current.
func merge(current, base, staged []string) []string {
	inBase := toSet(base)
	inStaged := toSet(staged)
	out := toSet(current)
	for p := range inStaged {
		if _, ok := inBase[p]; !ok {
			out[p] = struct{}{}
		}
	}
	for p := range inBase {
		if _, ok := inStaged[p]; !ok {
			delete(out, p)
		}
	}
	result := make([]string, 0, len(out))
	for p := range out {
		result = append(result, p)
	}
	sort.Strings(result)
	return result
}

func toSet(paths []string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return set
}

// Roots lists the working copies that have staged paths recorded.
func (s *Store) Roots(ctx context.Context) ([]string, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil, nil
	}
	if err := s.acquire(ctx, true); err != nil {
		return nil, err
	}
	defer s.release()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	roots := make([]string, 0, len(doc.Repos))
	for root := range doc.Repos {
		roots = append(roots, root)
	}
	sort.Strings(roots)
	return roots, nil
}

func (s *Store) acquire(ctx context.Context, shared bool) error {
	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	var ok bool
	var err error
	if shared {
		ok, err = s.lock.TryRLockContext(ctx, lockRetry)
	} else {
		ok, err = s.lock.TryLockContext(ctx, lockRetry)
	}
	if err != nil || !ok {
		return errors.ErrStateLock.WithPath(s.path).WithCause(err)
	}
	return nil
}

func (s *Store) release() {
	if err := s.lock.Unlock(); err != nil {
		s.logger.Warn("Failed to release state lock", zap.Error(err))
	}
}

func (s *Store) read() (*document, error) {
	doc := &document{Version: formatVersion, Repos: make(map[string]RepoState)}
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return doc, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrTypeState, "failed to read staging state", err)
	}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, errors.Wrap(errors.ErrTypeState, "failed to parse staging state", err).
			WithPath(s.path).
			WithSuggestion(fmt.Sprintf("delete %s to reset staging", s.path))
	}
	if doc.Repos == nil {
		doc.Repos = make(map[string]RepoState)
	}
	return doc, nil
}

func (s *Store) write(doc *document) error {
	doc.Version = formatVersion
	data, err := yaml.Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.ErrTypeState, "failed to encode staging state", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrap(errors.ErrTypeState, "failed to write staging state", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(errors.ErrTypeState, "failed to write staging state", err)
	}
	return nil
}
