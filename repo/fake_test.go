package repo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/penwyp/svnstage/backend"
)

// fakeGateway is an in-memory svn working copy. Add, Remove and Revert move
// entries between states the way svn does, so staging round trips can be
// observed through Status.
type fakeGateway struct {
	entries []backend.StatusEntry
	url     string
	logs    []backend.LogEntry
	cat     map[string][]byte

	statusFn func(path string) ([]backend.StatusEntry, error)
	infoFn   func(path, revision string) (backend.Info, error)
	diffFn   func(target, oldRev, newRev string) (string, error)
	logFn    func(q backend.LogQuery) ([]backend.LogEntry, error)
	commitFn func(message string, paths []string) error

	calls []string
}

var _ backend.Gateway = (*fakeGateway)(nil)

func (f *fakeGateway) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeGateway) Status(_ context.Context, path string) ([]backend.StatusEntry, error) {
	f.record("status %s", path)
	if f.statusFn != nil {
		return f.statusFn(path)
	}
	if path == "" {
		return append([]backend.StatusEntry(nil), f.entries...), nil
	}
	var out []backend.StatusEntry
	for _, e := range f.entries {
		if e.Path == path || strings.HasPrefix(e.Path, path+string(filepath.Separator)) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeGateway) setType(path string, from, to backend.StatusType) {
	for i := range f.entries {
		if f.entries[i].Path == path && f.entries[i].Type == from {
			f.entries[i].Type = to
		}
	}
}

func (f *fakeGateway) Info(_ context.Context, path, revision string) (backend.Info, error) {
	f.record("info %s@%s", path, revision)
	if f.infoFn != nil {
		return f.infoFn(path, revision)
	}
	return backend.Info{URL: f.url}, nil
}

func (f *fakeGateway) Add(_ context.Context, path string) error {
	f.record("add %s", path)
	f.setType(path, backend.StatusUnversioned, backend.StatusAdded)
	return nil
}

func (f *fakeGateway) Remove(_ context.Context, path string) error {
	f.record("remove %s", path)
	f.setType(path, backend.StatusMissing, backend.StatusDeleted)
	return nil
}

func (f *fakeGateway) Revert(_ context.Context, path string) error {
	f.record("revert %s", path)
	f.setType(path, backend.StatusAdded, backend.StatusUnversioned)
	return nil
}

func (f *fakeGateway) Diff(_ context.Context, target, oldRev, newRev string) (string, error) {
	f.record("diff %s@%s %s@%s", target, oldRev, target, newRev)
	if f.diffFn != nil {
		return f.diffFn(target, oldRev, newRev)
	}
	name := filepath.Base(target)
	return fmt.Sprintf("Index: %s\n===================================================================\n--- a/%s\n+++ b/%s\n", name, name, name), nil
}

func (f *fakeGateway) Cat(_ context.Context, path, revision string) ([]byte, error) {
	f.record("cat %s@%s", path, revision)
	data, ok := f.cat[path]
	if !ok {
		return nil, fmt.Errorf("svn: E200009: %s does not exist", path)
	}
	return data, nil
}

func (f *fakeGateway) Log(_ context.Context, q backend.LogQuery) ([]backend.LogEntry, error) {
	f.record("log %s", q.Path)
	if f.logFn != nil {
		return f.logFn(q)
	}
	return f.logs, nil
}

func (f *fakeGateway) Commit(_ context.Context, message string, paths []string) error {
	f.record("commit %q %s", message, strings.Join(paths, ","))
	if f.commitFn != nil {
		return f.commitFn(message, paths)
	}
	return nil
}

func (f *fakeGateway) Update(_ context.Context, paths []string, revision string) error {
	f.record("update %s@%s", strings.Join(paths, ","), revision)
	return nil
}

// newTestRepo creates a canonical temporary root and a Repo over gw.
func newTestRepo(t *testing.T, gw *fakeGateway, opts ...Option) (*Repo, string) {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	if gw.url == "" {
		gw.url = "https://svn.example.com/repo/trunk"
	}
	return New(root, gw, opts...), root
}

func entry(root, rel string, typ backend.StatusType) backend.StatusEntry {
	return backend.StatusEntry{Path: filepath.Join(root, rel), Type: typ}
}

func listed(root, rel string, typ backend.StatusType, changelist string) backend.StatusEntry {
	e := entry(root, rel, typ)
	e.Changelist = changelist
	return e
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0644))
}
