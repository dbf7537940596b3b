package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/svnstage/backend"
	"github.com/penwyp/svnstage/internal/config"
)

// fakeGateway 是内存中的 svn 工作副本
type fakeGateway struct {
	entries   []backend.StatusEntry
	url       string
	logs      []backend.LogEntry
	cat       map[string]string
	commitErr error

	commits []string
	calls   []string
}

var _ backend.Gateway = (*fakeGateway)(nil)

func (f *fakeGateway) Status(_ context.Context, path string) ([]backend.StatusEntry, error) {
	f.calls = append(f.calls, "status")
	var out []backend.StatusEntry
	for _, e := range f.entries {
		if e.Path == path || strings.HasPrefix(e.Path, path+string(filepath.Separator)) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeGateway) set(path string, typ backend.StatusType) {
	for i := range f.entries {
		if f.entries[i].Path == path {
			f.entries[i].Type = typ
			return
		}
	}
}

func (f *fakeGateway) Info(context.Context, string, string) (backend.Info, error) {
	return backend.Info{URL: f.url}, nil
}

func (f *fakeGateway) Add(_ context.Context, path string) error {
	f.calls = append(f.calls, "add "+path)
	f.set(path, backend.StatusAdded)
	return nil
}

func (f *fakeGateway) Remove(_ context.Context, path string) error {
	f.calls = append(f.calls, "remove "+path)
	f.set(path, backend.StatusDeleted)
	return nil
}

func (f *fakeGateway) Revert(_ context.Context, path string) error {
	f.calls = append(f.calls, "revert "+path)
	f.set(path, backend.StatusUnversioned)
	return nil
}

func (f *fakeGateway) Diff(_ context.Context, target, oldRev, newRev string) (string, error) {
	name := filepath.Base(target)
	return fmt.Sprintf("Index: %s\n===================================================================\ndiff --git a/%s b/%s\n--- a/%s\t(revision %s)\n+++ b/%s\t(%s)\n", name, name, name, name, oldRev, name, newRev), nil
}

func (f *fakeGateway) Cat(_ context.Context, path, revision string) ([]byte, error) {
	content, ok := f.cat[path+"@"+revision]
	if !ok {
		return nil, fmt.Errorf("svn: E200009: '%s' is not under version control", path)
	}
	return []byte(content), nil
}

func (f *fakeGateway) Log(_ context.Context, q backend.LogQuery) ([]backend.LogEntry, error) {
	f.calls = append(f.calls, fmt.Sprintf("log %s:%s", q.RevisionFrom, q.RevisionTo))
	return f.logs, nil
}

func (f *fakeGateway) Commit(_ context.Context, message string, paths []string) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.commits = append(f.commits, message)
	for _, p := range paths {
		f.set(p, backend.StatusNormal)
	}
	return nil
}

func (f *fakeGateway) Update(_ context.Context, paths []string, revision string) error {
	f.calls = append(f.calls, fmt.Sprintf("update %s@%s", strings.Join(paths, ","), revision))
	return nil
}

// testEnv 是一个带 .svn 标记目录的临时工作副本
type testEnv struct {
	t        *testing.T
	root     string
	stateDir string
	cfgPath  string
	gw       *fakeGateway
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(root, ".svn"), 0755))

	stateDir := t.TempDir()
	cfg := config.Default()
	cfg.StateDir = stateDir
	cfg.Color = "never"
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	mgr, err := config.NewManager(cfgPath)
	require.NoError(t, err)
	require.NoError(t, mgr.Save(cfg))

	env := &testEnv{
		t:        t,
		root:     root,
		stateDir: stateDir,
		cfgPath:  cfgPath,
		gw:       &fakeGateway{url: "https://svn.example.com/repo/trunk", cat: map[string]string{}},
	}

	origGateway, origEditor := gatewayProvider, editorRunner
	gatewayProvider = func(*config.Config, string) backend.Gateway { return env.gw }
	editorRunner = func(context.Context, string, string) error {
		return fmt.Errorf("unexpected editor")
	}
	t.Cleanup(func() {
		gatewayProvider, editorRunner = origGateway, origEditor
		resetFlags(rootCmd)
	})
	return env
}

func (e *testEnv) path(rel string) string {
	return filepath.Join(e.root, rel)
}

func (e *testEnv) add(rel string, typ backend.StatusType) {
	e.gw.entries = append(e.gw.entries, backend.StatusEntry{Path: e.path(rel), Type: typ})
}

func (e *testEnv) touch(rel string, content string) {
	require.NoError(e.t, os.WriteFile(e.path(rel), []byte(content), 0644))
}

// run 执行一次命令，相当于一次独立的 CLI 调用
func (e *testEnv) run(args ...string) (string, error) {
	return e.runIn(e.root, args...)
}

// runIn runs the command tree with -C dir.
func (e *testEnv) runIn(dir string, args ...string) (string, error) {
	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append([]string{"--config", e.cfgPath, "-C", dir}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// resetFlags 恢复所有子命令的默认参数，cobra 不会在多次执行之间重置
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
