package e2e

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHelper provides utilities for E2E tests against a real svn client
type TestHelper struct {
	t        *testing.T
	binPath  string
	wc       string
	repoURL  string
	cfgPath  string
	stateDir string
}

// Result is the outcome of one svnstage invocation
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// requireSvn skips the test when the Subversion tools are not installed
func requireSvn(t *testing.T) {
	t.Helper()
	for _, tool := range []string{"svn", "svnadmin"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("%s not found in PATH", tool)
		}
	}
}

// buildBinary 构建 svnstage 可执行文件并返回路径。
func buildBinary(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "svnstage-bin")
	if runtime.GOOS == "windows" {
		binPath += ".exe"
	}

	cmd := exec.Command("go", "build", "-o", binPath, "github.com/penwyp/svnstage")
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build binary: %v, output: %s", err, string(out))
	}
	return binPath
}

// NewTestHelper creates a repository with a trunk directory and checks it out
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()
	requireSvn(t)

	base, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	repoDir := filepath.Join(base, "repo")
	h := &TestHelper{
		t:        t,
		binPath:  buildBinary(t),
		wc:       filepath.Join(base, "wc"),
		repoURL:  "file://" + filepath.ToSlash(repoDir),
		stateDir: filepath.Join(base, "state"),
		cfgPath:  filepath.Join(base, "config.yaml"),
	}

	h.run(base, "svnadmin", "create", repoDir)
	h.runSvn(base, "mkdir", "-m", "create trunk", h.repoURL+"/trunk")
	h.runSvn(base, "checkout", h.repoURL+"/trunk", h.wc)

	cfg := fmt.Sprintf("state_dir: %s\ncolor: never\nlog_limit: 5\n", h.stateDir)
	require.NoError(t, os.WriteFile(h.cfgPath, []byte(cfg), 0644))
	return h
}

// WriteFile writes a file inside the working copy
func (h *TestHelper) WriteFile(rel, content string) {
	h.t.Helper()
	path := filepath.Join(h.wc, rel)
	require.NoError(h.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(h.t, os.WriteFile(path, []byte(content), 0644))
}

// Svnstage runs the binary inside the working copy
func (h *TestHelper) Svnstage(args ...string) Result {
	h.t.Helper()
	cmd := exec.Command(h.binPath, args...)
	cmd.Dir = h.wc
	cmd.Env = append(os.Environ(), "SVNSTAGE_CONFIG="+h.cfgPath, "NO_COLOR=1")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
	} else {
		require.NoError(h.t, err)
	}
	return res
}

// MustSvnstage runs the binary and fails the test on a non-zero exit
func (h *TestHelper) MustSvnstage(args ...string) string {
	h.t.Helper()
	res := h.Svnstage(args...)
	require.Zero(h.t, res.ExitCode, "svnstage %s: %s", strings.Join(args, " "), res.Stderr)
	return res.Stdout
}

func (h *TestHelper) runSvn(dir string, args ...string) string {
	return h.run(dir, "svn", append([]string{"--non-interactive"}, args...)...)
}

func (h *TestHelper) run(dir, name string, args ...string) string {
	h.t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "LC_MESSAGES=C")
	out, err := cmd.CombinedOutput()
	require.NoError(h.t, err, "%s %s: %s", name, strings.Join(args, " "), out)
	return string(out)
}
