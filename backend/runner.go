package backend

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Runner 抽象出命令执行器，方便在单元测试中注入 Mock。
//
// 返回值约定：成功时返回 stdout，错误时返回非 nil error，stderr 内容包含在 error 中。
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	logger *zap.Logger
}

// NewExecRunner creates an ExecRunner that logs command lines at debug level.
func NewExecRunner(logger *zap.Logger) *ExecRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRunner{logger: logger}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	// English messages keep error matching stable; XML output is not localized anyway.
	cmd.Env = append(os.Environ(), "LC_MESSAGES=C")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("Running command",
		zap.String("command", name),
		zap.Strings("args", args))

	err := cmd.Run()
	r.logger.Debug("Command finished",
		zap.String("command", name),
		zap.Int("stdout_length", stdout.Len()),
		zap.Error(err))
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return stdout.Bytes(), fmt.Errorf("%v: %s", err, msg)
		}
		return stdout.Bytes(), err
	}
	return stdout.Bytes(), nil
}
