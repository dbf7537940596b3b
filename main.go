package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/penwyp/svnstage/cmd"
	svnerrors "github.com/penwyp/svnstage/internal/errors"
)

// main 为 CLI 入口，调用 cmd.Execute 并按错误类型设置退出码。
func main() {
	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		os.Exit(130)
	}

	handler := svnerrors.NewHandler(!cmd.ColorEnabled())
	report := handler.Describe(err)
	fmt.Fprint(os.Stderr, handler.Format(report))
	os.Exit(report.ExitCode)
}
