package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Handler 将错误转换为面向用户的报告
type Handler struct {
	// NoColor disables ANSI colors in Format.
	NoColor bool
}

// NewHandler 创建新的错误处理器
func NewHandler(noColor bool) *Handler {
	return &Handler{NoColor: noColor}
}

// Describe 根据错误类型返回结构化的错误信息
func (h *Handler) Describe(err error) Report {
	if err == nil {
		return Report{ExitCode: ExitCodeSuccess}
	}

	var e *SvnstageError
	if !As(err, &e) {
		return Report{
			Message:  err.Error(),
			ExitCode: ExitCodeGenericError,
		}
	}

	report := Report{
		Message:    e.Message,
		Suggestion: e.Suggestion,
		Retryable:  e.Retryable,
	}
	if e.Path != "" {
		report.Message += ": " + e.Path
	}
	if e.Cause != nil {
		report.Details = strings.TrimSpace(e.Cause.Error())
	}

	switch e.Type {
	case ErrTypeRepoNotFound:
		report.ExitCode = ExitCodeRepoNotFound
	case ErrTypeValidation, ErrTypeNotStaged:
		report.ExitCode = ExitCodeUserError
	case ErrTypeBackend:
		report.ExitCode = ExitCodeBackendError
		if report.Suggestion == "" {
			report.Suggestion = backendSuggestion(report.Details)
		}
	case ErrTypeConfig:
		report.ExitCode = ExitCodeConfigError
	default:
		report.ExitCode = ExitCodeGenericError
	}
	return report
}

// backendSuggestion 根据 svn 输出给出提示
func backendSuggestion(details string) string {
	switch {
	case strings.Contains(details, "E155011"), strings.Contains(details, "out of date"):
		return "run 'svnstage update' and retry"
	case strings.Contains(details, "E155015"), strings.Contains(details, "conflict"):
		return "resolve conflicts with 'svn resolve' before committing"
	case strings.Contains(details, "E170013"), strings.Contains(details, "Unable to connect"):
		return "check your network connection and retry"
	case strings.Contains(details, "E215004"), strings.Contains(details, "Authentication failed"):
		return "re-authenticate with the svn server"
	case strings.Contains(details, "executable file not found"):
		return "install the Subversion command line client or set svn_binary in the config"
	}
	return ""
}

// Format 格式化错误信息为用户友好的输出
func (h *Handler) Format(report Report) string {
	red, yellow := color.RedString, color.YellowString
	if h.NoColor {
		red = plain
		yellow = plain
	}

	var sb strings.Builder
	sb.WriteString(red("Error: %s\n", report.Message))
	if report.Details != "" {
		sb.WriteString(yellow("Details: %s\n", report.Details))
	}
	if report.Suggestion != "" {
		sb.WriteString("\n")
		sb.WriteString(report.Suggestion)
		sb.WriteString("\n")
	}
	return sb.String()
}

func plain(format string, a ...interface{}) string {
	return fmt.Sprintf(format, a...)
}
