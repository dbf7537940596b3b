package errors

// Exit codes for different error types
const (
	ExitCodeSuccess      = 0
	ExitCodeGenericError = 1
	ExitCodeRepoNotFound = 2
	ExitCodeUserError    = 3
	ExitCodeBackendError = 4
	ExitCodeConfigError  = 5
)

// Report 描述一个面向用户的错误报告
type Report struct {
	Message    string // 用户友好的错误消息
	Details    string // 详细的错误信息（可选）
	Suggestion string // 建议的解决方案
	ExitCode   int    // 退出码
	Retryable  bool   // 是否可以重试
}
