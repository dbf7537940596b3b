package errors

import (
	"errors"
	"fmt"
)

// ErrorType 定义错误类型
type ErrorType int

const (
	// ErrTypeUnknown 未知错误
	ErrTypeUnknown ErrorType = iota
	// ErrTypeRepoNotFound 找不到工作副本根目录
	ErrTypeRepoNotFound
	// ErrTypeNotStaged 取消暂存一个未暂存的路径
	ErrTypeNotStaged
	// ErrTypeBackend svn 客户端调用失败
	ErrTypeBackend
	// ErrTypeValidation 用户输入错误（空提交信息、没有暂存文件）
	ErrTypeValidation
	// ErrTypeConfig 配置相关错误
	ErrTypeConfig
	// ErrTypeState 暂存状态持久化错误
	ErrTypeState
)

// String returns a short lowercase name for the type.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeRepoNotFound:
		return "repo-not-found"
	case ErrTypeNotStaged:
		return "not-staged"
	case ErrTypeBackend:
		return "backend"
	case ErrTypeValidation:
		return "validation"
	case ErrTypeConfig:
		return "config"
	case ErrTypeState:
		return "state"
	default:
		return "unknown"
	}
}

// SvnstageError 统一错误结构
type SvnstageError struct {
	Type       ErrorType
	Message    string
	Path       string
	Cause      error
	Retryable  bool
	Suggestion string
}

// Error 实现 error 接口
func (e *SvnstageError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap 支持 errors.Is 和 errors.As
func (e *SvnstageError) Unwrap() error {
	return e.Cause
}

// Is matches another SvnstageError with the same type and message, so a
// sentinel still matches a copy that carries a path or cause.
func (e *SvnstageError) Is(target error) bool {
	t, ok := target.(*SvnstageError)
	if !ok {
		return false
	}
	return t.Type == e.Type && t.Message == e.Message
}

// WithSuggestion 添加解决建议
func (e *SvnstageError) WithSuggestion(suggestion string) *SvnstageError {
	e.Suggestion = suggestion
	return e
}

// WithPath returns a copy of e bound to path.
func (e *SvnstageError) WithPath(path string) *SvnstageError {
	cp := *e
	cp.Path = path
	return &cp
}

// WithCause returns a copy of e wrapping cause.
func (e *SvnstageError) WithCause(cause error) *SvnstageError {
	cp := *e
	cp.Cause = cause
	return &cp
}

// IsRetryable 检查错误是否可重试
func (e *SvnstageError) IsRetryable() bool {
	return e.Retryable
}

// New 创建新的 SvnstageError
func New(errType ErrorType, message string) *SvnstageError {
	return &SvnstageError{
		Type:    errType,
		Message: message,
	}
}

// Wrap 包装已有错误
func Wrap(errType ErrorType, message string, cause error) *SvnstageError {
	return &SvnstageError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// NewRetryable 创建可重试错误
func NewRetryable(errType ErrorType, message string) *SvnstageError {
	return &SvnstageError{
		Type:      errType,
		Message:   message,
		Retryable: true,
	}
}

// WrapRetryable 包装可重试错误
func WrapRetryable(errType ErrorType, message string, cause error) *SvnstageError {
	return &SvnstageError{
		Type:      errType,
		Message:   message,
		Cause:     cause,
		Retryable: true,
	}
}

// 预定义的常见错误
var (
	ErrRepoNotFound = New(ErrTypeRepoNotFound, "could not find working copy").
			WithSuggestion("run the command inside an svn checkout")
	ErrNotStaged = New(ErrTypeNotStaged, "path is not staged")

	// The messages of these two are shown verbatim by the commit pipeline.
	ErrNothingStaged      = New(ErrTypeValidation, "No files staged to commit").WithSuggestion("stage files with 'svnstage stage <path>'")
	ErrEmptyCommitMessage = New(ErrTypeValidation, "Aborting commit due to empty commit message")

	ErrBackend = NewRetryable(ErrTypeBackend, "svn command failed")

	ErrConfigParse   = New(ErrTypeConfig, "failed to parse config").WithSuggestion("check the config file format")
	ErrConfigWrite   = New(ErrTypeConfig, "failed to write config")
	ErrInvalidConfig = New(ErrTypeConfig, "invalid config")

	ErrStateLock = NewRetryable(ErrTypeState, "staging state is locked by another process")
)

// Backend wraps a failed svn invocation.
func Backend(cause error) *SvnstageError {
	return ErrBackend.WithCause(cause)
}

// Is 检查是否为特定错误
func Is(err error, target error) bool {
	return errors.Is(err, target)
}

// As 尝试转换为特定错误类型
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// GetType 获取错误类型
func GetType(err error) ErrorType {
	var e *SvnstageError
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrTypeUnknown
}

// IsUserError reports errors the user can fix by editing input rather than retrying.
func IsUserError(err error) bool {
	switch GetType(err) {
	case ErrTypeValidation, ErrTypeNotStaged:
		return true
	}
	return false
}

// IsRetryable 检查错误是否可重试
func IsRetryable(err error) bool {
	var e *SvnstageError
	if errors.As(err, &e) {
		return e.IsRetryable()
	}
	return false
}

// GetSuggestion 获取错误建议
func GetSuggestion(err error) string {
	var e *SvnstageError
	if errors.As(err, &e) {
		return e.Suggestion
	}
	return ""
}

// FormatError 格式化错误输出
func FormatError(err error) string {
	var e *SvnstageError
	if !errors.As(err, &e) {
		return err.Error()
	}

	msg := e.Error()
	if e.Suggestion != "" {
		msg += fmt.Sprintf("\n💡 %s", e.Suggestion)
	}
	return msg
}
