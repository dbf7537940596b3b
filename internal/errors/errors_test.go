package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSvnstageError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *SvnstageError
		expected string
	}{
		{
			name:     "error without cause",
			err:      &SvnstageError{Type: ErrTypeBackend, Message: "svn command failed"},
			expected: "svn command failed",
		},
		{
			name: "error with cause",
			err: &SvnstageError{
				Type:    ErrTypeBackend,
				Message: "svn command failed",
				Cause:   errors.New("E155011: out of date"),
			},
			expected: "svn command failed: E155011: out of date",
		},
		{
			name:     "error with path",
			err:      ErrNotStaged.WithPath("/wc/a.txt"),
			expected: "path is not staged: /wc/a.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestSvnstageError_IsMatchesCopies(t *testing.T) {
	err := fmt.Errorf("unstage: %w", ErrNotStaged.WithPath("/wc/a.txt"))

	assert.True(t, Is(err, ErrNotStaged))
	assert.False(t, Is(err, ErrNothingStaged))
	assert.Equal(t, ErrTypeNotStaged, GetType(err))
}

func TestSvnstageError_WithPathDoesNotMutateSentinel(t *testing.T) {
	_ = ErrNotStaged.WithPath("/tmp/x")
	assert.Empty(t, ErrNotStaged.Path)
}

func TestSvnstageError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Backend(cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
	assert.True(t, Is(err, ErrBackend))
}

func TestSvnstageError_WithSuggestion(t *testing.T) {
	err := New(ErrTypeBackend, "test error")
	result := err.WithSuggestion("try this solution")

	assert.Equal(t, "try this solution", result.Suggestion)
	assert.Same(t, err, result)
}

func TestHelpers(t *testing.T) {
	t.Run("GetType on plain error", func(t *testing.T) {
		assert.Equal(t, ErrTypeUnknown, GetType(errors.New("plain")))
	})

	t.Run("IsRetryable", func(t *testing.T) {
		assert.True(t, IsRetryable(Backend(errors.New("x"))))
		assert.False(t, IsRetryable(ErrEmptyCommitMessage))
		assert.False(t, IsRetryable(errors.New("plain")))
	})

	t.Run("IsUserError", func(t *testing.T) {
		assert.True(t, IsUserError(ErrEmptyCommitMessage))
		assert.True(t, IsUserError(ErrNothingStaged))
		assert.True(t, IsUserError(ErrNotStaged.WithPath("/a")))
		assert.False(t, IsUserError(Backend(errors.New("x"))))
	})

	t.Run("GetSuggestion", func(t *testing.T) {
		assert.Contains(t, GetSuggestion(ErrNothingStaged), "svnstage stage")
		assert.Empty(t, GetSuggestion(errors.New("plain")))
	})

	t.Run("FormatError", func(t *testing.T) {
		assert.Equal(t, "plain", FormatError(errors.New("plain")))
		assert.Contains(t, FormatError(ErrRepoNotFound), "💡 run the command inside an svn checkout")
	})
}

func TestErrorType_String(t *testing.T) {
	assert.Equal(t, "backend", ErrTypeBackend.String())
	assert.Equal(t, "unknown", ErrorType(99).String())
}
