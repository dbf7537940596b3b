package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	svnerrors "github.com/penwyp/svnstage/internal/errors"
)

// mockRunner 用于单元测试，按调用顺序返回预设结果，并记录参数。
type mockRunner struct {
	outputs [][]byte
	errs    []error
	idx     int
	calls   [][]string
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	if m.idx >= len(m.outputs) {
		return nil, errors.New("unexpected call")
	}
	out := m.outputs[m.idx]
	err := m.errs[m.idx]
	m.idx++
	return out, err
}

// MockRunner 用于按参数断言 svn 调用
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	arguments := m.Called(ctx, name, args)
	var out []byte
	if v := arguments.Get(0); v != nil {
		out = v.([]byte)
	}
	return out, arguments.Error(1)
}

func TestSVN_Status(t *testing.T) {
	t.Parallel()

	mr := &mockRunner{
		outputs: [][]byte{[]byte(statusXML)},
		errs:    []error{nil},
	}
	s := NewSVN(mr, "/wc")

	entries, err := s.Status(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, entries, 5)
	require.Equal(t, []string{"svn", "status", "--non-interactive", "--xml", "/wc"}, mr.calls[0])
}

func TestSVN_StatusErrorIsBackend(t *testing.T) {
	t.Parallel()

	mr := &mockRunner{
		outputs: [][]byte{nil},
		errs:    []error{errors.New("exit status 1: svn: E155007: '/wc' is not a working copy")},
	}
	s := NewSVN(mr, "/wc")

	_, err := s.Status(context.Background(), "a.txt")
	require.Error(t, err)
	assert.True(t, svnerrors.Is(err, svnerrors.ErrBackend))
	assert.Contains(t, err.Error(), "E155007")
	assert.Equal(t, "/wc/a.txt", mr.calls[0][len(mr.calls[0])-1])
}

func TestSVN_CustomBinary(t *testing.T) {
	t.Parallel()

	mr := &mockRunner{outputs: [][]byte{nil}, errs: []error{nil}}
	s := NewSVN(mr, "/wc", WithBinary("/opt/svn/bin/svn"), WithBinary(""))

	require.NoError(t, s.Add(context.Background(), "dir/file.go"))
	require.Equal(t, []string{"/opt/svn/bin/svn", "add", "--non-interactive", "--parents", "/wc/dir/file.go"}, mr.calls[0])
}

func TestSVN_Commands(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		call func(s *SVN) error
		args []string
	}{
		{
			name: "remove",
			call: func(s *SVN) error { return s.Remove(ctx, "gone.txt") },
			args: []string{"remove", "--non-interactive", "/wc/gone.txt"},
		},
		{
			name: "revert absolute",
			call: func(s *SVN) error { return s.Revert(ctx, "/wc/added.txt") },
			args: []string{"revert", "--non-interactive", "/wc/added.txt"},
		},
		{
			name: "peg escape",
			call: func(s *SVN) error { return s.Revert(ctx, "me@host.txt") },
			args: []string{"revert", "--non-interactive", "/wc/me@host.txt@"},
		},
		{
			name: "commit",
			call: func(s *SVN) error { return s.Commit(ctx, "subject\n\nbody\n", []string{"/wc/a", "/wc/b"}) },
			args: []string{"commit", "--non-interactive", "--force-log", "-m", "subject\n\nbody\n", "/wc/a", "/wc/b"},
		},
		{
			name: "update root",
			call: func(s *SVN) error { return s.Update(ctx, nil, "") },
			args: []string{"update", "--non-interactive", "/wc"},
		},
		{
			name: "update revision",
			call: func(s *SVN) error { return s.Update(ctx, []string{"/wc/a"}, "42") },
			args: []string{"update", "--non-interactive", "-r", "42", "/wc/a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MockRunner{}
			m.On("Run", mock.Anything, "svn", tt.args).Return([]byte(""), nil)

			require.NoError(t, tt.call(NewSVN(m, "/wc")))
			m.AssertExpectations(t)
		})
	}
}

func TestSVN_Diff(t *testing.T) {
	m := &MockRunner{}
	m.On("Run", mock.Anything, "svn",
		[]string{"diff", "--non-interactive", "--git", "--old", "/wc/a.txt@HEAD", "--new", "/wc/a.txt@"}).
		Return([]byte("Index: a.txt\n===\n--- a.txt\n"), nil)

	s := NewSVN(m, "/wc")
	out, err := s.Diff(context.Background(), "a.txt", "HEAD", "")
	require.NoError(t, err)
	assert.Equal(t, "Index: a.txt\n===\n--- a.txt\n", out)
	m.AssertExpectations(t)
}

func TestSVN_DiffURL(t *testing.T) {
	m := &MockRunner{}
	url := "https://svn.example.com/repo/trunk"
	m.On("Run", mock.Anything, "svn",
		[]string{"diff", "--non-interactive", "--git", "--old", url + "@4", "--new", url + "@5"}).
		Return([]byte("diff"), nil)

	out, err := NewSVN(m, "/wc").Diff(context.Background(), url, "4", "5")
	require.NoError(t, err)
	assert.Equal(t, "diff", out)
}

func TestSVN_Cat(t *testing.T) {
	m := &MockRunner{}
	m.On("Run", mock.Anything, "svn", []string{"cat", "--non-interactive", "-r", "HEAD", "/wc/a.txt"}).
		Return([]byte("line1\nline2\n"), nil)
	m.On("Run", mock.Anything, "svn", []string{"cat", "--non-interactive", "/wc/b.txt"}).
		Return(nil, errors.New("E200009"))

	s := NewSVN(m, "/wc")
	out, err := s.Cat(context.Background(), "a.txt", "HEAD")
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2\n", string(out))

	_, err = s.Cat(context.Background(), "b.txt", "")
	require.Error(t, err)
	assert.Equal(t, svnerrors.ErrTypeBackend, svnerrors.GetType(err))
}

func TestSVN_Info(t *testing.T) {
	m := &MockRunner{}
	m.On("Run", mock.Anything, "svn", []string{"info", "--non-interactive", "--xml", "-r", "HEAD", "/wc"}).
		Return([]byte(`<info><entry kind="dir" path="/wc" revision="5"><url>https://h/r/trunk</url></entry></info>`), nil)

	info, err := NewSVN(m, "/wc").Info(context.Background(), "", "HEAD")
	require.NoError(t, err)
	assert.Equal(t, 5, info.Revision)
	assert.Equal(t, "https://h/r/trunk", info.URL)
}

func TestSVN_Log(t *testing.T) {
	tests := []struct {
		name  string
		query LogQuery
		args  []string
	}{
		{
			name:  "limit only",
			query: LogQuery{Limit: 10},
			args:  []string{"log", "--non-interactive", "--xml", "-l", "10", "/wc"},
		},
		{
			name:  "full range with search",
			query: LogQuery{Path: "src", RevisionFrom: "20", RevisionTo: "10", Search: "fix"},
			args:  []string{"log", "--non-interactive", "--xml", "-r", "20:10", "--search", "fix", "/wc/src"},
		},
		{
			name:  "from only",
			query: LogQuery{RevisionFrom: "7", Limit: 1},
			args:  []string{"log", "--non-interactive", "--xml", "-l", "1", "-r", "7:1", "/wc"},
		},
		{
			name:  "to only",
			query: LogQuery{RevisionTo: "3"},
			args:  []string{"log", "--non-interactive", "--xml", "-r", "HEAD:3", "/wc"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MockRunner{}
			m.On("Run", mock.Anything, "svn", tt.args).
				Return([]byte(`<log><logentry revision="3"><author>a</author><date>2020-01-01T00:00:00.000000Z</date><msg>m</msg></logentry></log>`), nil)

			entries, err := NewSVN(m, "/wc").Log(context.Background(), tt.query)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			m.AssertExpectations(t)
		})
	}
}

func TestSVN_LogMalformed(t *testing.T) {
	mr := &mockRunner{outputs: [][]byte{[]byte("not xml")}, errs: []error{nil}}
	_, err := NewSVN(mr, "/wc").Log(context.Background(), LogQuery{})
	require.Error(t, err)
	assert.True(t, svnerrors.Is(err, svnerrors.ErrBackend))
}
