package backend

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	svnerrors "github.com/penwyp/svnstage/internal/errors"
)

// Option configures an SVN gateway.
type Option func(*SVN)

// WithBinary overrides the svn executable.
func WithBinary(binary string) Option {
	return func(s *SVN) {
		if binary != "" {
			s.binary = binary
		}
	}
}

// WithLogger attaches a zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *SVN) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// SVN implements Gateway on top of the svn command line client. All
// commands run non-interactively, and structured output uses --xml.
type SVN struct {
	runner Runner
	root   string
	binary string
	logger *zap.Logger
}

var _ Gateway = (*SVN)(nil)

// NewSVN creates a gateway for the working copy rooted at root.
func NewSVN(runner Runner, root string, opts ...Option) *SVN {
	s := &SVN{
		runner: runner,
		root:   root,
		binary: "svn",
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the working copy root the gateway resolves relative paths against.
func (s *SVN) Root() string { return s.root }

func (s *SVN) run(ctx context.Context, subcommand string, args ...string) ([]byte, error) {
	full := append([]string{subcommand, "--non-interactive"}, args...)
	out, err := s.runner.Run(ctx, s.binary, full...)
	if err != nil {
		s.logger.Debug("svn command failed",
			zap.String("subcommand", subcommand),
			zap.Error(err))
		return out, svnerrors.Backend(fmt.Errorf("svn %s failed: %w", subcommand, err))
	}
	return out, nil
}

// target resolves a path argument: "" is the root, relative paths are
// joined with the root, URLs pass through.
func (s *SVN) target(path string) string {
	switch {
	case path == "":
		return s.root
	case isURL(path), filepath.IsAbs(path):
		return path
	default:
		return filepath.Join(s.root, path)
	}
}

func isURL(path string) bool {
	return strings.Contains(path, "://")
}

// pegged appends a peg revision. An "@" already in the path would otherwise
// be read as a peg, so paths containing one get an empty peg.
func pegged(path, revision string) string {
	if revision == "" && strings.Contains(path, "@") {
		return path + "@"
	}
	if revision == "" {
		return path
	}
	return path + "@" + revision
}

func (s *SVN) Status(ctx context.Context, path string) ([]StatusEntry, error) {
	target := s.target(path)
	out, err := s.run(ctx, "status", "--xml", pegged(target, ""))
	if err != nil {
		return nil, err
	}
	entries, err := parseStatus(out, s.root)
	if err != nil {
		return nil, svnerrors.Backend(err)
	}
	return entries, nil
}

func (s *SVN) Info(ctx context.Context, path, revision string) (Info, error) {
	args := []string{"--xml"}
	if revision != "" {
		args = append(args, "-r", revision)
	}
	args = append(args, pegged(s.target(path), ""))
	out, err := s.run(ctx, "info", args...)
	if err != nil {
		return Info{}, err
	}
	info, err := parseInfo(out)
	if err != nil {
		return Info{}, svnerrors.Backend(err)
	}
	return info, nil
}

func (s *SVN) Add(ctx context.Context, path string) error {
	_, err := s.run(ctx, "add", "--parents", pegged(s.target(path), ""))
	return err
}

func (s *SVN) Remove(ctx context.Context, path string) error {
	_, err := s.run(ctx, "remove", pegged(s.target(path), ""))
	return err
}

func (s *SVN) Revert(ctx context.Context, path string) error {
	_, err := s.run(ctx, "revert", pegged(s.target(path), ""))
	return err
}

func (s *SVN) Diff(ctx context.Context, target, oldRev, newRev string) (string, error) {
	t := s.target(target)
	out, err := s.run(ctx, "diff", "--git",
		"--old", t+"@"+oldRev,
		"--new", t+"@"+newRev)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (s *SVN) Cat(ctx context.Context, path, revision string) ([]byte, error) {
	var args []string
	if revision != "" {
		args = append(args, "-r", revision)
	}
	args = append(args, pegged(s.target(path), ""))
	return s.run(ctx, "cat", args...)
}

// Log runs svn log. With only RevisionFrom the range walks back to r1; with
// only RevisionTo it starts at HEAD.
func (s *SVN) Log(ctx context.Context, q LogQuery) ([]LogEntry, error) {
	args := []string{"--xml"}
	if q.Limit > 0 {
		args = append(args, "-l", strconv.Itoa(q.Limit))
	}
	if r := revisionRange(q.RevisionFrom, q.RevisionTo); r != "" {
		args = append(args, "-r", r)
	}
	if q.Search != "" {
		args = append(args, "--search", q.Search)
	}
	args = append(args, pegged(s.target(q.Path), ""))
	out, err := s.run(ctx, "log", args...)
	if err != nil {
		return nil, err
	}
	entries, err := parseLog(out)
	if err != nil {
		return nil, svnerrors.Backend(err)
	}
	return entries, nil
}

func revisionRange(from, to string) string {
	switch {
	case from != "" && to != "":
		return from + ":" + to
	case from != "":
		return from + ":1"
	case to != "":
		return "HEAD:" + to
	}
	return ""
}

func (s *SVN) Commit(ctx context.Context, message string, paths []string) error {
	// --force-log: 提交信息恰好是文件名时 svn 会拒绝
	args := []string{"--force-log", "-m", message}
	for _, p := range paths {
		args = append(args, pegged(s.target(p), ""))
	}
	_, err := s.run(ctx, "commit", args...)
	return err
}

func (s *SVN) Update(ctx context.Context, paths []string, revision string) error {
	var args []string
	if revision != "" {
		args = append(args, "-r", revision)
	}
	if len(paths) == 0 {
		paths = []string{s.root}
	}
	for _, p := range paths {
		args = append(args, pegged(s.target(p), ""))
	}
	_, err := s.run(ctx, "update", args...)
	return err
}
