package repo

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"unicode"
	"unicode/utf8"
)

var osLineSeparator = func() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}()

func (r *Repo) catRaw(ctx context.Context, path, revision string) (string, error) {
	p, err := r.normalize(path)
	if err != nil {
		return "", err
	}
	data, err := r.gateway.Cat(ctx, p, revision)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Cat returns the content of path at revision with one trailing whitespace
// character removed.
func (r *Repo) Cat(ctx context.Context, path, revision string) (string, error) {
	s, err := r.catRaw(ctx, path, revision)
	if err != nil {
		return "", err
	}
	if last, size := utf8.DecodeLastRuneInString(s); size > 0 && unicode.IsSpace(last) {
		s = s[:len(s)-size]
	}
	return s, nil
}

// CatLines returns the content of path at revision split into lines. CRLF
// endings are tried first, then the platform separator, then LF. A trailing
// blank line left by the final line break is dropped.
func (r *Repo) CatLines(ctx context.Context, path, revision string) ([]string, error) {
	s, err := r.catRaw(ctx, path, revision)
	if err != nil {
		return nil, err
	}
	return splitContentLines(s), nil
}

func splitContentLines(s string) []string {
	var lines []string
	for _, sep := range []string{"\r\n", osLineSeparator, "\n"} {
		lines = strings.Split(s, sep)
		if len(lines) >= 2 {
			break
		}
	}
	if last := lines[len(lines)-1]; strings.TrimSpace(last) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// BufferName names a historical view of path: the tool prefix followed by
// the file URL from its scheme colon onwards, e.g.
// "svnstage://host/repo/trunk/main.go".
func (r *Repo) BufferName(ctx context.Context, path, revision string) (string, error) {
	p, err := r.normalize(path)
	if err != nil {
		return "", err
	}
	info, err := r.gateway.Info(ctx, p, revision)
	if err != nil {
		return "", err
	}
	colon := strings.IndexByte(info.URL, ':')
	if colon <= 0 {
		return "", fmt.Errorf("url %q has no scheme", info.URL)
	}
	return r.bufferPrefix + info.URL[colon:], nil
}

// Update brings paths, or the whole working copy when none are given, to
// revision (HEAD when empty).
func (r *Repo) Update(ctx context.Context, paths []string, revision string) error {
	targets := make([]string, 0, len(paths))
	for _, path := range paths {
		p, err := r.normalize(path)
		if err != nil {
			return err
		}
		targets = append(targets, p)
	}
	return r.gateway.Update(ctx, targets, revision)
}
