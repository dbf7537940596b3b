// Package highlight colors diffs and file contents for terminal output.
package highlight

import (
	"bytes"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter renders text with ANSI 256-color escapes. A disabled
// highlighter returns its input unchanged.
type Highlighter struct {
	enabled   bool
	style     *chroma.Style
	formatter chroma.Formatter
}

// New creates a highlighter using the named chroma style. Unknown styles
// fall back to chroma's default.
func New(styleName string, enabled bool) *Highlighter {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	return &Highlighter{enabled: enabled, style: style, formatter: formatter}
}

// Enabled reports whether output is colored.
func (h *Highlighter) Enabled() bool { return h.enabled }

// Diff colors unified diff text.
func (h *Highlighter) Diff(text string) string {
	return h.render(lexers.Get("diff"), text)
}

// File colors content using the lexer matching path.
func (h *Highlighter) File(path, content string) string {
	return h.render(lexerForPath(path), content)
}

func (h *Highlighter) render(lexer chroma.Lexer, text string) string {
	if !h.enabled || text == "" || lexer == nil {
		return text
	}
	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return text
	}
	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return text
	}
	return buf.String()
}

func lexerForPath(path string) chroma.Lexer {
	if path == "" {
		return nil
	}
	lexer := lexers.Match(path)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}
