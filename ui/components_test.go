package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestTruncateContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		maxWidth int
		want     string
	}{
		{"fits", "M main.go", 20, "M main.go"},
		{"exact", "abcde", 5, "abcde"},
		{"cut", "abcdefgh", 5, "abcde"},
		{"wide runes", "暂存区文件", 4, "暂存"},
		{"zero width", "abc", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateContent(tt.content, tt.maxWidth))
		})
	}
}

func TestCalculateContentWidth(t *testing.T) {
	assert.Equal(t, 40, CalculateContentWidth(20))
	assert.Equal(t, 78, CalculateContentWidth(80))
	assert.Equal(t, 160, CalculateContentWidth(300))
}

func TestRenderStatusLine(t *testing.T) {
	line := RenderStatusLine("✓", "2 path(s) updated", lipgloss.NewStyle())
	assert.Equal(t, "✓ 2 path(s) updated", line)
}

func TestDefaultStyles(t *testing.T) {
	styles := DefaultStyles()
	assert.Equal(t, DefaultColors().Green, styles.Staged.GetForeground())
	assert.Equal(t, DefaultColors().Red, styles.Unstaged.GetForeground())
}
