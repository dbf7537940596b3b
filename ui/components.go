package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// UIColors 定义统一的颜色主题
type UIColors struct {
	Gray   lipgloss.Color
	Blue   lipgloss.Color
	Green  lipgloss.Color
	Yellow lipgloss.Color
	Red    lipgloss.Color
	White  lipgloss.Color
	Black  lipgloss.Color
	Orange lipgloss.Color
}

// DefaultColors 返回默认的颜色主题
func DefaultColors() UIColors {
	return UIColors{
		Gray:   lipgloss.Color("245"),
		Blue:   lipgloss.Color("39"),
		Green:  lipgloss.Color("42"),
		Yellow: lipgloss.Color("220"),
		Red:    lipgloss.Color("196"),
		White:  lipgloss.Color("255"),
		Black:  lipgloss.Color("0"),
		Orange: lipgloss.Color("208"),
	}
}

// UIStyles 定义统一的样式
type UIStyles struct {
	Colors     UIColors
	Head       lipgloss.Style
	Header     lipgloss.Style
	Staged     lipgloss.Style
	Unstaged   lipgloss.Style
	Untracked  lipgloss.Style
	Changelist lipgloss.Style
	Cursor     lipgloss.Style
	Help       lipgloss.Style
	Success    lipgloss.Style
	Error      lipgloss.Style
	Progress   lipgloss.Style
	Border     lipgloss.Style
}

// DefaultStyles 返回默认的样式集
func DefaultStyles() UIStyles {
	colors := DefaultColors()
	return UIStyles{
		Colors:     colors,
		Head:       lipgloss.NewStyle().Foreground(colors.White).Bold(true),
		Header:     lipgloss.NewStyle().Foreground(colors.Blue).Bold(true),
		Staged:     lipgloss.NewStyle().Foreground(colors.Green),
		Unstaged:   lipgloss.NewStyle().Foreground(colors.Red),
		Untracked:  lipgloss.NewStyle().Foreground(colors.Orange),
		Changelist: lipgloss.NewStyle().Foreground(colors.Yellow),
		Cursor:     lipgloss.NewStyle().Foreground(colors.Black).Background(colors.Blue),
		Help:       lipgloss.NewStyle().Foreground(colors.Gray),
		Success:    lipgloss.NewStyle().Foreground(colors.Green),
		Error:      lipgloss.NewStyle().Foreground(colors.Red),
		Progress:   lipgloss.NewStyle().Foreground(colors.Yellow),
		Border:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colors.Gray),
	}
}

// truncateContent 截断内容，保证显示宽度不超过 maxWidth
func truncateContent(content string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if lipgloss.Width(content) <= maxWidth {
		return content
	}

	var result strings.Builder
	for _, r := range content {
		if lipgloss.Width(result.String()+string(r)) > maxWidth {
			break
		}
		result.WriteRune(r)
	}
	return result.String()
}

// CalculateContentWidth 计算响应式内容宽度
func CalculateContentWidth(terminalWidth int) int {
	const (
		minWidth = 40
		maxWidth = 160
		margin   = 2
	)

	availableWidth := terminalWidth - margin
	if availableWidth < minWidth {
		return minWidth
	}
	if availableWidth > maxWidth {
		return maxWidth
	}
	return availableWidth
}

// RenderStatusLine 渲染状态行
func RenderStatusLine(icon, text string, style lipgloss.Style) string {
	return icon + " " + style.Render(text)
}
