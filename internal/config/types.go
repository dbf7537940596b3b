package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config 配置文件结构
type Config struct {
	SvnBinary        string `json:"svn_binary" yaml:"svn_binary" toml:"svn_binary"`                         // svn 可执行文件
	MarkerDir        string `json:"marker_dir" yaml:"marker_dir" toml:"marker_dir"`                         // 工作副本标记目录
	IgnoreChangelist string `json:"ignore_changelist" yaml:"ignore_changelist" toml:"ignore_changelist"`    // 永不提交的 changelist
	PruneStaleStaged bool   `json:"prune_stale_staged" yaml:"prune_stale_staged" toml:"prune_stale_staged"` // 自动清理已失效的暂存路径
	LogLimit         int    `json:"log_limit" yaml:"log_limit" toml:"log_limit"`
	BufferPrefix     string `json:"buffer_prefix" yaml:"buffer_prefix" toml:"buffer_prefix"`
	Editor           string `json:"editor" yaml:"editor" toml:"editor"`
	Color            string `json:"color" yaml:"color" toml:"color"` // auto, always, never
	HighlightStyle   string `json:"highlight_style" yaml:"highlight_style" toml:"highlight_style"`
	StateDir         string `json:"state_dir" yaml:"state_dir" toml:"state_dir"`
	WatchDebounceMS  int    `json:"watch_debounce_ms" yaml:"watch_debounce_ms" toml:"watch_debounce_ms"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		SvnBinary:        "svn",
		MarkerDir:        ".svn",
		IgnoreChangelist: "ignore-on-commit",
		PruneStaleStaged: true,
		LogLimit:         10,
		BufferPrefix:     "svnstage",
		Color:            "auto",
		HighlightStyle:   "monokai",
		StateDir:         "~/.local/state/svnstage",
		WatchDebounceMS:  350,
	}
}

// Validate 检查配置是否合法
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SvnBinary) == "" {
		return fmt.Errorf("svn_binary must not be empty")
	}
	if strings.TrimSpace(c.MarkerDir) == "" {
		return fmt.Errorf("marker_dir must not be empty")
	}
	if c.LogLimit <= 0 {
		return fmt.Errorf("log_limit must be positive, got %d", c.LogLimit)
	}
	if c.WatchDebounceMS < 0 {
		return fmt.Errorf("watch_debounce_ms must not be negative, got %d", c.WatchDebounceMS)
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color must be one of auto, always, never; got %q", c.Color)
	}
	return nil
}

// EditorCommand returns the editor to open commit documents with.
func (c *Config) EditorCommand() string {
	if c.Editor != "" {
		return c.Editor
	}
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	return "vi"
}

// StatePath returns StateDir with a leading ~ expanded.
func (c *Config) StatePath() (string, error) {
	return ExpandHome(c.StateDir)
}

// WatchDebounce returns the watcher debounce delay.
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMS) * time.Millisecond
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Manager 配置管理器接口
type Manager interface {
	// Load 加载配置文件，缺失的字段使用默认值
	Load() (*Config, error)

	// LoadOrDefault 加载配置文件，文件不存在时返回默认配置
	LoadOrDefault() (*Config, error)

	// Save 保存配置文件（原子操作）
	Save(config *Config) error

	// CreateDefaultConfig 创建默认配置
	CreateDefaultConfig() error

	// Path 返回配置文件路径
	Path() string
}
