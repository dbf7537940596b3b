package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/penwyp/svnstage/backend"
	"github.com/penwyp/svnstage/internal/config"
	"github.com/penwyp/svnstage/internal/highlight"
	"github.com/penwyp/svnstage/internal/logger"
	"github.com/penwyp/svnstage/internal/state"
	"github.com/penwyp/svnstage/repo"
)

// version holds the current version of svnstage
// This will be set at build time via ldflags
var version = "dev"

// GetVersionString returns a formatted version string
func GetVersionString() string {
	return fmt.Sprintf("svnstage version %s", version)
}

// 将关键依赖抽象为变量以便测试时注入 Mock。
// 若在运行时未被替换，则使用默认实现。
var (
	gatewayProvider func(cfg *config.Config, root string) backend.Gateway = defaultGatewayProvider
	editorRunner    func(ctx context.Context, editor, path string) error   = runEditor
	isTerminal      func() bool                                           = stdoutIsTerminal
	appLogger       *zap.Logger                                           // 全局日志记录器
)

// session 保存一次命令执行所需的共享对象
type session struct {
	cfg         *config.Config
	registry    *repo.Registry
	store       *state.Store
	highlighter *highlight.Highlighter
	color       bool
}

var current *session

func defaultGatewayProvider(cfg *config.Config, root string) backend.Gateway {
	return backend.NewSVN(backend.NewExecRunner(appLogger), root,
		backend.WithBinary(cfg.SvnBinary),
		backend.WithLogger(appLogger))
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// -------------------------------------------------

var rootCmd = &cobra.Command{
	Use:   "svnstage",
	Short: "A git-style staging area for Subversion working copies",
	Long: `svnstage adds a staging area on top of a Subversion working copy.

Stage individual files, review a classified status view, and commit only
what is staged with a git-like commit document:

- Untracked, unstaged, staged and changelist groups
- Commit documents with the staged diff below a scissors line
- Per-revision log with diffs, file contents at any revision
- An interactive review screen that refreshes on file changes`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if appLogger != nil {
			_ = appLogger.Sync()
		}
	},
}

var (
	flagDebug  bool
	flagConfig string
	flagColor  string
	flagDir    string
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug output for troubleshooting")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default $XDG_CONFIG_HOME/svnstage/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "", "colorize output: auto, always or never")
	rootCmd.PersistentFlags().StringVarP(&flagDir, "directory", "C", "", "run as if started in this directory")
}

// Execute runs the command tree.
func Execute() error { return rootCmd.Execute() }

// ExecuteContext runs the command tree with ctx.
func ExecuteContext(ctx context.Context) error { return rootCmd.ExecuteContext(ctx) }

// ColorEnabled reports whether the last run decided to emit colors.
func ColorEnabled() bool {
	return current != nil && current.color
}

// setup 初始化日志、配置、仓库注册表与暂存状态存储
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	appLogger, err = logger.New(flagDebug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagColor != "" {
		cfg.Color = flagColor
	}
	if err := cfg.Validate(); err != nil {
		return invalidConfig(err)
	}

	stateDir, err := cfg.StatePath()
	if err != nil {
		return invalidConfig(err)
	}

	useColor := resolveColor(cfg.Color)
	color.NoColor = !useColor

	factory := func(root string) backend.Gateway { return gatewayProvider(cfg, root) }
	current = &session{
		cfg: cfg,
		registry: repo.NewRegistry(cfg.MarkerDir, factory,
			repo.WithIgnoreChangelist(cfg.IgnoreChangelist),
			repo.WithPruneStale(cfg.PruneStaleStaged),
			repo.WithBufferPrefix(cfg.BufferPrefix),
			repo.WithLogger(appLogger)),
		store:       state.NewStore(stateDir, appLogger),
		highlighter: highlight.New(cfg.HighlightStyle, useColor),
		color:       useColor,
	}
	appLogger.Debug("Session ready",
		zap.String("command", cmd.Name()),
		zap.String("svn", cfg.SvnBinary),
		zap.String("state", current.store.Path()),
		zap.Bool("color", useColor))
	return nil
}

func configManager() (config.Manager, error) {
	path := flagConfig
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, invalidConfig(err)
		}
	}
	return config.NewManager(path)
}

func loadConfig() (*config.Config, error) {
	mgr, err := configManager()
	if err != nil {
		return nil, err
	}
	return mgr.LoadOrDefault()
}

func resolveColor(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal()
}

// workingDir 返回 -C 指定的目录或当前目录
func workingDir() (string, error) {
	if flagDir != "" {
		return filepath.Abs(flagDir)
	}
	return os.Getwd()
}

// openRepo 定位工作副本并恢复持久化的暂存集合
func openRepo(ctx context.Context) (*repo.Repo, error) {
	dir, err := workingDir()
	if err != nil {
		return nil, err
	}
	r, err := current.registry.Get(dir)
	if err != nil {
		return nil, err
	}
	staged, err := current.store.Load(ctx, r.Root())
	if err != nil {
		return nil, err
	}
	r.Restore(staged)
	appLogger.Debug("Restored staging", zap.String("root", r.Root()), zap.Int("paths", len(staged)))
	return r, nil
}

// saveRepo 持久化暂存集合
func saveRepo(ctx context.Context, r *repo.Repo) error {
	return current.store.Save(ctx, r.Root(), r.StagedPaths())
}

// resolvePath makes a command line path absolute against the -C directory.
func resolvePath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	dir, err := workingDir()
	if err != nil {
		return "", err
	}
	return absJoin(dir, path), nil
}

// renderStatusBar 渲染带样式的状态条
func renderStatusBar(message string, isSuccess bool) string {
	indicator := "▶"
	if isSuccess {
		indicator = "✓"
	}
	if !ColorEnabled() {
		return indicator + " " + message
	}

	var style lipgloss.Style
	if isSuccess {
		style = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")). // Green
			Background(lipgloss.Color("22")). // Dark green
			Bold(true).
			Padding(0, 1)
	} else {
		style = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")). // Blue
			Background(lipgloss.Color("19")). // Dark blue
			Bold(true).
			Padding(0, 1)
	}
	return style.Render(indicator + " " + message)
}
