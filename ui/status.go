package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/penwyp/svnstage/backend"
	"github.com/penwyp/svnstage/repo"
)

// Repository is the part of repo.Repo the review screen drives.
type Repository interface {
	Classify(ctx context.Context) (repo.Classified, error)
	Branch(ctx context.Context) (string, error)
	Stage(ctx context.Context, path string) error
	Unstage(ctx context.Context, path string) error
	IsStaged(path string) bool
	Root() string
}

// Previewer renders the diff shown for an entry.
type Previewer func(ctx context.Context, entry backend.StatusEntry) string

// RefreshMsg asks the model to reload status, e.g. after a file watcher event.
type RefreshMsg struct{}

type statusLoadedMsg struct {
	classified repo.Classified
	branch     string
	err        error
}

type stagingDoneMsg struct {
	changed int
	err     error
}

type previewMsg struct {
	path string
	text string
}

type rowKind int

const (
	rowHeader rowKind = iota
	rowEntry
)

type row struct {
	kind    rowKind
	section int
	entry   backend.StatusEntry
}

// StatusModel is the interactive status view. Backend calls run as tea
// commands, one at a time: Repo is not safe for concurrent use, so input is
// ignored while busy and refresh requests are queued.
type StatusModel struct {
	ctx      context.Context
	repo     Repository
	preview  Previewer
	onChange func()

	spinner  spinner.Model
	viewport viewport.Model
	styles   UIStyles

	branch   string
	sections []repo.Section
	rows     []row
	cursor   int

	busy           bool
	pendingRefresh bool
	showPreview    bool
	previewPath    string
	message        string
	err            error

	width  int
	height int
}

// NewStatusModel creates the review screen for r. preview may be nil, in
// which case "d" does nothing.
func NewStatusModel(ctx context.Context, r Repository, preview Previewer) *StatusModel {
	sp := spinner.New()
	sp.Spinner = spinner.Line
	return &StatusModel{
		ctx:      ctx,
		repo:     r,
		preview:  preview,
		spinner:  sp,
		viewport: viewport.New(80, 12),
		styles:   DefaultStyles(),
		width:    80,
		height:   24,
	}
}

// OnStagingChange registers fn to run after every successful stage or
// unstage, e.g. to persist the staging set.
func (m *StatusModel) OnStagingChange(fn func()) *StatusModel {
	m.onChange = fn
	return m
}

// Err returns the last error shown to the user.
func (m *StatusModel) Err() error { return m.err }

// Init 加载状态并启动 spinner
func (m *StatusModel) Init() tea.Cmd {
	m.busy = true
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m *StatusModel) loadCmd() tea.Cmd {
	ctx, r := m.ctx, m.repo
	return func() tea.Msg {
		c, err := r.Classify(ctx)
		if err != nil {
			return statusLoadedMsg{err: err}
		}
		branch, err := r.Branch(ctx)
		return statusLoadedMsg{classified: c, branch: branch, err: err}
	}
}

// stagingCmd stages or unstages paths. Paths that are already in the
// requested state are skipped.
func (m *StatusModel) stagingCmd(paths []string, stage bool) tea.Cmd {
	ctx, r := m.ctx, m.repo
	return func() tea.Msg {
		changed := 0
		for _, p := range paths {
			staged := r.IsStaged(p)
			var err error
			switch {
			case stage && !staged:
				err = r.Stage(ctx, p)
			case !stage && staged:
				err = r.Unstage(ctx, p)
			default:
				continue
			}
			if err != nil {
				return stagingDoneMsg{changed: changed, err: err}
			}
			changed++
		}
		return stagingDoneMsg{changed: changed}
	}
}

func (m *StatusModel) previewCmd(entry backend.StatusEntry) tea.Cmd {
	ctx, preview := m.ctx, m.preview
	return func() tea.Msg {
		return previewMsg{path: entry.Path, text: preview(ctx, entry)}
	}
}

// startBusy marks the model busy and restarts the spinner alongside cmd.
func (m *StatusModel) startBusy(cmd tea.Cmd) tea.Cmd {
	m.busy = true
	return tea.Batch(m.spinner.Tick, cmd)
}

// Update 处理按键与后台命令结果
func (m *StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = CalculateContentWidth(msg.Width)
		m.viewport.Height = max(msg.Height/2-2, 3)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case RefreshMsg:
		if m.busy {
			m.pendingRefresh = true
			return m, nil
		}
		return m, m.startBusy(m.loadCmd())

	case statusLoadedMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.setStatus(msg.branch, msg.classified)
		if m.pendingRefresh {
			m.pendingRefresh = false
			return m, m.startBusy(m.loadCmd())
		}
		return m, nil

	case stagingDoneMsg:
		if msg.changed > 0 && m.onChange != nil {
			m.onChange()
		}
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.message = fmt.Sprintf("%d path(s) updated", msg.changed)
		}
		return m, m.loadCmd()

	case previewMsg:
		m.busy = false
		m.previewPath = msg.path
		m.showPreview = true
		m.viewport.SetContent(msg.text)
		m.viewport.GotoTop()
		return m, nil
	}
	return m, nil
}

func (m *StatusModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}

	switch msg.String() {
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "ctrl+n":
		m.jumpSection(1)
	case "ctrl+p":
		m.jumpSection(-1)
	case "esc":
		m.showPreview = false
	case "pgdown", "ctrl+d":
		m.viewport.HalfViewDown()
	case "pgup", "ctrl+u":
		m.viewport.HalfViewUp()
	case "r":
		m.message, m.err = "", nil
		return m, m.startBusy(m.loadCmd())
	case " ", "s", "-", "a":
		m.message, m.err = "", nil
		return m, m.toggleCurrent()
	case "d":
		return m, m.togglePreview()
	}
	return m, nil
}

// toggleCurrent toggles the entry under the cursor. On a section header it
// unstages the whole block when it is the staged block and stages it
// otherwise.
func (m *StatusModel) toggleCurrent() tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	r := m.rows[m.cursor]
	if r.kind == rowEntry {
		stage := !m.repo.IsStaged(r.entry.Path)
		return m.startBusy(m.stagingCmd([]string{r.entry.Path}, stage))
	}

	section := m.sections[r.section]
	paths := make([]string, 0, len(section.Entries))
	for _, e := range section.Entries {
		paths = append(paths, e.Path)
	}
	return m.startBusy(m.stagingCmd(paths, section.Kind != repo.SectionStaged))
}

func (m *StatusModel) togglePreview() tea.Cmd {
	if m.preview == nil || m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	r := m.rows[m.cursor]
	if r.kind != rowEntry {
		return nil
	}
	if m.showPreview && m.previewPath == r.entry.Path {
		m.showPreview = false
		return nil
	}
	return m.startBusy(m.previewCmd(r.entry))
}

func (m *StatusModel) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.rows)-1)
}

func (m *StatusModel) jumpSection(dir int) {
	for i := m.cursor + dir; i >= 0 && i < len(m.rows); i += dir {
		if m.rows[i].kind == rowHeader {
			m.cursor = i
			return
		}
	}
}

// setStatus rebuilds the rows, keeping the cursor on the same path when it
// is still listed.
func (m *StatusModel) setStatus(branch string, c repo.Classified) {
	var current string
	if m.cursor >= 0 && m.cursor < len(m.rows) && m.rows[m.cursor].kind == rowEntry {
		current = m.rows[m.cursor].entry.Path
	}

	m.branch = branch
	m.sections = c.Sections()
	m.rows = m.rows[:0]
	for i, s := range m.sections {
		m.rows = append(m.rows, row{kind: rowHeader, section: i})
		for _, e := range s.Entries {
			m.rows = append(m.rows, row{kind: rowEntry, section: i, entry: e})
		}
	}

	if current != "" {
		for i, r := range m.rows {
			if r.kind == rowEntry && r.entry.Path == current {
				m.cursor = i
				return
			}
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *StatusModel) rowText(r row) string {
	s := m.sections[r.section]
	if r.kind == rowHeader {
		return fmt.Sprintf("%s (%d)", s.Title(), len(s.Entries))
	}
	rel, err := filepath.Rel(m.repo.Root(), r.entry.Path)
	if err != nil {
		rel = r.entry.Path
	}
	return fmt.Sprintf("  %s %s", repo.Symbol(r.entry.Type), rel)
}

func (m *StatusModel) sectionStyle(kind repo.SectionKind) lipgloss.Style {
	switch kind {
	case repo.SectionStaged:
		return m.styles.Staged
	case repo.SectionUntracked:
		return m.styles.Untracked
	case repo.SectionChangelist:
		return m.styles.Changelist
	default:
		return m.styles.Unstaged
	}
}

// View 渲染状态列表、差异预览与帮助行
func (m *StatusModel) View() string {
	width := CalculateContentWidth(m.width)
	var b strings.Builder

	head := m.styles.Head.Render("Head: " + m.branch)
	if m.busy {
		head += " " + m.styles.Progress.Render(m.spinner.View())
	}
	b.WriteString(head + "\n")

	if len(m.rows) == 0 && !m.busy && m.err == nil {
		b.WriteString("\n" + m.styles.Help.Render("Nothing to commit, working copy clean") + "\n")
	}
	for i, r := range m.rows {
		if r.kind == rowHeader {
			b.WriteString("\n")
		}
		text := truncateContent(m.rowText(r), width)
		switch {
		case i == m.cursor:
			text = m.styles.Cursor.Render(text)
		case r.kind == rowHeader:
			text = m.styles.Header.Render(text)
		default:
			text = m.sectionStyle(m.sections[r.section].Kind).Render(text)
		}
		b.WriteString(text + "\n")
	}

	if m.showPreview {
		b.WriteString("\n" + m.styles.Border.Render(m.viewport.View()) + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(RenderStatusLine("✗", m.err.Error(), m.styles.Error) + "\n")
	case m.message != "":
		b.WriteString(RenderStatusLine("✓", m.message, m.styles.Success) + "\n")
	}
	b.WriteString(m.styles.Help.Render("j/k move • space/s toggle • d diff • r refresh • ctrl+n/p section • q quit"))
	return b.String()
}
