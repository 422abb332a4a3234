package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/dpshade/pocket-prompt-panel/internal/clipboard"
	apperrors "github.com/dpshade/pocket-prompt-panel/internal/errors"
	"github.com/dpshade/pocket-prompt-panel/internal/filter"
	"github.com/dpshade/pocket-prompt-panel/internal/models"
	"github.com/dpshade/pocket-prompt-panel/internal/optimize"
	"github.com/dpshade/pocket-prompt-panel/internal/renderer"
	"github.com/dpshade/pocket-prompt-panel/internal/service"
)

const (
	headerTitle   = "Prompt 管理器"
	footerText    = "已连接到 AI 助手"
	footerOnline  = "在线"
	statusTimeout = 3 * time.Second
)

// Tab is one of the panel's pages
type Tab int

const (
	TabFavorites Tab = iota
	TabOptimize
	TabRecommend
	tabCount
)

var tabLabels = []string{"收藏", "优化", "推荐"}

// ViewMode represents the current view in the TUI
type ViewMode int

const (
	ViewPanel ViewMode = iota
	ViewPromptDetail
)

// optimizeChangedMsg is delivered after every optimize machine change
type optimizeChangedMsg struct{}

// clearStatusMsg clears the status line if it is still the one with id
type clearStatusMsg struct{ id int }

// waitForChange blocks on the machine's change signal. The model re-arms it
// after every delivery.
func waitForChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return optimizeChangedMsg{}
	}
}

// Options wires the model's collaborators
type Options struct {
	Service   *service.Service
	Machine   *optimize.Machine
	Clipboard clipboard.Writer
	Logger    *zap.Logger
	Theme     string
	TagLimit  int
}

// Model represents the TUI application state
type Model struct {
	service    *service.Service
	machine    *optimize.Machine
	clipboard  clipboard.Writer
	logger     *zap.Logger
	errHandler apperrors.ErrorHandler
	theme      string

	tab      Tab
	viewMode ViewMode

	// Favorites
	tags           filter.TagBar
	search         textinput.Model
	promptList     list.Model
	prompts        []*models.Prompt
	selectedPrompt *models.Prompt

	// Optimize
	input    textarea.Model
	spinner  spinner.Model
	spinning bool
	opt      optimize.State

	// Detail
	viewport        viewport.Model
	glamourRenderer *glamour.TermRenderer

	help help.Model
	keys KeyMap

	width  int
	height int

	statusMsg  string
	statusType string
	statusID   int
}

// NewModel creates a new TUI model
func NewModel(opts Options) *Model {
	initializeColors(opts.Theme)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := opts.TagLimit
	if limit <= 0 {
		limit = filter.DefaultTagLimit
	}

	search := textinput.New()
	search.Placeholder = "搜索提示词..."
	search.Prompt = "🔍 "

	l := list.New(nil, promptDelegate{}, 60, 12) // Resized on first WindowSizeMsg
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap = listKeyMap()

	input := textarea.New()
	input.Placeholder = "请输入需要优化的 prompt..."
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.SetWidth(60)
	input.SetHeight(5)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	vp := viewport.New(60, 12)
	vp.Style = lipgloss.NewStyle()

	m := &Model{
		service:    opts.Service,
		machine:    opts.Machine,
		clipboard:  opts.Clipboard,
		logger:     logger,
		errHandler: apperrors.NewTUIErrorHandler(logger, true),
		theme:      opts.Theme,
		tab:        TabFavorites,
		viewMode:   ViewPanel,
		tags:       filter.NewTagBar(opts.Service.GetAllTags(), limit),
		search:     search,
		promptList: l,
		input:      input,
		spinner:    sp,
		viewport:   vp,
		help:       help.New(),
		keys:       keys,
	}
	m.refreshPrompts()
	m.opt = m.machine.Snapshot()
	return m
}

// listKeyMap keeps the list to vertical movement so the tag bar owns
// left and right.
func listKeyMap() list.KeyMap {
	km := list.DefaultKeyMap()
	km.NextPage = key.NewBinding(key.WithKeys("pgdown"))
	km.PrevPage = key.NewBinding(key.WithKeys("pgup"))
	km.Quit = key.NewBinding(key.WithDisabled())
	km.ForceQuit = key.NewBinding(key.WithDisabled())
	km.ShowFullHelp = key.NewBinding(key.WithDisabled())
	km.CloseFullHelp = key.NewBinding(key.WithDisabled())
	return km
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return waitForChange(m.machine.Changes())
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case clearStatusMsg:
		if msg.id == m.statusID {
			m.statusMsg = ""
		}
		return m, nil

	case optimizeChangedMsg:
		m.opt = m.machine.Snapshot()
		return m, waitForChange(m.machine.Changes())

	case spinner.TickMsg:
		if !m.opt.Optimizing {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blinks and other component messages go to the focused input
	var cmd tea.Cmd
	switch {
	case m.tab == TabOptimize:
		m.input, cmd = m.input.Update(msg)
	case m.search.Focused():
		m.search, cmd = m.search.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.viewMode == ViewPromptDetail {
		return m.handleDetailKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab((m.tab + 1) % tabCount)
	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab((m.tab + tabCount - 1) % tabCount)
	}

	switch m.tab {
	case TabFavorites:
		return m.handleFavoritesKey(msg)
	case TabOptimize:
		return m.handleOptimizeKey(msg)
	default:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil
	}
}

func (m Model) handleFavoritesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.search.Focused() {
		switch msg.String() {
		case "esc", "enter":
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		before := m.search.Value()
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			m.refreshPrompts()
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Search):
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.TagLeft):
		m.tags = m.tags.MoveCursor(-1)
		return m, nil
	case key.Matches(msg, m.keys.TagRight):
		m.tags = m.tags.MoveCursor(1)
		return m, nil
	case key.Matches(msg, m.keys.ToggleTag):
		m.toggleTagAtCursor()
		return m, nil
	case key.Matches(msg, m.keys.MoreTags):
		m.tags = m.tags.ToggleExpanded()
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.clearFilters()
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		cmd := m.openDetail()
		return m, cmd
	case key.Matches(msg, m.keys.Copy):
		cmd := m.copyPrompt(false)
		return m, cmd
	case key.Matches(msg, m.keys.CopyJSON):
		cmd := m.copyPrompt(true)
		return m, cmd
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.promptList, cmd = m.promptList.Update(msg)
	return m, cmd
}

func (m Model) handleOptimizeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Optimize):
		cmd := m.startOptimize()
		return m, cmd
	case key.Matches(msg, m.keys.CopyResult):
		cmd := m.copyResult()
		return m, cmd
	case key.Matches(msg, m.keys.UseResult):
		cmd := m.useResult()
		return m, cmd
	case key.Matches(msg, m.keys.Continue):
		cmd := m.continueOptimizing()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.closeDetail()
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Copy):
		cmd := m.copyPrompt(false)
		return m, cmd
	case key.Matches(msg, m.keys.CopyJSON):
		cmd := m.copyPrompt(true)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// Transitions

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.machine.Stop()
	return m, tea.Quit
}

func (m Model) switchTab(tab Tab) (tea.Model, tea.Cmd) {
	m.tab = tab
	m.search.Blur()
	if tab == TabOptimize {
		cmd := m.input.Focus()
		return m, cmd
	}
	m.input.Blur()
	return m, nil
}

func (m *Model) toggleTagAtCursor() {
	m.tags = m.tags.ToggleAtCursor()
	m.refreshPrompts()
}

func (m *Model) clearFilters() {
	m.tags.Selected = filter.NewSelection()
	m.search.SetValue("")
	m.refreshPrompts()
}

// refreshPrompts recomputes the favorites list from search and tags
func (m *Model) refreshPrompts() {
	m.prompts = m.service.Browse(m.search.Value(), m.tags.Selected)
	items := make([]list.Item, len(m.prompts))
	for i, p := range m.prompts {
		items[i] = p
	}
	m.promptList.SetItems(items)
	m.promptList.ResetSelected()
}

func (m *Model) currentPrompt() *models.Prompt {
	if m.viewMode == ViewPromptDetail && m.selectedPrompt != nil {
		return m.selectedPrompt
	}
	if p, ok := m.promptList.SelectedItem().(*models.Prompt); ok {
		return p
	}
	return nil
}

func (m *Model) openDetail() tea.Cmd {
	p := m.currentPrompt()
	if p == nil {
		return nil
	}

	if m.glamourRenderer == nil {
		tr, err := renderer.NewTermRenderer(m.theme, m.viewport.Width)
		if err != nil {
			return m.setError(apperrors.Wrap(err, apperrors.ErrCodeInternalError, "Failed to create markdown renderer"))
		}
		m.glamourRenderer = tr
	}

	r := renderer.NewRenderer(p)
	content, err := r.RenderMarkdown(m.glamourRenderer)
	if err != nil {
		m.logger.Warn("Markdown render failed", zap.String("prompt", p.ID), zap.Error(err))
		content = r.Markdown()
	}

	m.selectedPrompt = p
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
	m.viewMode = ViewPromptDetail
	return nil
}

func (m *Model) closeDetail() {
	m.viewMode = ViewPanel
	m.selectedPrompt = nil
}

// copyPrompt inserts the prompt body into the clipboard, or its JSON
// message form.
func (m *Model) copyPrompt(asJSON bool) tea.Cmd {
	p := m.currentPrompt()
	if p == nil {
		return nil
	}

	r := renderer.NewRenderer(p)
	text := r.RenderText()
	if asJSON {
		var err error
		if text, err = r.RenderJSON(); err != nil {
			return m.setError(apperrors.Wrap(err, apperrors.ErrCodeInternalError, "Failed to render JSON"))
		}
	}

	msg, err := clipboard.CopyWithFallback(m.clipboard, text)
	if err != nil {
		return m.setError(err)
	}
	m.logger.Info("Prompt copied", zap.String("prompt", p.ID), zap.Bool("json", asJSON))
	return m.setStatus(fmt.Sprintf("%s：%s", msg, p.Name), "success")
}

func (m *Model) startOptimize() tea.Cmd {
	m.machine.Optimize(m.input.Value())
	m.opt = m.machine.Snapshot()
	return m.startSpinner()
}

func (m *Model) continueOptimizing() tea.Cmd {
	if !m.machine.Continue() {
		return m.refusedStatus()
	}
	m.opt = m.machine.Snapshot()
	return m.startSpinner()
}

func (m *Model) useResult() tea.Cmd {
	text, ok := m.machine.UseResult()
	if !ok {
		return m.refusedStatus()
	}
	m.input.SetValue(text)
	return m.setStatus("已使用优化版本", "success")
}

// refusedStatus explains why a result action did not run
func (m *Model) refusedStatus() tea.Cmd {
	s := m.machine.Snapshot()
	if s.Optimizing || !s.RevealDone() {
		return m.setStatus("请等待当前优化完成", "warning")
	}
	return m.setStatus("还没有可用的优化结果", "warning")
}

func (m *Model) copyResult() tea.Cmd {
	if err := m.machine.Copy(m.clipboard); err != nil {
		return m.setError(err)
	}
	m.opt = m.machine.Snapshot()
	return m.setStatus(clipboard.CopiedMessage, "success")
}

func (m *Model) startSpinner() tea.Cmd {
	if !m.opt.Optimizing || m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

// setStatus shows text on the status line until statusTimeout passes or a
// newer status replaces it.
func (m *Model) setStatus(text, statusType string) tea.Cmd {
	m.statusID++
	m.statusMsg = text
	m.statusType = statusType
	id := m.statusID
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func (m *Model) setError(err error) tea.Cmd {
	appErr := m.errHandler.HandleError(err)
	statusType := "error"
	if apperrors.GetAppError(appErr).Severity == apperrors.SeverityWarning {
		statusType = "warning"
	}
	return m.setStatus(m.errHandler.FormatError(appErr), statusType)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	// header, tabs, search, tags, status, help and footer
	const reserved = 12
	contentWidth := max(width-4, 20)
	listHeight := max(height-reserved, 3)

	m.search.Width = contentWidth - 4
	m.promptList.SetSize(contentWidth, listHeight)
	m.input.SetWidth(contentWidth)
	m.help.Width = contentWidth

	m.viewport.Width = contentWidth
	m.viewport.Height = max(height-8, 3)
	if tr, err := renderer.NewTermRenderer(m.theme, contentWidth); err == nil {
		m.glamourRenderer = tr
		if m.viewMode == ViewPromptDetail && m.selectedPrompt != nil {
			if content, err := renderer.NewRenderer(m.selectedPrompt).RenderMarkdown(tr); err == nil {
				m.viewport.SetContent(content)
			}
		}
	}
}
