package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the panel
func (m Model) View() string {
	if m.viewMode == ViewPromptDetail {
		return m.renderPromptDetailView()
	}

	sections := []string{
		CreateMainHeader(headerTitle),
		CreateTabs(tabLabels, int(m.tab)),
		"",
	}

	switch m.tab {
	case TabFavorites:
		sections = append(sections, m.renderFavoritesView())
	case TabOptimize:
		sections = append(sections, m.renderOptimizeView())
	case TabRecommend:
		sections = append(sections, m.renderRecommendView())
	}

	sections = append(sections, m.renderStatus(), m.renderHelp(), m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderFavoritesView() string {
	var b strings.Builder

	b.WriteString(m.search.View())
	b.WriteString("\n")
	b.WriteString(m.renderTagBar())
	b.WriteString("\n\n")

	if len(m.prompts) == 0 {
		b.WriteString(StyleTextMuted.Render("没有匹配的提示词"))
	} else {
		b.WriteString(m.promptList.View())
	}
	return AddMainPadding(b.String())
}

// renderTagBar shows the visible tags, selected ones highlighted, followed
// by the +N / 收起 control when some tags do not fit.
func (m Model) renderTagBar() string {
	visible := m.tags.Visible()
	parts := make([]string, 0, len(visible)+1)
	for i, tag := range visible {
		parts = append(parts, CreateTag(tag, m.tags.Selected.Has(tag), i == m.tags.Cursor))
	}

	if hidden := m.tags.Hidden(); hidden > 0 {
		control := fmt.Sprintf("+%d ▾", hidden)
		if m.tags.Expanded {
			control = "收起 ▴"
		}
		parts = append(parts, StyleTag.Render(control))
	}

	width := m.width - 4
	if width <= 0 {
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}
	return wrapInline(parts, width)
}

// wrapInline lays rendered chips left to right, breaking lines at width
func wrapInline(parts []string, width int) string {
	var lines []string
	var line []string
	lineWidth := 0
	for _, p := range parts {
		w := lipgloss.Width(p)
		if lineWidth > 0 && lineWidth+w > width {
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, line...))
			line, lineWidth = nil, 0
		}
		line = append(line, p)
		lineWidth += w
	}
	if len(line) > 0 {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, line...))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderOptimizeView() string {
	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(CreateButton("✦ 优化 Prompt", true))
	b.WriteString("\n")

	s := m.opt
	switch {
	case s.Optimizing:
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(StyleInfo.Render(s.Phase.Label()))

	case s.IsNotice():
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render(s.Result))

	case s.Result != "":
		enabled := s.ActionsEnabled()
		copyLabel := "复制"
		if s.Copied {
			copyLabel = "已复制 ✓"
		}

		body := lipgloss.JoinVertical(lipgloss.Left,
			StyleInfo.Render("✦ 优化结果"),
			StyleText.Width(max(m.input.Width()-4, 20)).Render(s.Visible()),
			"",
			lipgloss.JoinHorizontal(lipgloss.Top,
				CreateButton(copyLabel, true),
				CreateButton("使用此版本 →", enabled),
				CreateButton("继续优化", enabled),
			),
		)
		b.WriteString(StyleResultCard.Render(body))
	}

	return AddMainPadding(b.String())
}

func (m Model) renderRecommendView() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		StyleBadgeHighFreq.Render("💡"),
		"",
		StyleTitle.Render("智能推荐"),
		StyleTextMuted.Render("根据您的使用习惯，我们将为您推荐更适合的提示词"),
		"",
		StyleTag.Foreground(ColorAccent).Render("功能开发中..."),
	)

	width := max(m.width-4, lipgloss.Width(content))
	return AddMainPadding(lipgloss.PlaceHorizontal(width, lipgloss.Center, content))
}

func (m Model) renderPromptDetailView() string {
	title := CreateMainHeader(headerTitle)
	if m.selectedPrompt != nil {
		title = lipgloss.JoinHorizontal(lipgloss.Top, title, StyleTextMuted.Render("› "+m.selectedPrompt.Name))
	}

	top, bottom := CreateScrollIndicators(!m.viewport.AtTop(), !m.viewport.AtBottom())
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		top,
		AddMainPadding(m.viewport.View()),
		bottom,
		m.renderStatus(),
		m.help.View(m.keys.detailHelp()),
	)
}

func (m Model) renderStatus() string {
	if m.statusMsg == "" {
		return ""
	}
	return CreateStatus(m.statusMsg, m.statusType)
}

func (m Model) renderHelp() string {
	switch m.tab {
	case TabOptimize:
		return m.help.View(m.keys.optimizeHelp())
	case TabRecommend:
		return m.help.View(m.keys.recommendHelp())
	default:
		return m.help.View(m.keys.favoritesHelp())
	}
}

func (m Model) renderFooter() string {
	return CreateFooter("● "+footerText, footerOnline, max(m.width, 40))
}
