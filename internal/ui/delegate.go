package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dpshade/pocket-prompt-panel/internal/models"
)

// promptDelegate renders a prompt card: title, tags, then the favorite or
// high-frequency badge.
type promptDelegate struct{}

func (d promptDelegate) Height() int                               { return 3 }
func (d promptDelegate) Spacing() int                              { return 1 }
func (d promptDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d promptDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	p, ok := listItem.(*models.Prompt)
	if !ok {
		return
	}

	marker := "  "
	title := StyleText.Bold(true).Render(p.Title())
	tags := StyleTextDim.Render(p.Description())
	if index == m.Index() {
		marker = lipgloss.NewStyle().Foreground(ColorPrimary).Render("▌ ")
		title = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Render(p.Title())
		tags = lipgloss.NewStyle().Foreground(ColorSecondary).Render(p.Description())
	}

	fmt.Fprintf(w, "%s%s\n  %s\n  %s", marker, title, tags, CreatePromptBadge(p.Badge(), p.Favorite))
}
