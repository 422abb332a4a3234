package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Design System Colors - Adaptive based on terminal background
var (
	// Primary brand colors (work well on both light and dark)
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorAccent    lipgloss.Color

	// Semantic colors
	ColorSuccess lipgloss.Color
	ColorWarning lipgloss.Color
	ColorError   lipgloss.Color
	ColorInfo    lipgloss.Color

	// Neutral colors (contrast-adaptive)
	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color
	ColorTextDim   lipgloss.Color
	ColorBorder    lipgloss.Color
	ColorSurface   lipgloss.Color
)

// initializeColors sets up colors for theme ("dark", "light" or "" to
// detect) and rebuilds the component styles.
func initializeColors(theme string) {
	if theme == "" {
		theme = os.Getenv("GLAMOUR_STYLE")
	}

	switch strings.ToLower(theme) {
	case "light":
		setLightThemeColors()
	case "dark":
		setDarkThemeColors()
	default:
		if lipgloss.HasDarkBackground() {
			setDarkThemeColors()
		} else {
			setLightThemeColors()
		}
	}
	buildStyles()
}

func setDarkThemeColors() {
	ColorPrimary = lipgloss.Color("99")    // Indigo
	ColorSecondary = lipgloss.Color("141") // Soft purple
	ColorAccent = lipgloss.Color("214")    // Amber

	ColorSuccess = lipgloss.Color("10")
	ColorWarning = lipgloss.Color("11")
	ColorError = lipgloss.Color("9")
	ColorInfo = lipgloss.Color("12")

	ColorText = lipgloss.Color("252")
	ColorTextMuted = lipgloss.Color("244")
	ColorTextDim = lipgloss.Color("240")
	ColorBorder = lipgloss.Color("238")
	ColorSurface = lipgloss.Color("236")
}

func setLightThemeColors() {
	ColorPrimary = lipgloss.Color("62")
	ColorSecondary = lipgloss.Color("54")
	ColorAccent = lipgloss.Color("130")

	ColorSuccess = lipgloss.Color("22")
	ColorWarning = lipgloss.Color("136")
	ColorError = lipgloss.Color("160")
	ColorInfo = lipgloss.Color("24")

	ColorText = lipgloss.Color("232")
	ColorTextMuted = lipgloss.Color("240")
	ColorTextDim = lipgloss.Color("244")
	ColorBorder = lipgloss.Color("248")
	ColorSurface = lipgloss.Color("254")
}

// Component Styles
var (
	StyleTitle     lipgloss.Style
	StyleText      lipgloss.Style
	StyleTextMuted lipgloss.Style
	StyleTextDim   lipgloss.Style

	StyleTabActive   lipgloss.Style
	StyleTabInactive lipgloss.Style

	StyleTagSelected lipgloss.Style
	StyleTag         lipgloss.Style
	StyleTagCursor   lipgloss.Style

	StyleBadgeFavorite lipgloss.Style
	StyleBadgeHighFreq lipgloss.Style

	StyleButtonPrimary  lipgloss.Style
	StyleButtonDisabled lipgloss.Style

	StyleSuccess lipgloss.Style
	StyleWarning lipgloss.Style
	StyleError   lipgloss.Style
	StyleInfo    lipgloss.Style

	StyleResultCard      lipgloss.Style
	StyleFooter          lipgloss.Style
	StyleOnline          lipgloss.Style
	StyleScrollIndicator lipgloss.Style
)

// buildStyles derives every style from the current colors
func buildStyles() {
	StyleTitle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 1)

	StyleText = lipgloss.NewStyle().Foreground(ColorText)
	StyleTextMuted = lipgloss.NewStyle().Foreground(ColorTextMuted)
	StyleTextDim = lipgloss.NewStyle().Foreground(ColorTextDim)

	StyleTabActive = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Underline(true).
		Padding(0, 2)

	StyleTabInactive = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Padding(0, 2)

	StyleTagSelected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Background(ColorPrimary).
		Padding(0, 1).
		MarginRight(1)

	StyleTag = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorSurface).
		Padding(0, 1).
		MarginRight(1)

	StyleTagCursor = lipgloss.NewStyle().Underline(true)

	StyleBadgeFavorite = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleBadgeHighFreq = lipgloss.NewStyle().Foreground(ColorAccent)

	StyleButtonPrimary = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Background(ColorPrimary).
		Bold(true).
		Padding(0, 2).
		MarginRight(1)

	StyleButtonDisabled = lipgloss.NewStyle().
		Foreground(ColorTextDim).
		Background(ColorSurface).
		Padding(0, 2).
		MarginRight(1)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true).Padding(0, 1)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true).Padding(0, 1)
	StyleError = lipgloss.NewStyle().Foreground(ColorError).Bold(true).Padding(0, 1)
	StyleInfo = lipgloss.NewStyle().Foreground(ColorInfo).Bold(true).Padding(0, 1)

	StyleResultCard = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(0, 1).
		MarginTop(1)

	StyleFooter = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(ColorBorder)

	StyleOnline = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)

	StyleScrollIndicator = lipgloss.NewStyle().
		Foreground(ColorTextDim).
		Align(lipgloss.Center)
}

func init() {
	setDarkThemeColors()
	buildStyles()
}

// Create header for main page
func CreateMainHeader(titleText string) string {
	return StyleTitle.Render(titleText)
}

// CreateTabs renders the tab row with the active tab highlighted
func CreateTabs(labels []string, active int) string {
	tabs := make([]string, len(labels))
	for i, label := range labels {
		if i == active {
			tabs[i] = StyleTabActive.Render(label)
		} else {
			tabs[i] = StyleTabInactive.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// CreateTag renders one tag badge
func CreateTag(tag string, selected, cursor bool) string {
	style := StyleTag
	if selected {
		style = StyleTagSelected
	}
	if cursor {
		style = style.Inherit(StyleTagCursor).Bold(true)
	}
	return style.Render(tag)
}

// CreatePromptBadge renders the favorite or high-frequency badge line
func CreatePromptBadge(badge string, favorite bool) string {
	if badge == "" {
		return ""
	}
	if favorite {
		return StyleBadgeFavorite.Render("★ " + badge)
	}
	return StyleBadgeHighFreq.Render("✦ " + badge)
}

// CreateButton renders an action button, dimmed when disabled
func CreateButton(label string, enabled bool) string {
	if enabled {
		return StyleButtonPrimary.Render(label)
	}
	return StyleButtonDisabled.Render(label)
}

func CreateStatus(text string, statusType string) string {
	switch statusType {
	case "success":
		return StyleSuccess.Render(text)
	case "warning":
		return StyleWarning.Render(text)
	case "error":
		return StyleError.Render(text)
	case "info":
		return StyleInfo.Render(text)
	default:
		return StyleText.Render(text)
	}
}

// CreateFooter renders the connection footer across width
func CreateFooter(text, online string, width int) string {
	left := StyleTextMuted.Render(text)
	right := StyleOnline.Render(online)
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return StyleFooter.Width(max(width, 1)).Render(left + strings.Repeat(" ", gap) + right)
}

// Add consistent padding to main content (left only, no top padding)
func AddMainPadding(content string) string {
	return lipgloss.NewStyle().PaddingLeft(2).Render(content)
}

// Create scroll indicators based on scroll state
func CreateScrollIndicators(canScrollUp, canScrollDown bool) (string, string) {
	top := StyleScrollIndicator.Render("─────────")
	if canScrollUp {
		top = StyleScrollIndicator.Render("...")
	}
	bottom := StyleScrollIndicator.Render("─────────")
	if canScrollDown {
		bottom = StyleScrollIndicator.Render("...")
	}
	return top, bottom
}
