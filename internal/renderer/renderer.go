package renderer

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/dpshade/pocket-prompt-panel/internal/models"
)

// Format names accepted by Render
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Renderer handles prompt rendering
type Renderer struct {
	prompt *models.Prompt
}

// NewRenderer creates a new renderer instance
func NewRenderer(prompt *models.Prompt) *Renderer {
	return &Renderer{prompt: prompt}
}

// RenderText renders the prompt body as plain text
func (r *Renderer) RenderText() string {
	return r.prompt.Content
}

// RenderJSON renders the prompt as a JSON message array for LLM APIs
func (r *Renderer) RenderJSON() (string, error) {
	messages := []Message{
		{
			Role:    "user",
			Content: r.RenderText(),
		},
	}

	jsonBytes, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal to JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// Message represents a chat message for LLM APIs
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Markdown returns the prompt as a markdown document: title, badge, tags
// and body.
func (r *Renderer) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.prompt.Name)
	if badge := r.prompt.Badge(); badge != "" {
		fmt.Fprintf(&b, "**%s**\n\n", badge)
	}
	if len(r.prompt.Tags) > 0 {
		tags := make([]string, len(r.prompt.Tags))
		for i, t := range r.prompt.Tags {
			tags[i] = "`" + t + "`"
		}
		b.WriteString(strings.Join(tags, " "))
		b.WriteString("\n\n")
	}
	b.WriteString(r.prompt.Content)
	b.WriteString("\n")
	return b.String()
}

// RenderMarkdown renders Markdown through a glamour renderer
func (r *Renderer) RenderMarkdown(tr *glamour.TermRenderer) (string, error) {
	out, err := tr.Render(r.Markdown())
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// Render renders the prompt in the named format. Markdown output is the
// unstyled document so it can be piped.
func (r *Renderer) Render(format string) (string, error) {
	switch format {
	case "", FormatText:
		return r.RenderText(), nil
	case FormatJSON:
		return r.RenderJSON()
	case FormatMarkdown:
		return r.Markdown(), nil
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}

// NewTermRenderer creates a glamour renderer for theme ("dark", "light" or
// "" to detect). GLAMOUR_STYLE overrides everything.
func NewTermRenderer(theme string, wordWrap int) (*glamour.TermRenderer, error) {
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		return glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wordWrap),
		)
	}

	profile := termenv.ColorProfile()
	var dark bool
	switch strings.ToLower(theme) {
	case "dark":
		dark = true
	case "light":
	default:
		dark = lipgloss.HasDarkBackground()
	}

	// Limited color terminals get glamour's own detection
	var styleOption glamour.TermRendererOption
	switch {
	case profile != termenv.TrueColor && profile != termenv.ANSI256:
		styleOption = glamour.WithAutoStyle()
	case dark:
		styleOption = glamour.WithStandardStyle("dark")
	default:
		styleOption = glamour.WithStandardStyle("light")
	}

	return glamour.NewTermRenderer(
		styleOption,
		glamour.WithColorProfile(profile),
		glamour.WithWordWrap(wordWrap),
	)
}
