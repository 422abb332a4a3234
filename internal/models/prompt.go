package models

import (
	"strings"
)

// Badge labels shown under a prompt card
const (
	BadgeFavorite = "收藏"
	BadgeHighFreq = "高频使用"
)

// Prompt represents a reusable prompt in the panel's library
type Prompt struct {
	// Frontmatter fields
	ID       string   `yaml:"id" json:"id"`
	Name     string   `yaml:"title" json:"title"`
	Tags     []string `yaml:"tags" json:"tags"`
	HighFreq bool     `yaml:"high_freq" json:"high_freq"`
	Favorite bool     `yaml:"favorite" json:"favorite"`

	// Content fields
	Content  string `yaml:"-" json:"content"`             // Prompt body handed over by the insert action
	FilePath string `yaml:"-" json:"file_path,omitempty"` // Source file, empty for built-in prompts
}

// HasTag reports whether the prompt carries the given tag
func (p Prompt) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Badge returns the card footer label. Favorite wins over high frequency.
func (p Prompt) Badge() string {
	switch {
	case p.Favorite:
		return BadgeFavorite
	case p.HighFreq:
		return BadgeHighFreq
	default:
		return ""
	}
}

// Clone returns a deep copy so callers cannot alias the library's tag slices
func (p Prompt) Clone() *Prompt {
	c := p
	c.Tags = append([]string(nil), p.Tags...)
	return &c
}

// Implement list.Item interface for bubbles list component

// FilterValue returns the value used for filtering in lists
func (p Prompt) FilterValue() string {
	return cleanString(p.Name + " " + strings.Join(p.Tags, " "))
}

// Title satisfies the list.Item interface
func (p Prompt) Title() string {
	if p.Name != "" {
		return cleanString(p.Name)
	}
	return cleanString(p.ID)
}

// Description satisfies the list.Item interface
func (p Prompt) Description() string {
	return cleanString(strings.Join(p.Tags, " "))
}

// cleanString removes problematic characters that might cause rendering issues
func cleanString(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			b.WriteRune(' ')
		} else if r >= 32 && r != 127 {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
