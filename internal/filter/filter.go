// Package filter implements tag selection and tag-based filtering of prompts.
//
// Every operation returns a new value. Selections, tag bars and prompt slices
// handed in are never modified, so the view can keep old states around freely.
package filter

import "github.com/dpshade/pocket-prompt-panel/internal/models"

// DefaultTagLimit is the number of tags shown before the expand control
const DefaultTagLimit = 5

// CollectTags returns every tag used by the prompts, deduplicated, in order
// of first appearance.
func CollectTags(prompts []*models.Prompt) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, p := range prompts {
		for _, tag := range p.Tags {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

// Selection is an insertion-ordered set of selected tags
type Selection struct {
	tags []string
}

// NewSelection builds a selection from tags, ignoring duplicates
func NewSelection(tags ...string) Selection {
	var s Selection
	for _, tag := range tags {
		if !s.Has(tag) {
			s = s.Toggle(tag)
		}
	}
	return s
}

// Toggle returns a new selection with tag added if absent or removed if present
func (s Selection) Toggle(tag string) Selection {
	next := make([]string, 0, len(s.tags)+1)
	removed := false
	for _, t := range s.tags {
		if t == tag {
			removed = true
			continue
		}
		next = append(next, t)
	}
	if !removed {
		next = append(next, tag)
	}
	return Selection{tags: next}
}

// Has reports whether tag is selected
func (s Selection) Has(tag string) bool {
	for _, t := range s.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Len returns the number of selected tags
func (s Selection) Len() int {
	return len(s.tags)
}

// Tags returns the selected tags in selection order
func (s Selection) Tags() []string {
	return append([]string(nil), s.tags...)
}

// Equal reports whether both selections hold the same tags, ignoring order
func (s Selection) Equal(other Selection) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, t := range s.tags {
		if !other.Has(t) {
			return false
		}
	}
	return true
}

// VisibleTags returns the first limit tags, or all of them when expanded
func VisibleTags(all []string, limit int, expanded bool) []string {
	if expanded || limit < 0 || len(all) <= limit {
		return append([]string(nil), all...)
	}
	return append([]string(nil), all[:limit]...)
}

// HiddenCount returns how many tags the collapsed bar hides
func HiddenCount(all []string, limit int) int {
	if limit < 0 || len(all) <= limit {
		return 0
	}
	return len(all) - limit
}

// Filter returns the prompts sharing at least one tag with the selection,
// in their original order. An empty selection keeps every prompt.
func Filter(prompts []*models.Prompt, selected Selection) []*models.Prompt {
	result := make([]*models.Prompt, 0, len(prompts))
	for _, p := range prompts {
		if selected.Len() == 0 || matchesAny(p, selected) {
			result = append(result, p)
		}
	}
	return result
}

func matchesAny(p *models.Prompt, selected Selection) bool {
	for _, tag := range selected.tags {
		if p.HasTag(tag) {
			return true
		}
	}
	return false
}
