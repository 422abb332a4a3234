package filter

// TagBar is the favorites tab's tag strip: the known tags, which of them are
// selected, whether the strip is expanded, and the keyboard cursor.
type TagBar struct {
	All      []string
	Limit    int
	Expanded bool
	Selected Selection
	Cursor   int
}

// NewTagBar creates a collapsed tag bar with nothing selected
func NewTagBar(all []string, limit int) TagBar {
	return TagBar{
		All:   append([]string(nil), all...),
		Limit: limit,
	}
}

// Visible returns the tags currently on screen
func (b TagBar) Visible() []string {
	return VisibleTags(b.All, b.Limit, b.Expanded)
}

// Hidden returns the count shown on the "+N" control while collapsed
func (b TagBar) Hidden() int {
	return HiddenCount(b.All, b.Limit)
}

// Toggle selects or deselects tag
func (b TagBar) Toggle(tag string) TagBar {
	b.Selected = b.Selected.Toggle(tag)
	return b
}

// ToggleExpanded flips between showing the first Limit tags and all tags.
// Collapsing pulls the cursor back onto a visible tag.
func (b TagBar) ToggleExpanded() TagBar {
	b.Expanded = !b.Expanded
	b.Cursor = b.clamp(b.Cursor)
	return b
}

// MoveCursor moves the cursor by delta within the visible tags
func (b TagBar) MoveCursor(delta int) TagBar {
	b.Cursor = b.clamp(b.Cursor + delta)
	return b
}

// ToggleAtCursor toggles the tag under the cursor
func (b TagBar) ToggleAtCursor() TagBar {
	visible := b.Visible()
	if len(visible) == 0 {
		return b
	}
	return b.Toggle(visible[b.clamp(b.Cursor)])
}

// CursorTag returns the tag under the cursor, if any
func (b TagBar) CursorTag() (string, bool) {
	visible := b.Visible()
	if len(visible) == 0 {
		return "", false
	}
	return visible[b.clamp(b.Cursor)], true
}

func (b TagBar) clamp(i int) int {
	n := len(b.Visible())
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
