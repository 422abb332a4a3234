package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	TagLeft   key.Binding
	TagRight  key.Binding
	ToggleTag key.Binding
	MoreTags  key.Binding
	Search    key.Binding
	Enter     key.Binding
	Back      key.Binding
	Copy      key.Binding
	CopyJSON  key.Binding
	Quit      key.Binding
	Help      key.Binding

	Optimize   key.Binding
	CopyResult key.Binding
	UseResult  key.Binding
	Continue   key.Binding
}

var keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "上移"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "下移"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "下一页"),
	),
	PrevTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("Shift+Tab", "上一页"),
	),
	TagLeft: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "上一个标签"),
	),
	TagRight: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "下一个标签"),
	),
	ToggleTag: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("Space", "选择标签"),
	),
	MoreTags: key.NewBinding(
		key.WithKeys("+"),
		key.WithHelp("+", "更多/收起"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "搜索"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "查看"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "返回"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "插入"),
	),
	CopyJSON: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "复制 JSON"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "退出"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "帮助"),
	),
	Optimize: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("Ctrl+o", "优化 Prompt"),
	),
	CopyResult: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("Ctrl+y", "复制结果"),
	),
	UseResult: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("Ctrl+u", "使用此版本"),
	),
	Continue: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("Ctrl+r", "继续优化"),
	),
}

// helpKeys adapts a binding set to help.KeyMap
type helpKeys struct {
	short []key.Binding
	full  [][]key.Binding
}

func (h helpKeys) ShortHelp() []key.Binding  { return h.short }
func (h helpKeys) FullHelp() [][]key.Binding { return h.full }

func (k KeyMap) favoritesHelp() helpKeys {
	return helpKeys{
		short: []key.Binding{k.Search, k.ToggleTag, k.Enter, k.Copy, k.NextTab, k.Help, k.Quit},
		full: [][]key.Binding{
			{k.Up, k.Down, k.Enter, k.Back},
			{k.TagLeft, k.TagRight, k.ToggleTag, k.MoreTags},
			{k.Search, k.Copy, k.CopyJSON},
			{k.NextTab, k.PrevTab, k.Help, k.Quit},
		},
	}
}

func (k KeyMap) detailHelp() helpKeys {
	return helpKeys{
		short: []key.Binding{k.Up, k.Down, k.Copy, k.CopyJSON, k.Back},
		full:  [][]key.Binding{{k.Up, k.Down}, {k.Copy, k.CopyJSON, k.Back}},
	}
}

func (k KeyMap) optimizeHelp() helpKeys {
	return helpKeys{
		short: []key.Binding{k.Optimize, k.CopyResult, k.UseResult, k.Continue, k.NextTab},
		full: [][]key.Binding{
			{k.Optimize, k.CopyResult},
			{k.UseResult, k.Continue},
			{k.NextTab, k.PrevTab, k.Quit},
		},
	}
}

func (k KeyMap) recommendHelp() helpKeys {
	return helpKeys{
		short: []key.Binding{k.NextTab, k.PrevTab, k.Quit},
		full:  [][]key.Binding{{k.NextTab, k.PrevTab, k.Quit}},
	}
}
