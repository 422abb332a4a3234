// Package catalog holds the built-in prompt list the panel ships with.
package catalog

import "github.com/dpshade/pocket-prompt-panel/internal/models"

var builtin = []models.Prompt{
	{
		ID:       "writing-assistant",
		Name:     "写作助手",
		Tags:     []string{"#写作"},
		HighFreq: true,
		Favorite: true,
		Content:  "你是一位经验丰富的写作助手。请根据我提供的主题和要点，写一篇结构清晰、语言流畅的文章，并在结尾给出三条可改进的建议。",
	},
	{
		ID:       "code-debugging",
		Name:     "代码调试",
		Tags:     []string{"#代码"},
		HighFreq: true,
		Content:  "请阅读下面的代码和报错信息，先定位问题的根本原因，再给出最小修改方案，并说明如何验证修复是否有效。",
	},
	{
		ID:      "academic-polish",
		Name:    "学术润色",
		Tags:    []string{"#学术"},
		Content: "请以学术期刊编辑的标准润色以下段落：修正语法，统一术语，保持原意，并用列表标出所有改动。",
	},
	{
		ID:      "article-outline",
		Name:    "文章大纲",
		Tags:    []string{"#写作", "#工作"},
		Content: "请为以下主题生成一份三级文章大纲，每个一级标题下给出两到三个要点，并标注预计篇幅。",
	},
	{
		ID:      "translation-assistant",
		Name:    "翻译助手",
		Tags:    []string{"#翻译", "#智能"},
		Content: "请将以下内容翻译成自然地道的目标语言，保留专有名词原文，并对可能产生歧义的句子给出备选译法。",
	},
	{
		ID:      "reading-notes",
		Name:    "阅读笔记",
		Tags:    []string{"#阅读", "#笔记"},
		Content: "请把下面的阅读材料整理成笔记：核心观点、关键论据、值得摘录的句子，以及我可以进一步思考的问题。",
	},
	{
		ID:      "ielts-course",
		Name:    "雅思课程",
		Tags:    []string{"#雅思", "#课程", "#英语"},
		Content: "请扮演雅思口语考官，按 Part 1 到 Part 3 的顺序向我提问，每次只问一个问题，并在我回答后给出评分和改进建议。",
	},
}

// Default returns fresh copies of the built-in prompts in display order
func Default() []*models.Prompt {
	prompts := make([]*models.Prompt, len(builtin))
	for i, p := range builtin {
		prompts[i] = p.Clone()
	}
	return prompts
}
