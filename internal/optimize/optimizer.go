package optimize

import "unicode/utf8"

// EmptyInputNotice replaces the result when the input is blank
const EmptyInputNotice = "请输入需要优化的 prompt 内容。"

// CannedResults stand in for a real optimization backend
var CannedResults = []string{
	"请你作为一名资深内容策划，围绕我给出的主题撰写一篇 800 字左右的文章：先用一句话点明核心观点，再分三个小节展开论证，每节给出一个具体例子，最后用简短的行动建议收尾。语气专业但不生硬。",
	"你是一位严谨的技术顾问。请逐步分析我提供的问题：1) 复述问题并列出已知条件；2) 给出两到三种可行方案并比较优缺点；3) 推荐最佳方案并说明理由；4) 列出落地时需要注意的风险。输出使用 Markdown 格式。",
	"请扮演一位耐心的老师，用通俗易懂的语言解释我给出的概念：先给出一句话定义，再用一个生活中的类比帮助理解，接着举两个实际应用场景，最后出三道由浅入深的练习题并附上答案。",
}

// Optimizer turns an input prompt into an improved version
type Optimizer interface {
	Optimize(input string) string
}

// OptimizerFunc adapts a plain function to Optimizer
type OptimizerFunc func(input string) string

// Optimize implements Optimizer
func (f OptimizerFunc) Optimize(input string) string {
	return f(input)
}

// Canned picks one of a fixed list of results by input length (in
// characters) modulo the list size.
type Canned []string

// Optimize implements Optimizer
func (c Canned) Optimize(input string) string {
	if len(c) == 0 {
		return input
	}
	return c[utf8.RuneCountInString(input)%len(c)]
}

// DefaultOptimizer returns the canned optimizer over CannedResults
func DefaultOptimizer() Optimizer {
	return Canned(CannedResults)
}
