// Package optimize drives the optimize tab: a timed sequence of phases that
// ends by revealing the optimized prompt one character at a time.
package optimize

import (
	"strings"
	"time"
)

// Phase is a step of an optimize session
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAnalyzing
	PhaseGenerating
	PhaseComplete
	PhaseRevealing
)

// String returns the phase name used in logs
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAnalyzing:
		return "analyzing"
	case PhaseGenerating:
		return "generating"
	case PhaseComplete:
		return "complete"
	case PhaseRevealing:
		return "revealing"
	default:
		return "unknown"
	}
}

// Label returns the status text the panel shows for the phase
func (p Phase) Label() string {
	switch p {
	case PhaseAnalyzing:
		return "正在分析 prompt…"
	case PhaseGenerating:
		return "正在生成优化版本…"
	case PhaseComplete:
		return "优化完成"
	default:
		return ""
	}
}

// Timings are the delays between phases
type Timings struct {
	Analyze   time.Duration // Analyzing -> Generating
	Generate  time.Duration // Generating -> Complete
	Complete  time.Duration // Complete -> Revealing
	Reveal    time.Duration // one revealed character
	CopyReset time.Duration // how long the copied flag stays set
}

// DefaultTimings returns the panel's standard animation timings
func DefaultTimings() Timings {
	return Timings{
		Analyze:   800 * time.Millisecond,
		Generate:  1000 * time.Millisecond,
		Complete:  1000 * time.Millisecond,
		Reveal:    30 * time.Millisecond,
		CopyReset: 2000 * time.Millisecond,
	}
}

// Session is one optimize run. A new one replaces it on every trigger.
type Session struct {
	ID         string
	Input      string
	Result     string
	Revealed   int // characters of Result on screen
	Phase      Phase
	Optimizing bool
}

// Length returns the result length in characters
func (s Session) Length() int {
	return len([]rune(s.Result))
}

// Visible returns the revealed prefix of the result
func (s Session) Visible() string {
	runes := []rune(s.Result)
	if s.Revealed >= len(runes) {
		return s.Result
	}
	return string(runes[:s.Revealed])
}

// RevealDone reports whether the whole result is on screen
func (s Session) RevealDone() bool {
	return s.Revealed >= s.Length()
}

// IsNotice reports whether Result is the blank-input notice
func (s Session) IsNotice() bool {
	return s.Result != "" && strings.TrimSpace(s.Input) == ""
}

// ActionsEnabled reports whether "use this version" and "continue
// optimizing" may run.
func (s Session) ActionsEnabled() bool {
	return !s.Optimizing && s.Result != "" && !s.IsNotice() && s.RevealDone()
}

// State is what the view renders
type State struct {
	Session
	Copied bool
}
