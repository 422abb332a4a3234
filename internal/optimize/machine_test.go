package optimize

import (
	stderrors "errors"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dpshade/pocket-prompt-panel/internal/clipboard"
	"github.com/dpshade/pocket-prompt-panel/internal/clock"
	apperrors "github.com/dpshade/pocket-prompt-panel/internal/errors"
)

type recordingClipboard struct {
	writes []string
	err    error
}

func (c *recordingClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.writes = append(c.writes, text)
	return nil
}

func newTestMachine(opts ...Option) (*Machine, *clock.Fake) {
	fake := clock.NewFake()
	return NewMachine(fake, opts...), fake
}

// runToRevealing advances a fresh session to the start of its reveal
func runToRevealing(fake *clock.Fake) {
	t := DefaultTimings()
	fake.Advance(t.Analyze + t.Generate + t.Complete)
}

func TestBlankInputShortCircuits(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t "} {
		m, fake := newTestMachine()
		m.Optimize(input)

		s := m.Snapshot()
		assert.Equal(t, EmptyInputNotice, s.Result)
		assert.Equal(t, PhaseIdle, s.Phase)
		assert.False(t, s.Optimizing)
		assert.Equal(t, utf8.RuneCountInString(EmptyInputNotice), s.Revealed)
		assert.True(t, s.RevealDone())
		assert.True(t, s.IsNotice())
		assert.False(t, s.ActionsEnabled(), "the notice is not a usable result")
		assert.Zero(t, fake.Pending(), "no timers for blank input %q", input)
	}
}

func TestPhaseSequence(t *testing.T) {
	m, fake := newTestMachine()
	m.Optimize("abcd")

	s := m.Snapshot()
	assert.Equal(t, PhaseAnalyzing, s.Phase)
	assert.True(t, s.Optimizing)
	assert.Empty(t, s.Result)

	fake.Advance(799 * time.Millisecond)
	assert.Equal(t, PhaseAnalyzing, m.Snapshot().Phase)

	fake.Advance(time.Millisecond)
	assert.Equal(t, PhaseGenerating, m.Snapshot().Phase)
	assert.Empty(t, m.Snapshot().Result)

	fake.Advance(1000 * time.Millisecond)
	s = m.Snapshot()
	assert.Equal(t, PhaseComplete, s.Phase)
	assert.True(t, s.Optimizing)
	assert.Equal(t, CannedResults[4%3], s.Result)
	assert.Zero(t, s.Revealed)

	fake.Advance(1000 * time.Millisecond)
	s = m.Snapshot()
	assert.Equal(t, PhaseRevealing, s.Phase)
	assert.False(t, s.Optimizing)
	assert.Zero(t, s.Revealed)
	assert.False(t, s.ActionsEnabled())
}

func TestCannedResultByLength(t *testing.T) {
	for _, input := range []string{"a", "ab", "abc", "写作助手", "优化这段 prompt"} {
		m, fake := newTestMachine()
		m.Optimize(input)
		fake.Advance(time.Minute)

		s := m.Snapshot()
		want := CannedResults[utf8.RuneCountInString(input)%3]
		assert.Equal(t, want, s.Result, "input %q", input)
		assert.Equal(t, want, s.Visible())
		assert.Equal(t, PhaseIdle, s.Phase)
		assert.True(t, s.ActionsEnabled())
		assert.Zero(t, fake.Pending())
	}
}

func TestRevealAdvancesOneCharacterPerTick(t *testing.T) {
	m, fake := newTestMachine()
	m.Optimize("abc")
	runToRevealing(fake)

	total := m.Snapshot().Length()
	require.Positive(t, total)

	prev := 0
	for i := 0; i < total; i++ {
		require.False(t, m.Snapshot().RevealDone())
		fake.Advance(DefaultTimings().Reveal)

		s := m.Snapshot()
		assert.Equal(t, prev+1, s.Revealed, "tick %d", i)
		assert.LessOrEqual(t, s.Revealed, total)
		assert.Equal(t, string([]rune(s.Result)[:s.Revealed]), s.Visible())
		prev = s.Revealed
	}

	s := m.Snapshot()
	assert.Equal(t, total, s.Revealed)
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Zero(t, fake.Pending(), "no tick after the last character")

	fake.Advance(time.Second)
	assert.Equal(t, total, m.Snapshot().Revealed)
}

func TestRetriggerCancelsPreviousSession(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	m, fake := newTestMachine(WithLogger(zap.New(core)))

	m.Optimize("a")
	first := m.Snapshot().ID
	fake.Advance(400 * time.Millisecond)

	before := logs.Len()
	m.Optimize("ab")
	second := m.Snapshot()
	assert.NotEqual(t, first, second.ID)
	assert.Equal(t, 1, fake.Pending(), "one timer per session")

	// The first session would have moved to Generating here
	fake.Advance(500 * time.Millisecond)
	assert.Equal(t, PhaseAnalyzing, m.Snapshot().Phase)

	fake.Advance(time.Minute)
	s := m.Snapshot()
	assert.Equal(t, CannedResults[2], s.Result)
	assert.NotEqual(t, CannedResults[1], s.Result)
	assert.Equal(t, second.ID, s.ID)

	for _, entry := range logs.All()[before:] {
		if entry.Message == "Optimize phase" {
			assert.Equal(t, second.ID, entry.ContextMap()["session"])
		}
	}
}

func TestRetriggerDuringReveal(t *testing.T) {
	m, fake := newTestMachine()
	m.Optimize("ab")
	runToRevealing(fake)
	fake.Advance(5 * DefaultTimings().Reveal)
	require.Equal(t, 5, m.Snapshot().Revealed)

	m.Optimize("abc")
	s := m.Snapshot()
	assert.Zero(t, s.Revealed)
	assert.Empty(t, s.Result)
	assert.Equal(t, PhaseAnalyzing, s.Phase)

	fake.Advance(time.Minute)
	assert.Equal(t, CannedResults[0], m.Snapshot().Result)
}

func TestStaleTimerIsDropped(t *testing.T) {
	fake := clock.NewFake()
	m := NewMachine(fake)
	m.Optimize("a")
	staleID := m.Snapshot().ID

	m.Optimize("ab")
	// A real timer can fire just before Stop takes effect
	m.step(staleID)
	assert.Equal(t, PhaseAnalyzing, m.Snapshot().Phase)
	assert.Equal(t, 1, fake.Pending())
}

func TestActionsDisabledUntilRevealDone(t *testing.T) {
	m, fake := newTestMachine()

	_, ok := m.UseResult()
	assert.False(t, ok, "nothing to use before any session")
	assert.False(t, m.Continue())

	m.Optimize("abc")
	_, ok = m.UseResult()
	assert.False(t, ok, "disabled while optimizing")

	runToRevealing(fake)
	fake.Advance(DefaultTimings().Reveal)
	_, ok = m.UseResult()
	assert.False(t, ok, "disabled while revealing")
	assert.False(t, m.Continue())

	fake.Advance(time.Minute)
	result, ok := m.UseResult()
	require.True(t, ok)
	assert.Equal(t, CannedResults[0], result)

	require.True(t, m.Continue())
	s := m.Snapshot()
	assert.Equal(t, CannedResults[0], s.Input)
	assert.Equal(t, PhaseAnalyzing, s.Phase)
	fake.Advance(time.Minute)
	want := CannedResults[utf8.RuneCountInString(CannedResults[0])%3]
	assert.Equal(t, want, m.Snapshot().Result)
}

func TestCopyWritesFullResult(t *testing.T) {
	m, fake := newTestMachine()
	cb := &recordingClipboard{}

	err := m.Copy(cb)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))

	m.Optimize("ab")
	runToRevealing(fake)
	fake.Advance(3 * DefaultTimings().Reveal)

	require.NoError(t, m.Copy(cb))
	require.Len(t, cb.writes, 1)
	assert.Equal(t, CannedResults[2], cb.writes[0])
	assert.NotEqual(t, m.Snapshot().Visible(), cb.writes[0])
	assert.True(t, m.Snapshot().Copied)
}

func TestCopiedFlagClearsAfterOneInterval(t *testing.T) {
	m, fake := newTestMachine()
	m.Optimize("")
	require.NoError(t, m.Copy(&recordingClipboard{}))
	assert.True(t, m.Snapshot().Copied)

	// Other state changes do not touch the flag
	m.Optimize("abc")
	fake.Advance(1999 * time.Millisecond)
	assert.True(t, m.Snapshot().Copied)

	fake.Advance(time.Millisecond)
	assert.False(t, m.Snapshot().Copied)
}

func TestCopyAgainRestartsInterval(t *testing.T) {
	m, fake := newTestMachine()
	m.Optimize("")
	cb := &recordingClipboard{}

	require.NoError(t, m.Copy(cb))
	fake.Advance(1500 * time.Millisecond)
	require.NoError(t, m.Copy(cb))

	fake.Advance(1000 * time.Millisecond)
	assert.True(t, m.Snapshot().Copied)
	fake.Advance(1000 * time.Millisecond)
	assert.False(t, m.Snapshot().Copied)
	assert.Zero(t, fake.Pending())
}

func TestCopyFailure(t *testing.T) {
	m, _ := newTestMachine()
	m.Optimize("")

	err := m.Copy(&recordingClipboard{err: stderrors.New("xclip: exit status 1")})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeClipboardFailed))
	assert.False(t, m.Snapshot().Copied)

	err = m.Copy(&recordingClipboard{err: clipboard.NewClipboardError()})
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	assert.Equal(t, apperrors.ErrCodeClipboardUnavailable, appErr.Code)
	assert.Equal(t, apperrors.SeverityWarning, appErr.Severity)
	assert.Equal(t, clipboard.GetInstallInstructions(), appErr.Details)
	assert.False(t, m.Snapshot().Copied)
}

// blockingClipboard starts a new session on the machine while the write is
// in progress.
type blockingClipboard struct {
	m *Machine
}

func (c *blockingClipboard) WriteAll(string) error {
	c.m.Optimize("abcd")
	return nil
}

func TestCopyDuringRetriggerLeavesFlagDown(t *testing.T) {
	m, fake := newTestMachine()
	m.Optimize("")

	clip := &blockingClipboard{m: m}
	require.NoError(t, m.Copy(clip))

	s := m.Snapshot()
	assert.False(t, s.Copied)
	assert.Equal(t, PhaseAnalyzing, s.Phase)
	assert.Equal(t, 1, fake.Pending(), "only the new session's phase timer")
}

func TestChangesSignal(t *testing.T) {
	m, fake := newTestMachine()

	select {
	case <-m.Changes():
		t.Fatal("no change before any action")
	default:
	}

	m.Optimize("abc")
	fake.Advance(time.Second)

	select {
	case <-m.Changes():
	default:
		t.Fatal("expected a change signal")
	}
}

func TestStopCancelsTimers(t *testing.T) {
	m, fake := newTestMachine()
	m.Optimize("")
	require.NoError(t, m.Copy(&recordingClipboard{}))
	m.Optimize("abc")
	require.Equal(t, 2, fake.Pending())

	m.Stop()
	assert.Zero(t, fake.Pending())
	fake.Advance(time.Minute)
	assert.Equal(t, PhaseAnalyzing, m.Snapshot().Phase)
}

// firedScheduler hands out timers whose Stop always reports false, as for
// time.AfterFunc timers whose callback is already running.
type firedScheduler struct {
	callbacks []func()
}

type firedTimer struct{}

func (firedTimer) Stop() bool { return false }

func (s *firedScheduler) AfterFunc(_ time.Duration, f func()) clock.Timer {
	s.callbacks = append(s.callbacks, f)
	return firedTimer{}
}

func TestStopDropsCallbacksAlreadyFired(t *testing.T) {
	sched := &firedScheduler{}
	m := NewMachine(sched)

	m.Optimize("")
	require.NoError(t, m.Copy(&recordingClipboard{}))
	m.Optimize("abc")
	require.Len(t, sched.callbacks, 2)

	m.Stop()
	for _, f := range sched.callbacks {
		f()
	}

	s := m.Snapshot()
	assert.Equal(t, PhaseAnalyzing, s.Phase)
	assert.True(t, s.Optimizing)
	assert.True(t, s.Copied, "the copied flag keeps its state after Stop")
	assert.Len(t, sched.callbacks, 2, "no timer armed after Stop")
}

func TestOptimizeAfterStopRuns(t *testing.T) {
	m, fake := newTestMachine()
	m.Optimize("abc")
	m.Stop()

	m.Optimize("ab")
	fake.Advance(DefaultTimings().Analyze)
	assert.Equal(t, PhaseGenerating, m.Snapshot().Phase)
}

func TestCustomOptimizer(t *testing.T) {
	m, fake := newTestMachine(WithOptimizer(OptimizerFunc(func(in string) string { return "[" + in + "]" })))
	m.Optimize("hi")
	fake.Advance(time.Minute)
	assert.Equal(t, "[hi]", m.Snapshot().Result)
}

func TestEmptyOptimizerResultSkipsReveal(t *testing.T) {
	m, fake := newTestMachine(WithOptimizer(OptimizerFunc(func(string) string { return "" })))
	m.Optimize("hi")
	fake.Advance(3 * time.Second)

	s := m.Snapshot()
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.False(t, s.Optimizing)
	assert.Zero(t, fake.Pending())
}

func TestRealClockRunsToCompletion(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := NewMachine(clock.Real{}, WithTimings(Timings{
		Analyze:   time.Millisecond,
		Generate:  time.Millisecond,
		Complete:  time.Millisecond,
		Reveal:    50 * time.Microsecond,
		CopyReset: time.Millisecond,
	}))
	defer m.Stop()

	m.Optimize("a")
	m.Optimize("ab")

	require.Eventually(t, func() bool {
		s := m.Snapshot()
		return s.Phase == PhaseIdle && s.Result != "" && s.RevealDone()
	}, 5*time.Second, time.Millisecond)

	assert.Equal(t, CannedResults[2], m.Snapshot().Result)
}
