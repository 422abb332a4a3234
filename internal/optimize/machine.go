package optimize

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dpshade/pocket-prompt-panel/internal/clipboard"
	"github.com/dpshade/pocket-prompt-panel/internal/clock"
	apperrors "github.com/dpshade/pocket-prompt-panel/internal/errors"
)

// ClipboardWriter receives the copied result
type ClipboardWriter interface {
	WriteAll(text string) error
}

// Machine owns the current optimize session and its timer. At most one
// phase timer is armed at any time; starting a session stops it first.
type Machine struct {
	mu        sync.Mutex
	scheduler clock.Scheduler
	optimizer Optimizer
	timings   Timings
	logger    *zap.Logger

	session   Session
	timer     clock.Timer
	copied    bool
	copyTimer clock.Timer
	copyGen   int
	stopped   bool

	changes chan struct{}
}

// Option configures a Machine
type Option func(*Machine)

// WithOptimizer replaces the canned optimizer
func WithOptimizer(o Optimizer) Option {
	return func(m *Machine) { m.optimizer = o }
}

// WithTimings replaces the default timings
func WithTimings(t Timings) Option {
	return func(m *Machine) { m.timings = t }
}

// WithLogger sets the logger for phase transitions
func WithLogger(l *zap.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// NewMachine creates an idle machine scheduling on s
func NewMachine(s clock.Scheduler, opts ...Option) *Machine {
	m := &Machine{
		scheduler: s,
		optimizer: DefaultOptimizer(),
		timings:   DefaultTimings(),
		logger:    zap.NewNop(),
		changes:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Changes delivers a signal after every state change. Signals coalesce, so
// a slow reader sees the latest state on its next Snapshot.
func (m *Machine) Changes() <-chan struct{} {
	return m.changes
}

// Snapshot returns a copy of the current state
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{Session: m.session, Copied: m.copied}
}

// Optimize starts a new session for input, cancelling whatever the previous
// session still had scheduled.
func (m *Machine) Optimize(input string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.start(input)
}

// Continue re-optimizes the current result. It is refused while a session
// is running or still revealing.
func (m *Machine) Continue() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.session.ActionsEnabled() {
		return false
	}
	m.start(m.session.Result)
	return true
}

// UseResult hands back the finished result for the input box. It is refused
// while a session is running or still revealing.
func (m *Machine) UseResult() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.session.ActionsEnabled() {
		return "", false
	}
	return m.session.Result, true
}

// Copy writes the full result, not the revealed prefix, to w and raises the
// copied flag for Timings.CopyReset. The write runs unlocked; the flag stays
// down when a new session started during it.
func (m *Machine) Copy(w ClipboardWriter) error {
	m.mu.Lock()
	result := m.session.Result
	id := m.session.ID
	m.mu.Unlock()

	if result == "" {
		return apperrors.ValidationError("Nothing to copy yet")
	}
	if err := w.WriteAll(result); err != nil {
		return clipboard.Classify(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.ID != id || m.stopped {
		m.logger.Debug("Copied result of a replaced session", zap.String("session", id))
		return nil
	}

	if m.copyTimer != nil {
		m.copyTimer.Stop()
	}
	m.copied = true
	m.copyGen++
	gen := m.copyGen
	m.copyTimer = m.scheduler.AfterFunc(m.timings.CopyReset, func() { m.resetCopied(gen) })
	m.notify()
	return nil
}

// Stop cancels every pending timer. The current state is kept. Callbacks
// that already fired and are waiting for the lock do nothing; a later
// Optimize starts the machine again.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopped = true
	m.copyGen++

	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if m.copyTimer != nil {
		m.copyTimer.Stop()
		m.copyTimer = nil
	}
}

// start replaces the session. Callers hold m.mu.
func (m *Machine) start(input string) {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}

	m.stopped = false
	m.session = Session{ID: uuid.NewString(), Input: input}

	if strings.TrimSpace(input) == "" {
		m.session.Result = EmptyInputNotice
		m.session.Revealed = m.session.Length()
		m.session.Phase = PhaseIdle
		m.logger.Debug("Optimize skipped for blank input", zap.String("session", m.session.ID))
		m.notify()
		return
	}

	m.session.Optimizing = true
	m.enter(PhaseAnalyzing)
	m.schedule(m.timings.Analyze)
}

// schedule arms the session timer. The callback carries the session ID so a
// timer that fired just before a retrigger cannot advance the newer session.
// Callers hold m.mu.
func (m *Machine) schedule(d time.Duration) {
	id := m.session.ID
	m.timer = m.scheduler.AfterFunc(d, func() { m.step(id) })
}

func (m *Machine) step(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped || m.session.ID != id {
		m.logger.Debug("Dropped stale optimize timer", zap.String("session", id))
		return
	}
	m.timer = nil

	switch m.session.Phase {
	case PhaseAnalyzing:
		m.enter(PhaseGenerating)
		m.schedule(m.timings.Generate)

	case PhaseGenerating:
		m.session.Result = m.optimizer.Optimize(m.session.Input)
		m.enter(PhaseComplete)
		m.schedule(m.timings.Complete)

	case PhaseComplete:
		m.session.Optimizing = false
		if m.session.RevealDone() {
			m.enter(PhaseIdle)
			return
		}
		m.enter(PhaseRevealing)
		m.schedule(m.timings.Reveal)

	case PhaseRevealing:
		m.session.Revealed++
		if m.session.RevealDone() {
			m.enter(PhaseIdle)
			return
		}
		m.notify()
		m.schedule(m.timings.Reveal)
	}
}

// enter switches phase and notifies. Callers hold m.mu.
func (m *Machine) enter(p Phase) {
	m.session.Phase = p
	m.logger.Debug("Optimize phase",
		zap.String("session", m.session.ID),
		zap.Stringer("phase", p),
		zap.Int("revealed", m.session.Revealed))
	m.notify()
}

func (m *Machine) resetCopied(gen int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped || m.copyGen != gen {
		return
	}
	m.copyTimer = nil
	m.copied = false
	m.notify()
}

// notify signals Changes without blocking. Callers hold m.mu.
func (m *Machine) notify() {
	select {
	case m.changes <- struct{}{}:
	default:
	}
}
