package widget

import (
	"sync"
	"time"
)

// State is the visible state of the widget.
type State int

const (
	Collapsed State = iota
	Teaser
	Open
)

func (s State) String() string {
	switch s {
	case Collapsed:
		return "collapsed"
	case Teaser:
		return "teaser"
	case Open:
		return "open"
	default:
		return "unknown"
	}
}

// Timer is a cancellable one-shot timer.
type Timer interface {
	Stop() bool
}

// Clock abstracts time so hosts and tests control the auto-show timer.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock is the wall clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// TransitionFunc observes a state change. It runs with the machine locked
// and must not call back into the machine.
type TransitionFunc func(from, to State)

// Machine owns the collapsed/teaser/open state and the auto-show timer.
//
//	collapsed --timer--> teaser
//	collapsed|teaser --Open--> open
//	open --Close--> collapsed
//	teaser --Dismiss--> collapsed
type Machine struct {
	mu        sync.Mutex
	cfg       Config
	clock     Clock
	state     State
	started   bool
	stopped   bool
	timer     Timer
	timerGen  uint64
	listeners []TransitionFunc
}

// NewMachine creates a machine in the collapsed state. Nothing is scheduled
// until Start.
func NewMachine(cfg Config, clock Clock) *Machine {
	if clock == nil {
		clock = RealClock{}
	}
	return &Machine{cfg: cfg, clock: clock, state: Collapsed}
}

// OnTransition registers a listener for every state change.
func (m *Machine) OnTransition(fn TransitionFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Start mounts the machine: it stays collapsed and, when auto_show and
// show_teaser are both on, arms the one-shot teaser timer. Calling Start
// again does nothing.
func (m *Machine) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started || m.stopped {
		return
	}
	m.started = true

	if m.cfg.AutoShow && m.cfg.ShowTeaser {
		m.timerGen++
		gen := m.timerGen
		m.timer = m.clock.AfterFunc(m.cfg.AutoShowDelay, func() { m.autoShow(gen) })
	}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// TimerArmed reports whether the auto-show timer is pending.
func (m *Machine) TimerArmed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timer != nil
}

// Open handles a trigger or teaser click.
func (m *Machine) Open() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped || m.state == Open {
		return false
	}
	m.transition(Open)
	return true
}

// Close handles the panel's close control.
func (m *Machine) Close() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped || m.state != Open {
		return false
	}
	m.transition(Collapsed)
	return true
}

// Dismiss handles the teaser's dismiss control. The auto-show timer is not
// re-armed.
func (m *Machine) Dismiss() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped || m.state != Teaser {
		return false
	}
	m.transition(Collapsed)
	return true
}

// Stop cancels the timer and freezes the machine.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopped = true
	m.cancelTimer()
}

func (m *Machine) autoShow(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.timerGen || m.timer == nil {
		return
	}
	m.timer = nil
	if m.stopped || m.state != Collapsed {
		return
	}
	m.transition(Teaser)
}

// transition moves to next; leaving collapsed always cancels the timer.
// Caller holds mu.
func (m *Machine) transition(next State) {
	prev := m.state
	if prev == Collapsed {
		m.cancelTimer()
	}
	m.state = next
	for _, fn := range m.listeners {
		fn(prev, next)
	}
}

// cancelTimer stops the timer and invalidates any fire already in flight.
// Caller holds mu.
func (m *Machine) cancelTimer() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.timerGen++
}
