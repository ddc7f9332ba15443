package widget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineAutoShowsTeaser(t *testing.T) {
	clock := newManualClock()
	m := NewMachine(Defaults(), clock)

	m.Start()
	assert.Equal(t, Collapsed, m.State())
	assert.True(t, m.TimerArmed())

	clock.Advance(1999 * time.Millisecond)
	assert.Equal(t, Collapsed, m.State())

	clock.Advance(time.Millisecond)
	assert.Equal(t, Teaser, m.State())
	assert.False(t, m.TimerArmed())
}

func TestMachineNoTimerWhenDisabled(t *testing.T) {
	tests := []struct {
		name  string
		attrs Attributes
	}{
		{"auto_show off", Attributes{AttrAutoShow: "false"}},
		{"show_teaser off", Attributes{AttrShowTeaser: "false"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newManualClock()
			m := NewMachine(Resolve(tt.attrs), clock)
			m.Start()

			assert.False(t, m.TimerArmed())
			clock.Advance(time.Hour)
			assert.Equal(t, Collapsed, m.State())
		})
	}
}

func TestMachineOpenBeforeTimerCancelsIt(t *testing.T) {
	clock := newManualClock()
	m := NewMachine(Defaults(), clock)
	m.Start()

	require.True(t, m.Open())
	assert.False(t, m.TimerArmed())

	clock.Advance(time.Minute)
	assert.Equal(t, Open, m.State())

	require.True(t, m.Close())
	clock.Advance(time.Minute)
	assert.Equal(t, Collapsed, m.State(), "closing must not re-arm the teaser")
}

func TestMachineTransitions(t *testing.T) {
	clock := newManualClock()
	m := NewMachine(Defaults(), clock)

	var seen []string
	m.OnTransition(func(from, to State) {
		seen = append(seen, from.String()+"->"+to.String())
	})
	m.Start()

	assert.False(t, m.Close(), "close from collapsed")
	assert.False(t, m.Dismiss(), "dismiss from collapsed")

	clock.Advance(2 * time.Second)
	assert.False(t, m.Close(), "close from teaser")
	assert.True(t, m.Dismiss())
	assert.Equal(t, Collapsed, m.State())

	assert.True(t, m.Open())
	assert.False(t, m.Open(), "open from open")
	assert.True(t, m.Close())

	assert.Equal(t, []string{
		"collapsed->teaser",
		"teaser->collapsed",
		"collapsed->open",
		"open->collapsed",
	}, seen)
}

func TestMachineTeaserClickOpens(t *testing.T) {
	clock := newManualClock()
	m := NewMachine(Defaults(), clock)
	m.Start()
	clock.Advance(2 * time.Second)

	assert.True(t, m.Open())
	assert.Equal(t, Open, m.State())
}

func TestMachineStartIsIdempotent(t *testing.T) {
	clock := newManualClock()
	m := NewMachine(Defaults(), clock)

	m.Start()
	m.Start()

	clock.mu.Lock()
	armed := len(clock.timers)
	clock.mu.Unlock()
	assert.Equal(t, 1, armed)
}

func TestMachineStaleFireIsIgnored(t *testing.T) {
	clock := newManualClock()
	m := NewMachine(Defaults(), clock)
	m.Start()

	clock.mu.Lock()
	fire := clock.timers[0].fn
	clock.mu.Unlock()

	m.Open()
	m.Close()

	// A fire that raced with the cancellation must not show the teaser.
	fire()
	assert.Equal(t, Collapsed, m.State())
}

func TestMachineStop(t *testing.T) {
	clock := newManualClock()
	m := NewMachine(Defaults(), clock)
	m.Start()
	m.Stop()

	clock.Advance(time.Minute)
	assert.Equal(t, Collapsed, m.State())
	assert.False(t, m.Open())
}

func TestMachineRealClock(t *testing.T) {
	cfg := Resolve(Attributes{AttrAutoShowDelay: "10"})
	m := NewMachine(cfg, nil)
	m.Start()
	defer m.Stop()

	assert.Eventually(t, func() bool {
		return m.State() == Teaser
	}, time.Second, 5*time.Millisecond)
}
