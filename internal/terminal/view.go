// Package terminal hosts a widget in a bubbletea program.
package terminal

import (
	"sync"

	"github.com/luckylabs-yuno/yuno/internal/widget"
)

// View collects what the widget renders and wakes the program. The widget
// calls it with its own locks held, so nothing here blocks.
type View struct {
	mu      sync.Mutex
	entries []widget.Entry
	typing  bool
	wake    chan struct{}
}

// NewView creates an empty view.
func NewView() *View {
	return &View{wake: make(chan struct{}, 1)}
}

func (v *View) Render(e widget.Entry) {
	v.mu.Lock()
	v.entries = append(v.entries, e)
	v.mu.Unlock()
	v.Notify()
}

func (v *View) ShowTyping() { v.setTyping(true) }

func (v *View) HideTyping() { v.setTyping(false) }

// Notify wakes the program without queueing more than one wakeup.
func (v *View) Notify() {
	select {
	case v.wake <- struct{}{}:
	default:
	}
}

// Snapshot returns everything rendered so far and whether the typing
// indicator is shown.
func (v *View) Snapshot() ([]widget.Entry, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]widget.Entry(nil), v.entries...), v.typing
}

// Wake returns the channel signalled on every change.
func (v *View) Wake() <-chan struct{} {
	return v.wake
}

func (v *View) setTyping(on bool) {
	v.mu.Lock()
	v.typing = on
	v.mu.Unlock()
	v.Notify()
}
