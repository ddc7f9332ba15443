package widget

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/luckylabs-yuno/yuno/internal/model"
)

// manualClock fires timers only when advanced.
type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func newManualClock() *manualClock {
	return &manualClock{now: time.UnixMilli(1_700_000_000_000)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// Advance moves time forward and runs due timers outside the clock lock.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []func()
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t.fn)
		}
	}
	c.mu.Unlock()

	for _, fn := range due {
		fn()
	}
}

// fakeClient answers from a function and records every request.
type fakeClient struct {
	mu       sync.Mutex
	requests []*model.AskRequest
	answer   func(req *model.AskRequest) (*model.AskResponse, error)
}

func (c *fakeClient) Ask(ctx context.Context, req *model.AskRequest) (*model.AskResponse, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	answer := c.answer
	c.mu.Unlock()
	if answer == nil {
		return &model.AskResponse{Content: "ok"}, nil
	}
	return answer(req)
}

func (c *fakeClient) Requests() []*model.AskRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*model.AskRequest, len(c.requests))
	copy(out, c.requests)
	return out
}

func replyWith(content string) *fakeClient {
	return &fakeClient{answer: func(*model.AskRequest) (*model.AskResponse, error) {
		return &model.AskResponse{Content: content}, nil
	}}
}

func failWith(msg string) *fakeClient {
	return &fakeClient{answer: func(*model.AskRequest) (*model.AskResponse, error) {
		return nil, errors.New(msg)
	}}
}

// recordingView records every call in order.
type recordingView struct {
	mu     sync.Mutex
	events []string
	typing bool
}

func (v *recordingView) Render(e Entry) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.events = append(v.events, string(e.Role)+":"+e.Content)
}

func (v *recordingView) ShowTyping() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.typing = true
	v.events = append(v.events, "typing:on")
}

func (v *recordingView) HideTyping() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.typing = false
	v.events = append(v.events, "typing:off")
}

func (v *recordingView) Events() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, len(v.events))
	copy(out, v.events)
	return out
}

func (v *recordingView) Typing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.typing
}
