package widget

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/luckylabs-yuno/yuno/internal/model"
	"github.com/luckylabs-yuno/yuno/pkg/logger"
	"github.com/luckylabs-yuno/yuno/pkg/metrics"
	"github.com/luckylabs-yuno/yuno/pkg/tracing"
)

// Fallback replies.
const (
	FallbackNoContent = "Sorry, I couldn't find anything."
	FallbackError     = "Oops, something went wrong."
)

// DefaultRequestTimeout bounds one call to the inference endpoint.
const DefaultRequestTimeout = 30 * time.Second

// ErrClosed is returned by Send after the engine was closed.
var ErrClosed = errors.New("widget: conversation closed")

// Client calls the remote inference endpoint.
type Client interface {
	Ask(ctx context.Context, req *model.AskRequest) (*model.AskResponse, error)
}

// Entry is one rendered conversation entry.
type Entry struct {
	Role     model.Role
	Content  string
	Fallback bool
}

// View renders conversation entries. Calls are made with the engine locked,
// so implementations must not call back into the engine.
type View interface {
	Render(Entry)
	ShowTyping()
	HideTyping()
}

// Stamp identifies the widget instance on every request.
type Stamp struct {
	SiteID    string
	SessionID string
	UserID    string
}

// StampFunc returns the current stamp.
type StampFunc func() Stamp

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRequestTimeout overrides DefaultRequestTimeout.
func WithRequestTimeout(d time.Duration) EngineOption {
	return func(e *Engine) { e.timeout = d }
}

// WithPageURL sets the function that reports the host page URL. It is read
// at send time so navigation between sends is reflected.
func WithPageURL(fn func() string) EngineOption {
	return func(e *Engine) { e.pageURL = fn }
}

// WithEngineLogger sets the logger.
func WithEngineLogger(log *logger.Logger) EngineOption {
	return func(e *Engine) { e.logger = log }
}

type job struct {
	pageURL string
	done    chan struct{}
}

// Engine owns the conversation history and performs the request/response
// cycle. It is an actor: sends are queued on a mailbox and answered one at a
// time in call order by a single worker, independently of whether a view is
// attached. Entries produced while no view is attached are buffered and
// flushed on the next Attach.
type Engine struct {
	client  Client
	stamp   StampFunc
	pageURL func() string
	timeout time.Duration
	logger  *logger.Logger

	mu       sync.Mutex
	cond     *sync.Cond
	history  []model.ChatMessage
	view     View
	buffered []Entry
	typing   bool
	jobs     []*job
	pending  int
	closed   bool
	done     chan struct{}
}

// NewEngine creates an engine seeded with the configured system prompt and
// starts its worker.
func NewEngine(cfg Config, client Client, stamp StampFunc, opts ...EngineOption) *Engine {
	e := &Engine{
		client:  client,
		stamp:   stamp,
		pageURL: func() string { return "" },
		timeout: DefaultRequestTimeout,
		logger:  logger.Global(),
		history: []model.ChatMessage{{Role: model.RoleSystem, Content: cfg.SystemPrompt}},
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.stamp == nil {
		e.stamp = func() Stamp { return Stamp{SiteID: cfg.SiteID} }
	}
	e.cond = sync.NewCond(&e.mu)

	go e.run()
	return e
}

// History returns a copy of the full history, system entry included.
func (e *Engine) History() []model.ChatMessage {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]model.ChatMessage, len(e.history))
	copy(out, e.history)
	return out
}

// Pending returns the number of sends awaiting a reply.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}

// Attach connects a view, flushing buffered entries in order.
func (e *Engine) Attach(v View) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.view = v
	for _, entry := range e.buffered {
		v.Render(entry)
	}
	e.buffered = nil
	e.typing = false
	if e.pending > 0 {
		v.ShowTyping()
		e.typing = true
	}
}

// Detach disconnects the current view. Later entries are buffered.
func (e *Engine) Detach() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.view != nil && e.typing {
		e.view.HideTyping()
	}
	e.view = nil
	e.typing = false
}

// AppendUser appends a user entry. Blank text is ignored.
func (e *Engine) AppendUser(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.appendLocked(Entry{Role: model.RoleUser, Content: text})
	return true
}

// AppendAssistant appends an assistant entry, e.g. the welcome greeting.
func (e *Engine) AppendAssistant(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.appendLocked(Entry{Role: model.RoleAssistant, Content: text})
}

// Send appends text as a user entry, shows the typing indicator and queues
// a request carrying the full history. It waits for the reply to be
// appended. If ctx ends first Send returns ctx.Err(), but the request is not
// cancelled and its reply is still appended. Blank text is a no-op.
//
// Remote failures never surface as errors: the conversation gets a
// fallback reply instead.
func (e *Engine) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.appendLocked(Entry{Role: model.RoleUser, Content: text})
	j := &job{pageURL: e.pageURL(), done: make(chan struct{})}
	e.jobs = append(e.jobs, j)
	e.pending++
	e.showTypingLocked()
	e.cond.Signal()
	e.mu.Unlock()

	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting sends, waits for queued sends to be answered and
// stops the worker.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.cond.Broadcast()
	e.mu.Unlock()

	<-e.done
}

func (e *Engine) run() {
	defer close(e.done)

	for {
		e.mu.Lock()
		for len(e.jobs) == 0 && !e.closed {
			e.cond.Wait()
		}
		if len(e.jobs) == 0 {
			e.mu.Unlock()
			return
		}
		j := e.jobs[0]
		e.jobs = e.jobs[1:]

		stamp := e.stamp()
		req := &model.AskRequest{
			SiteID:    stamp.SiteID,
			SessionID: stamp.SessionID,
			UserID:    stamp.UserID,
			PageURL:   j.pageURL,
			Messages:  make([]model.ChatMessage, len(e.history)),
		}
		copy(req.Messages, e.history)
		e.mu.Unlock()

		reply := e.ask(req)

		e.mu.Lock()
		e.pending--
		if e.pending == 0 {
			e.hideTypingLocked()
		}
		e.appendLocked(reply)
		e.mu.Unlock()

		close(j.done)
	}
}

// ask performs one request and maps every failure to a fallback entry.
func (e *Engine) ask(req *model.AskRequest) Entry {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	ctx, span := tracing.Start(ctx, "widget.ask",
		attribute.String("yuno.site_id", req.SiteID),
		attribute.Int("yuno.messages", len(req.Messages)),
	)
	defer span.End()

	if e.client == nil {
		e.logger.Error("widget has no inference client")
		metrics.RecordWidgetReply("error")
		return Entry{Role: model.RoleAssistant, Content: FallbackError, Fallback: true}
	}

	resp, err := e.client.Ask(ctx, req)
	if err != nil {
		span.RecordError(err)
		e.logger.Error("chat request failed",
			zap.Error(err),
			zap.String("site_id", req.SiteID),
			zap.String("session_id", req.SessionID),
		)
		metrics.RecordWidgetReply("error")
		return Entry{Role: model.RoleAssistant, Content: FallbackError, Fallback: true}
	}

	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		metrics.RecordWidgetReply("empty")
		return Entry{Role: model.RoleAssistant, Content: FallbackNoContent, Fallback: true}
	}

	metrics.RecordWidgetReply("content")
	return Entry{Role: model.RoleAssistant, Content: resp.Content}
}

// appendLocked records an entry in history and renders or buffers it.
func (e *Engine) appendLocked(entry Entry) {
	e.history = append(e.history, model.ChatMessage{Role: entry.Role, Content: entry.Content})
	if e.view != nil {
		e.view.Render(entry)
		return
	}
	e.buffered = append(e.buffered, entry)
}

func (e *Engine) showTypingLocked() {
	if e.view != nil && !e.typing {
		e.view.ShowTyping()
		e.typing = true
	}
}

func (e *Engine) hideTypingLocked() {
	if e.view != nil && e.typing {
		e.view.HideTyping()
	}
	e.typing = false
}
