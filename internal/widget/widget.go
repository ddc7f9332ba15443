package widget

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/luckylabs-yuno/yuno/internal/identity"
	"github.com/luckylabs-yuno/yuno/internal/model"
	"github.com/luckylabs-yuno/yuno/pkg/logger"
)

// Option configures a Widget.
type Option func(*options)

type options struct {
	client  Client
	store   *identity.Store
	clock   Clock
	view    View
	pageURL func() string
	timeout time.Duration
	logger  *logger.Logger
}

// WithClient sets the inference client.
func WithClient(c Client) Option {
	return func(o *options) { o.client = c }
}

// WithIdentity sets the identity store. Without one the widget keeps its
// ids in memory for its own lifetime.
func WithIdentity(s *identity.Store) Option {
	return func(o *options) { o.store = s }
}

// WithClock overrides the wall clock used by the auto-show timer.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithView sets the view attached while the panel is open.
func WithView(v View) Option {
	return func(o *options) { o.view = v }
}

// WithPageURLFunc sets how the host page URL is read.
func WithPageURLFunc(fn func() string) Option {
	return func(o *options) { o.pageURL = fn }
}

// WithTimeout bounds each inference request.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Widget is the controller handle for one mounted chat widget. Hosts drive
// it through methods instead of page globals.
type Widget struct {
	cfg     Config
	store   *identity.Store
	machine *Machine
	engine  *Engine
	view    View
	logger  *logger.Logger

	mu        sync.Mutex
	mounted   bool
	destroyed bool
	welcomed  bool
	id        identity.Identity
	hasID     bool
}

// New builds a widget from a resolved configuration. Nothing is scheduled
// until Mount.
func New(cfg Config, opts ...Option) *Widget {
	o := options{
		clock:   RealClock{},
		timeout: DefaultRequestTimeout,
		logger:  logger.Global(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.store == nil {
		o.store = identity.NewStore(nil, identity.WithLogger(o.logger))
	}
	log := o.logger.Named("widget").With(zap.String("site_id", cfg.SiteID))

	w := &Widget{
		cfg:     cfg,
		store:   o.store,
		machine: NewMachine(cfg, o.clock),
		view:    o.view,
		logger:  log,
	}

	engineOpts := []EngineOption{
		WithRequestTimeout(o.timeout),
		WithEngineLogger(log),
	}
	if o.pageURL != nil {
		engineOpts = append(engineOpts, WithPageURL(o.pageURL))
	}
	w.engine = NewEngine(cfg, o.client, w.stamp, engineOpts...)
	w.machine.OnTransition(w.onTransition)

	return w
}

// Mount ensures the visitor and session ids and starts the state machine in
// the collapsed state. It is idempotent.
func (w *Widget) Mount() {
	w.mu.Lock()
	if w.mounted || w.destroyed {
		w.mu.Unlock()
		return
	}
	w.mounted = true
	w.mu.Unlock()

	id := w.pageIdentity()
	w.logger.Debug("widget mounted",
		zap.String("user_id", id.VisitorID),
		zap.String("session_id", id.SessionID),
	)
	w.machine.Start()
}

// Open opens the chat panel. The welcome message is shown on the first open.
func (w *Widget) Open() bool { return w.machine.Open() }

// Close collapses the open panel.
func (w *Widget) Close() bool { return w.machine.Close() }

// Dismiss hides the teaser.
func (w *Widget) Dismiss() bool { return w.machine.Dismiss() }

// OnStateChange registers a listener for state transitions. It runs with
// the state machine locked and must not call back into the widget.
func (w *Widget) OnStateChange(fn TransitionFunc) { w.machine.OnTransition(fn) }

// Send submits a user message. See Engine.Send.
func (w *Widget) Send(ctx context.Context, text string) error {
	return w.engine.Send(ctx, text)
}

// State returns the current state.
func (w *Widget) State() State { return w.machine.State() }

// Styles returns the computed styles for the current state.
func (w *Widget) Styles() StyleSet { return StylesFor(w.cfg, w.machine.State()) }

// History returns a copy of the conversation history.
func (w *Widget) History() []model.ChatMessage { return w.engine.History() }

// Pending returns the number of unanswered sends.
func (w *Widget) Pending() int { return w.engine.Pending() }

// Identity returns the visitor and session ids captured when the widget was
// mounted. They stay fixed for the widget's lifetime.
func (w *Widget) Identity() identity.Identity { return w.pageIdentity() }

// Config returns the resolved configuration.
func (w *Widget) Config() Config { return w.cfg }

// Destroy cancels the timer, detaches the view and waits for in-flight
// sends to finish.
func (w *Widget) Destroy() {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return
	}
	w.destroyed = true
	w.mu.Unlock()

	w.machine.Stop()
	w.engine.Detach()
	w.engine.Close()
}

// pageIdentity ensures the ids once per page load. Later sends reuse them.
func (w *Widget) pageIdentity() identity.Identity {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.hasID {
		w.id = w.store.Identity()
		w.hasID = true
	}
	return w.id
}

func (w *Widget) stamp() Stamp {
	id := w.pageIdentity()
	return Stamp{SiteID: w.cfg.SiteID, SessionID: id.SessionID, UserID: id.VisitorID}
}

func (w *Widget) onTransition(from, to State) {
	w.logger.Debug("widget state changed",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
	)

	switch {
	case to == Open:
		if !w.welcomed {
			w.welcomed = true
			if w.cfg.WelcomeMessage != "" {
				w.engine.AppendAssistant(w.cfg.WelcomeMessage)
			}
		}
		if w.view != nil {
			w.engine.Attach(w.view)
		}
	case from == Open:
		w.engine.Detach()
	}
}
