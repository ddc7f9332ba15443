package embed

import (
	"sync"

	"go.uber.org/zap"

	"github.com/luckylabs-yuno/yuno/internal/widget"
	"github.com/luckylabs-yuno/yuno/pkg/logger"
	"github.com/luckylabs-yuno/yuno/pkg/metrics"
)

// Registry keeps the defined element names and at most one widget per page.
type Registry struct {
	mu      sync.Mutex
	defined map[string]struct{}
	pages   map[string]*widget.Widget
	logger  *logger.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Global()
	}
	return &Registry{
		defined: make(map[string]struct{}),
		pages:   make(map[string]*widget.Widget),
		logger:  log.Named("embed"),
	}
}

// Define registers an element name. It reports whether the name was new;
// defining a name twice is harmless.
func (r *Registry) Define(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.defined[name]; ok {
		return false
	}
	r.defined[name] = struct{}{}
	return true
}

// Defined reports whether name has been registered.
func (r *Registry) Defined(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.defined[name]
	return ok
}

// Boot mounts a widget for pageID from the declared attributes. A page gets
// exactly one widget: later calls return the existing one and false.
func (r *Registry) Boot(pageID string, attrs widget.Attributes, opts ...widget.Option) (*widget.Widget, bool) {
	r.Define(ElementName)

	r.mu.Lock()
	if w, ok := r.pages[pageID]; ok {
		r.mu.Unlock()
		return w, false
	}
	w := widget.New(widget.Resolve(attrs), opts...)
	r.pages[pageID] = w
	r.mu.Unlock()

	w.Mount()
	metrics.WidgetsMounted.Inc()
	r.logger.Info("widget booted",
		zap.String("page_id", pageID),
		zap.String("site_id", w.Config().SiteID),
	)
	return w, true
}

// Get returns the widget mounted for pageID.
func (r *Registry) Get(pageID string) (*widget.Widget, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.pages[pageID]
	return w, ok
}

// Len returns the number of mounted widgets.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}

// Destroy tears down the widget of pageID. It reports whether one existed.
func (r *Registry) Destroy(pageID string) bool {
	r.mu.Lock()
	w, ok := r.pages[pageID]
	delete(r.pages, pageID)
	r.mu.Unlock()

	if !ok {
		return false
	}
	w.Destroy()
	metrics.WidgetsMounted.Dec()
	return true
}

// Close destroys every mounted widget.
func (r *Registry) Close() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.pages))
	for id := range r.pages {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		r.Destroy(id)
	}
}
