package handler

import (
	"bytes"
	"io"
	"net/http"
	"slices"

	"go.uber.org/zap"

	"github.com/luckylabs-yuno/yuno/internal/embed"
	"github.com/luckylabs-yuno/yuno/internal/widget"
	"github.com/luckylabs-yuno/yuno/pkg/logger"
)

// maxPageBytes bounds host pages posted to /inject.
const maxPageBytes = 5 << 20

// EmbedHandler serves the embed surface: rendered markup, snippets and
// presets.
type EmbedHandler struct {
	scriptURL string
	logger    *logger.Logger
}

// NewEmbedHandler creates an embed handler. scriptURL is the public URL of
// the embed script.
func NewEmbedHandler(scriptURL string, log *logger.Logger) *EmbedHandler {
	return &EmbedHandler{scriptURL: scriptURL, logger: log}
}

// Embed handles GET /embed
func (h *EmbedHandler) Embed(w http.ResponseWriter, r *http.Request) {
	h.render(w, widget.Resolve(queryAttributes(r)))
}

// Snippet handles GET /snippet
func (h *EmbedHandler) Snippet(w http.ResponseWriter, r *http.Request) {
	attrs := queryAttributes(r)

	if name := r.URL.Query().Get("preset"); name != "" {
		preset, ok := widget.PresetByName(name)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown preset")
			return
		}
		attrs = preset.Apply(attrs)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, widget.Snippet(h.scriptURL, widget.Resolve(attrs)))
}

// Presets handles GET /presets
func (h *EmbedHandler) Presets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"presets": widget.Presets(),
	})
}

// Inject handles POST /inject. The body is a host page; the response is the
// page with the widget inserted. Without query attributes the page's own
// embed tag configures the widget.
func (h *EmbedHandler) Inject(w http.ResponseWriter, r *http.Request) {
	page, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPageBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "page too large")
		return
	}

	attrs := queryAttributes(r)
	if !declaresAttribute(attrs) {
		discovered, ok, err := embed.Discover(bytes.NewReader(page))
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to parse page")
			return
		}
		if ok {
			attrs = discovered
		}
	}

	wdg := widget.New(widget.Resolve(attrs), widget.WithLogger(h.logger))
	defer wdg.Destroy()

	var out bytes.Buffer
	if err := embed.Inject(&out, bytes.NewReader(page), embed.Render(wdg)); err != nil {
		h.logger.Error("failed to inject widget", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to inject widget")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = out.WriteTo(w)
}

func (h *EmbedHandler) render(w http.ResponseWriter, cfg widget.Config) {
	wdg := widget.New(cfg, widget.WithLogger(h.logger))
	defer wdg.Destroy()

	var out bytes.Buffer
	if err := embed.Render(wdg).Render(&out); err != nil {
		h.logger.Error("failed to render widget", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render widget")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = out.WriteTo(w)
}

func declaresAttribute(attrs widget.Attributes) bool {
	return slices.ContainsFunc(widget.AttributeNames(), func(name string) bool {
		_, ok := attrs[name]
		return ok
	})
}
