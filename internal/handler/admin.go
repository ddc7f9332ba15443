package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/luckylabs-yuno/yuno/internal/lead"
	"github.com/luckylabs-yuno/yuno/internal/model"
	"github.com/luckylabs-yuno/yuno/pkg/logger"
)

// TranscriptReader reads recorded chat turns of one session.
type TranscriptReader interface {
	Transcript(ctx context.Context, siteID, sessionID string, afterSequence uint64, limit int) ([]model.TranscriptMessage, uint64, bool, error)
}

// AdminHandler serves the authenticated listings.
type AdminHandler struct {
	leads       *lead.Service
	transcripts TranscriptReader
	logger      *logger.Logger
}

// NewAdminHandler creates an admin handler. transcripts may be nil.
func NewAdminHandler(svc *lead.Service, transcripts TranscriptReader, log *logger.Logger) *AdminHandler {
	return &AdminHandler{leads: svc, transcripts: transcripts, logger: log}
}

// Leads handles GET /api/admin/leads
func (h *AdminHandler) Leads(w http.ResponseWriter, r *http.Request) {
	page := pageParams(r)
	leads, err := h.leads.PilotLeads(r.Context(), page)
	if err != nil {
		h.logger.Error("failed to list pilot leads", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list leads")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"leads":  leads,
		"limit":  page.Limit,
		"offset": page.Offset,
	})
}

// Enquiries handles GET /api/admin/enquiries
func (h *AdminHandler) Enquiries(w http.ResponseWriter, r *http.Request) {
	page := pageParams(r)
	enquiries, err := h.leads.Enquiries(r.Context(), page)
	if err != nil {
		h.logger.Error("failed to list enquiries", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list enquiries")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"enquiries": enquiries,
		"limit":     page.Limit,
		"offset":    page.Offset,
	})
}

// Transcript handles GET /api/admin/transcripts/{siteID}/{sessionID}
func (h *AdminHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	if h.transcripts == nil {
		writeError(w, http.StatusServiceUnavailable, "transcripts are not enabled")
		return
	}

	siteID := chi.URLParam(r, "siteID")
	sessionID := chi.URLParam(r, "sessionID")

	var after uint64
	if v, err := strconv.ParseUint(r.URL.Query().Get("after_sequence"), 10, 64); err == nil {
		after = v
	}
	limit := pageParams(r).Limit

	messages, last, hasMore, err := h.transcripts.Transcript(r.Context(), siteID, sessionID, after, limit)
	if err != nil {
		h.logger.Error("failed to read transcript", zap.Error(err), zap.String("site_id", siteID))
		writeError(w, http.StatusInternalServerError, "failed to read transcript")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"messages":      messages,
		"last_sequence": last,
		"has_more":      hasMore,
	})
}
