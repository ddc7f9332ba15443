package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/luckylabs-yuno/yuno/internal/lead"
	"github.com/luckylabs-yuno/yuno/internal/middleware"
	"github.com/luckylabs-yuno/yuno/internal/model"
	"github.com/luckylabs-yuno/yuno/pkg/logger"
)

// LeadHandler serves the contact form and pilot signup endpoints.
type LeadHandler struct {
	service *lead.Service
	logger  *logger.Logger
}

// NewLeadHandler creates a new lead handler.
func NewLeadHandler(svc *lead.Service, log *logger.Logger) *LeadHandler {
	return &LeadHandler{service: svc, logger: log}
}

// Contact handles POST /api/contact
func (h *LeadHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.EnquiryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.service.SubmitEnquiry(r.Context(), req); err != nil {
		h.fail(w, r, err, "Failed to submit enquiry")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Enquiry submitted successfully",
	})
}

// Pilot handles POST /api/pilot-leads
func (h *LeadHandler) Pilot(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.PilotRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	l, err := h.service.SubmitPilot(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, "Failed to submit pilot request")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Beta application submitted successfully",
		"id":      l.ID,
	})
}

// fail maps validation errors to 400 with their message and everything
// else to 500 with a generic message.
func (h *LeadHandler) fail(w http.ResponseWriter, r *http.Request, err error, generic string) {
	var verr *lead.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Message)
		return
	}

	h.logger.Error("lead submission failed",
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("correlation_id", middleware.GetCorrelationID(r.Context())),
	)
	writeError(w, http.StatusInternalServerError, generic)
}
