package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/luckylabs-yuno/yuno/internal/llm"
	"github.com/luckylabs-yuno/yuno/internal/middleware"
	"github.com/luckylabs-yuno/yuno/internal/model"
	"github.com/luckylabs-yuno/yuno/pkg/logger"
	"github.com/luckylabs-yuno/yuno/pkg/metrics"
	"github.com/luckylabs-yuno/yuno/pkg/tracing"
)

// TranscriptRecorder stores chat turns.
type TranscriptRecorder interface {
	Record(ctx context.Context, msg *model.TranscriptMessage) error
}

// recordTimeout bounds transcript publishing after a reply was produced.
const recordTimeout = 5 * time.Second

// AskHandler is the reference inference endpoint widgets post to.
type AskHandler struct {
	llm      llm.Client
	model    string
	timeout  time.Duration
	recorder TranscriptRecorder
	logger   *logger.Logger
}

// NewAskHandler creates the ask handler. client may be nil, in which case
// every request gets 503. recorder may be nil to skip transcripts.
func NewAskHandler(client llm.Client, modelName string, timeout time.Duration, recorder TranscriptRecorder, log *logger.Logger) *AskHandler {
	return &AskHandler{
		llm:      client,
		model:    modelName,
		timeout:  timeout,
		recorder: recorder,
		logger:   log,
	}
}

// Ask handles POST /ask
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.AskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateAskRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	log := h.logger.WithContext(middleware.GetCorrelationID(ctx), req.SiteID, req.SessionID)

	if h.llm == nil {
		metrics.ChatTurnsTotal.WithLabelValues(req.SiteID, "unavailable").Inc()
		writeError(w, http.StatusServiceUnavailable, "inference is not configured")
		return
	}

	ctx, span := tracing.Start(ctx, "ask",
		attribute.String("yuno.site_id", req.SiteID),
		attribute.String("yuno.provider", h.llm.Name()),
	)
	defer span.End()

	llmCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	completion := llm.NewCompletionRequest(h.model, req.Messages)
	resp, err := h.llm.Complete(llmCtx, completion)
	if err != nil {
		span.RecordError(err)
		metrics.RecordLLM(h.modelLabel(), "error", time.Since(start).Seconds(), 0, 0)
		metrics.ChatTurnsTotal.WithLabelValues(req.SiteID, "error").Inc()
		log.Error("completion failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "inference failed")
		return
	}

	metrics.RecordLLM(h.modelLabel(), "ok", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)
	metrics.ChatTurnsTotal.WithLabelValues(req.SiteID, "ok").Inc()

	h.record(ctx, log, &req, resp)

	writeJSON(w, http.StatusOK, model.AskResponse{Content: resp.Content})
}

// record publishes the user turn and the reply. Failures are logged only.
func (h *AskHandler) record(ctx context.Context, log *logger.Logger, req *model.AskRequest, resp *llm.CompletionResponse) {
	if h.recorder == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	now := time.Now().UTC()
	turn := make([]*model.TranscriptMessage, 0, 2)
	if user, ok := req.LastUser(); ok {
		turn = append(turn, h.transcript(req, user, now))
	}
	reply := h.transcript(req, model.ChatMessage{Role: model.RoleAssistant, Content: resp.Content}, now)
	reply.Model = resp.Model
	reply.LatencyMs = resp.LatencyMs
	turn = append(turn, reply)

	for _, msg := range turn {
		if err := h.recorder.Record(ctx, msg); err != nil {
			log.Warn("failed to record transcript", zap.String("role", string(msg.Role)), zap.Error(err))
		}
	}
}

func (h *AskHandler) transcript(req *model.AskRequest, m model.ChatMessage, at time.Time) *model.TranscriptMessage {
	return &model.TranscriptMessage{
		ID:        uuid.New().String(),
		SiteID:    req.SiteID,
		SessionID: req.SessionID,
		UserID:    req.UserID,
		PageURL:   req.PageURL,
		Role:      m.Role,
		Content:   m.Content,
		CreatedAt: at,
	}
}

func (h *AskHandler) modelLabel() string {
	if h.model != "" {
		return h.model
	}
	return h.llm.Name()
}
