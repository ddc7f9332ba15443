// Package lead validates, normalizes and stores contact enquiries and pilot
// program signups.
package lead

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/luckylabs-yuno/yuno/internal/model"
	"github.com/luckylabs-yuno/yuno/internal/notify"
	"github.com/luckylabs-yuno/yuno/internal/store"
	"github.com/luckylabs-yuno/yuno/pkg/logger"
	"github.com/luckylabs-yuno/yuno/pkg/metrics"
)

// Kinds used in metrics and logs.
const (
	KindEnquiry = "enquiry"
	KindPilot   = "pilot"
)

// ValidationError is a client mistake. Its message is shown to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	ErrMissingFields  = &ValidationError{Message: "Missing required fields"}
	ErrInvalidWebsite = &ValidationError{Message: "Please enter a valid website URL (e.g., yoursite.com or www.yoursite.com)"}
	ErrDuplicateEmail = &ValidationError{Message: "Email already registered for beta program"}
)

// notifyTimeout bounds the team notification sent after a pilot signup.
const notifyTimeout = 10 * time.Second

// Service handles lead submissions.
type Service struct {
	store    store.Store
	notifier notify.Notifier
	logger   *logger.Logger
	now      func() time.Time
	newID    func() string
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sets the pilot lead notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a lead service over st.
func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:    st,
		notifier: notify.Nop{},
		logger:   logger.Global(),
		now:      time.Now,
		newID:    func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("lead")
	return s
}

// SubmitEnquiry validates and stores a contact form submission.
func (s *Service) SubmitEnquiry(ctx context.Context, req model.EnquiryRequest) (*model.Enquiry, error) {
	if blank(req.Name, req.Email, req.Subject, req.Message) {
		metrics.RecordLead(KindEnquiry, "invalid")
		return nil, ErrMissingFields
	}

	e := &model.Enquiry{
		ID:          s.newID(),
		Name:        strings.TrimSpace(req.Name),
		Email:       NormalizeEmail(req.Email),
		Company:     optional(req.Company),
		Phone:       optional(req.Phone),
		Subject:     strings.TrimSpace(req.Subject),
		Message:     strings.TrimSpace(req.Message),
		EnquiryType: enquiryType(req.EnquiryType),
		Source:      model.SourceWebsite,
		Status:      model.StatusNew,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.store.InsertEnquiry(ctx, e); err != nil {
		metrics.RecordLead(KindEnquiry, "error")
		return nil, fmt.Errorf("failed to store enquiry: %w", err)
	}

	metrics.RecordLead(KindEnquiry, "accepted")
	s.logger.Info("enquiry received",
		zap.String("id", e.ID),
		zap.String("enquiry_type", e.EnquiryType),
	)
	return e, nil
}

// SubmitPilot validates and stores a pilot program signup, then notifies
// the team. A failed notification is logged and does not fail the signup.
func (s *Service) SubmitPilot(ctx context.Context, req model.PilotRequest) (*model.PilotLead, error) {
	if blank(req.WebsiteURL, req.Email, req.FirstName) {
		metrics.RecordLead(KindPilot, "invalid")
		return nil, ErrMissingFields
	}

	website, ok := NormalizeWebsite(req.WebsiteURL)
	if !ok {
		metrics.RecordLead(KindPilot, "invalid")
		return nil, ErrInvalidWebsite
	}
	email := NormalizeEmail(req.Email)

	exists, err := s.store.PilotEmailExists(ctx, email)
	if err != nil {
		metrics.RecordLead(KindPilot, "error")
		return nil, fmt.Errorf("failed to check pilot email: %w", err)
	}
	if exists {
		metrics.RecordLead(KindPilot, "duplicate")
		return nil, ErrDuplicateEmail
	}

	l := &model.PilotLead{
		ID:           s.newID(),
		WebsiteURL:   website,
		Email:        email,
		FirstName:    strings.TrimSpace(req.FirstName),
		BusinessType: optional(req.BusinessType),
		Source:       model.SourcePilotProgram,
		Status:       model.StatusNew,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.store.InsertPilotLead(ctx, l); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			metrics.RecordLead(KindPilot, "duplicate")
			return nil, ErrDuplicateEmail
		}
		metrics.RecordLead(KindPilot, "error")
		return nil, fmt.Errorf("failed to store pilot lead: %w", err)
	}

	metrics.RecordLead(KindPilot, "accepted")
	s.logger.Info("pilot lead received",
		zap.String("id", l.ID),
		zap.String("website_url", l.WebsiteURL),
	)

	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := s.notifier.PilotLead(nctx, l); err != nil {
		s.logger.Warn("failed to notify team of pilot lead", zap.String("id", l.ID), zap.Error(err))
	}

	return l, nil
}

// Enquiries lists stored enquiries, newest first.
func (s *Service) Enquiries(ctx context.Context, page store.Page) ([]model.Enquiry, error) {
	return s.store.ListEnquiries(ctx, page)
}

// PilotLeads lists stored pilot leads, newest first.
func (s *Service) PilotLeads(ctx context.Context, page store.Page) ([]model.PilotLead, error) {
	return s.store.ListPilotLeads(ctx, page)
}
