package lead

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckylabs-yuno/yuno/internal/model"
	"github.com/luckylabs-yuno/yuno/internal/store"
	"github.com/luckylabs-yuno/yuno/pkg/logger"
)

var fixedNow = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	leads []*model.PilotLead
	err   error
}

func (n *recordingNotifier) PilotLead(_ context.Context, l *model.PilotLead) error {
	n.leads = append(n.leads, l)
	return n.err
}

// brokenStore fails every write.
type brokenStore struct {
	*store.MemoryStore
}

func (brokenStore) InsertEnquiry(context.Context, *model.Enquiry) error {
	return errors.New("connection reset")
}

func (brokenStore) InsertPilotLead(context.Context, *model.PilotLead) error {
	return errors.New("connection reset")
}

// racyStore reports no existing email but rejects the insert as a duplicate.
type racyStore struct {
	*store.MemoryStore
}

func (racyStore) InsertPilotLead(context.Context, *model.PilotLead) error {
	return store.ErrDuplicate
}

func newTestService(st store.Store, opts ...Option) *Service {
	opts = append([]Option{
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(logger.Nop()),
	}, opts...)
	return NewService(st, opts...)
}

func TestNormalizeWebsite(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"acme.com", "acme.com", true},
		{"  https://www.acme.com/ ", "www.acme.com", true},
		{"http://acme.co.uk", "acme.co.uk", true},
		{"my-shop.io", "my-shop.io", true},
		{"acme", "", false},
		{"acme.com/pricing", "", false},
		{"ftp://acme.com", "", false},
		{"-acme.com", "", false},
		{"acme.c", "", false},
		{"a.b.c.example.com", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeWebsite(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubmitEnquiry(t *testing.T) {
	st := store.NewMemoryStore()
	svc := newTestService(st)

	e, err := svc.SubmitEnquiry(context.Background(), model.EnquiryRequest{
		Name:    " Ada Lovelace ",
		Email:   " Ada@Example.COM ",
		Company: "   ",
		Phone:   " +44 1234 ",
		Subject: " Pricing ",
		Message: " How much? ",
	})
	require.NoError(t, err)

	assert.Len(t, e.ID, 26)
	assert.Equal(t, "Ada Lovelace", e.Name)
	assert.Equal(t, "ada@example.com", e.Email)
	assert.Nil(t, e.Company)
	require.NotNil(t, e.Phone)
	assert.Equal(t, "+44 1234", *e.Phone)
	assert.Equal(t, "Pricing", e.Subject)
	assert.Equal(t, "How much?", e.Message)
	assert.Equal(t, model.EnquiryTypeGeneral, e.EnquiryType)
	assert.Equal(t, model.SourceWebsite, e.Source)
	assert.Equal(t, model.StatusNew, e.Status)
	assert.Equal(t, fixedNow, e.CreatedAt)

	stored, err := svc.Enquiries(context.Background(), store.Page{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, *e, stored[0])
}

func TestSubmitEnquiryMissingFields(t *testing.T) {
	svc := newTestService(store.NewMemoryStore())

	_, err := svc.SubmitEnquiry(context.Background(), model.EnquiryRequest{
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: "Hi",
		Message: "  ",
	})
	assert.ErrorIs(t, err, ErrMissingFields)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Missing required fields", verr.Message)
}

func TestSubmitEnquiryStoreFailure(t *testing.T) {
	svc := newTestService(brokenStore{store.NewMemoryStore()})

	_, err := svc.SubmitEnquiry(context.Background(), model.EnquiryRequest{
		Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello",
	})
	require.Error(t, err)

	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
}

func TestSubmitPilot(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newTestService(store.NewMemoryStore(), WithNotifier(notifier))

	l, err := svc.SubmitPilot(context.Background(), model.PilotRequest{
		WebsiteURL:   "https://acme.com/",
		Email:        " Founder@Acme.com ",
		FirstName:    " Ada ",
		BusinessType: "ecommerce",
	})
	require.NoError(t, err)

	assert.Equal(t, "acme.com", l.WebsiteURL)
	assert.Equal(t, "founder@acme.com", l.Email)
	assert.Equal(t, "Ada", l.FirstName)
	require.NotNil(t, l.BusinessType)
	assert.Equal(t, "ecommerce", *l.BusinessType)
	assert.Equal(t, model.SourcePilotProgram, l.Source)
	assert.Equal(t, model.StatusNew, l.Status)
	assert.NotEmpty(t, l.ID)

	require.Len(t, notifier.leads, 1)
	assert.Same(t, l, notifier.leads[0])
}

func TestSubmitPilotDuplicateEmail(t *testing.T) {
	svc := newTestService(store.NewMemoryStore())
	req := model.PilotRequest{WebsiteURL: "acme.com", Email: "ada@acme.com", FirstName: "Ada"}

	_, err := svc.SubmitPilot(context.Background(), req)
	require.NoError(t, err)

	req.Email = "  ADA@acme.com"
	_, err = svc.SubmitPilot(context.Background(), req)
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	leads, err := svc.PilotLeads(context.Background(), store.Page{})
	require.NoError(t, err)
	assert.Len(t, leads, 1)
}

func TestSubmitPilotDuplicateRace(t *testing.T) {
	svc := newTestService(racyStore{store.NewMemoryStore()})

	_, err := svc.SubmitPilot(context.Background(), model.PilotRequest{
		WebsiteURL: "acme.com", Email: "ada@acme.com", FirstName: "Ada",
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestSubmitPilotValidation(t *testing.T) {
	tests := []struct {
		name string
		req  model.PilotRequest
		want error
	}{
		{"missing email", model.PilotRequest{WebsiteURL: "acme.com", FirstName: "Ada"}, ErrMissingFields},
		{"missing website", model.PilotRequest{Email: "a@acme.com", FirstName: "Ada"}, ErrMissingFields},
		{"missing name", model.PilotRequest{WebsiteURL: "acme.com", Email: "a@acme.com"}, ErrMissingFields},
		{"bad website", model.PilotRequest{WebsiteURL: "not a site", Email: "a@acme.com", FirstName: "Ada"}, ErrInvalidWebsite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(store.NewMemoryStore())
			_, err := svc.SubmitPilot(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSubmitPilotNotifierFailureIsIgnored(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("resend down")}
	svc := newTestService(store.NewMemoryStore(), WithNotifier(notifier))

	l, err := svc.SubmitPilot(context.Background(), model.PilotRequest{
		WebsiteURL: "acme.com", Email: "ada@acme.com", FirstName: "Ada",
	})
	require.NoError(t, err)
	assert.NotNil(t, l)
	assert.Len(t, notifier.leads, 1)
}
