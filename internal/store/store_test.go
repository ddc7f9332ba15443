package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckylabs-yuno/yuno/internal/model"
	"github.com/luckylabs-yuno/yuno/pkg/logger"
)

func lead(email string, at time.Time) *model.PilotLead {
	return &model.PilotLead{
		ID:         ulid.Make().String(),
		WebsiteURL: "acme.com",
		Email:      email,
		FirstName:  "Ada",
		Source:     model.SourcePilotProgram,
		Status:     model.StatusNew,
		CreatedAt:  at,
	}
}

func enquiry(subject string, at time.Time) *model.Enquiry {
	return &model.Enquiry{
		ID:          ulid.Make().String(),
		Name:        "Ada",
		Email:       "ada@example.com",
		Subject:     subject,
		Message:     "Hello",
		EnquiryType: model.EnquiryTypeGeneral,
		Source:      model.SourceWebsite,
		Status:      model.StatusNew,
		CreatedAt:   at,
	}
}

// exercise runs the behaviour every Store must share.
func exercise(t *testing.T, s Store) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	suffix := ulid.Make().String()

	first := fmt.Sprintf("first-%s@example.com", suffix)
	require.NoError(t, s.InsertPilotLead(ctx, lead(first, base)))
	require.NoError(t, s.InsertPilotLead(ctx, lead("second-"+suffix+"@example.com", base.Add(time.Hour))))

	exists, err := s.PilotEmailExists(ctx, first)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.PilotEmailExists(ctx, "nobody-"+suffix+"@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	err = s.InsertPilotLead(ctx, lead(first, base.Add(2*time.Hour)))
	assert.ErrorIs(t, err, ErrDuplicate)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.InsertEnquiry(ctx, enquiry(fmt.Sprintf("subject %d", i), base.Add(time.Duration(i)*time.Minute))))
	}

	enquiries, err := s.ListEnquiries(ctx, Page{Limit: 2})
	require.NoError(t, err)
	require.Len(t, enquiries, 2)
	assert.True(t, !enquiries[0].CreatedAt.Before(enquiries[1].CreatedAt), "newest first")

	require.NoError(t, s.Ping(ctx))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	exercise(t, s)

	leads, err := s.ListPilotLeads(context.Background(), Page{})
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Contains(t, leads[0].Email, "second-")

	enquiries, err := s.ListEnquiries(context.Background(), Page{Offset: 2})
	require.NoError(t, err)
	require.Len(t, enquiries, 1)
	assert.Equal(t, "subject 0", enquiries[0].Subject)

	enquiries, err = s.ListEnquiries(context.Background(), Page{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, enquiries)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("YUNO_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("YUNO_TEST_DATABASE_URL not set")
	}

	s, err := NewPostgresStore(context.Background(), dsn, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	exercise(t, s)
}

func TestPageNormalize(t *testing.T) {
	tests := []struct {
		in   Page
		want Page
	}{
		{Page{}, Page{Limit: DefaultLimit}},
		{Page{Limit: 10, Offset: 5}, Page{Limit: 10, Offset: 5}},
		{Page{Limit: 1000}, Page{Limit: MaxLimit}},
		{Page{Limit: -1, Offset: -3}, Page{Limit: DefaultLimit}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Normalize())
	}
}
