// Package store persists contact enquiries and pilot leads.
package store

import (
	"context"
	"errors"

	"github.com/luckylabs-yuno/yuno/internal/model"
)

// ErrDuplicate is returned when a pilot lead email is already stored.
var ErrDuplicate = errors.New("store: duplicate")

// Page bounds a listing. Zero Limit means DefaultLimit.
type Page struct {
	Limit  int
	Offset int
}

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Normalize clamps the page to sane bounds.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Store is the lead persistence layer.
type Store interface {
	InsertEnquiry(ctx context.Context, e *model.Enquiry) error
	InsertPilotLead(ctx context.Context, l *model.PilotLead) error
	PilotEmailExists(ctx context.Context, email string) (bool, error)
	ListEnquiries(ctx context.Context, page Page) ([]model.Enquiry, error)
	ListPilotLeads(ctx context.Context, page Page) ([]model.PilotLead, error)
	Ping(ctx context.Context) error
	Close() error
}
