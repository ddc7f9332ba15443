package store

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/luckylabs-yuno/yuno/internal/model"
)

// MemoryStore keeps leads in process memory. It backs development and
// tests; everything is lost on restart.
type MemoryStore struct {
	mu        sync.RWMutex
	enquiries []model.Enquiry
	leads     []model.PilotLead
	emails    map[string]struct{}
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{emails: make(map[string]struct{})}
}

func (s *MemoryStore) InsertEnquiry(_ context.Context, e *model.Enquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enquiries = append(s.enquiries, *e)
	return nil
}

func (s *MemoryStore) InsertPilotLead(_ context.Context, l *model.PilotLead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.emails[l.Email]; ok {
		return ErrDuplicate
	}
	s.emails[l.Email] = struct{}{}
	s.leads = append(s.leads, *l)
	return nil
}

func (s *MemoryStore) PilotEmailExists(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.emails[email]
	return ok, nil
}

func (s *MemoryStore) ListEnquiries(_ context.Context, page Page) ([]model.Enquiry, error) {
	s.mu.RLock()
	out := make([]model.Enquiry, len(s.enquiries))
	copy(out, s.enquiries)
	s.mu.RUnlock()

	// Ties keep the later insert first.
	slices.Reverse(out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	lo, hi := window(len(out), page)
	return out[lo:hi], nil
}

func (s *MemoryStore) ListPilotLeads(_ context.Context, page Page) ([]model.PilotLead, error) {
	s.mu.RLock()
	out := make([]model.PilotLead, len(s.leads))
	copy(out, s.leads)
	s.mu.RUnlock()

	// Ties keep the later insert first.
	slices.Reverse(out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	lo, hi := window(len(out), page)
	return out[lo:hi], nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

// window returns the slice bounds of page over n items, newest first.
func window(n int, page Page) (int, int) {
	page = page.Normalize()
	lo := min(page.Offset, n)
	hi := min(lo+page.Limit, n)
	return lo, hi
}
