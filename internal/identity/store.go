package identity

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luckylabs-yuno/yuno/pkg/logger"
)

// Storage keys.
const (
	KeyVisitorID  = "yuno_user_id"
	KeySessionID  = "yuno_session_id"
	KeyLastActive = "yuno_last_active"
)

// SessionTimeout is the inactivity gap after which a session is replaced.
const SessionTimeout = 30 * time.Minute

// Identity is the pair of ids stamped on every chat request.
type Identity struct {
	VisitorID string `json:"user_id"`
	SessionID string `json:"session_id"`
}

// Store derives the visitor and session ids. It never fails: when the
// backing storage errors it switches to a volatile in-memory storage for the
// rest of its lifetime.
type Store struct {
	mu       sync.Mutex
	storage  Storage
	fallback bool
	now      func() time.Time
	newID    func() string
	logger   *logger.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Store) { s.logger = log }
}

// NewStore creates a Store over storage. A nil storage starts in volatile mode.
func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
		logger:  logger.Global(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.storage == nil {
		s.storage = NewMemoryStorage()
		s.fallback = true
	}
	return s
}

// Volatile reports whether the store has fallen back to in-memory storage.
func (s *Store) Volatile() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fallback
}

// EnsureVisitorID returns the persisted visitor id, creating it on first use.
func (s *Store) EnsureVisitorID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.get(KeyVisitorID); ok && id != "" {
		return id
	}

	id := s.newID()
	s.set(KeyVisitorID, id)
	return id
}

// EnsureSession returns the current session id, rotating it when missing or
// idle for longer than SessionTimeout. The last-active timestamp is refreshed
// on every call.
func (s *Store) EnsureSession() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sessionID, hasSession := s.get(KeySessionID)

	expired := true
	if raw, ok := s.get(KeyLastActive); ok {
		if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
			expired = now.Sub(time.UnixMilli(ms)) > SessionTimeout
		}
	}

	if !hasSession || sessionID == "" || expired {
		sessionID = s.newID()
		s.set(KeySessionID, sessionID)
	}
	s.set(KeyLastActive, strconv.FormatInt(now.UnixMilli(), 10))

	return sessionID
}

// Identity ensures both ids and returns them.
func (s *Store) Identity() Identity {
	return Identity{
		VisitorID: s.EnsureVisitorID(),
		SessionID: s.EnsureSession(),
	}
}

func (s *Store) get(key string) (string, bool) {
	v, ok, err := s.storage.Get(key)
	if err != nil {
		s.degrade(err)
		v, ok, _ = s.storage.Get(key)
	}
	return v, ok
}

func (s *Store) set(key, value string) {
	if err := s.storage.Set(key, value); err != nil {
		s.degrade(err)
		_ = s.storage.Set(key, value)
	}
}

// degrade swaps in the volatile storage. Caller holds mu.
func (s *Store) degrade(err error) {
	if s.fallback {
		return
	}
	s.logger.Warn("identity storage unavailable, using in-memory fallback", zap.Error(err))
	s.storage = NewMemoryStorage()
	s.fallback = true
}
