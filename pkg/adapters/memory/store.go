package memory

import (
	"context"
	"sync"
	"time"

	"github.com/identify-labs/marquee/pkg/domain"
)

type entry struct {
	snap    domain.Snapshot
	expires time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// Store implements ports.SnapshotStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]entry
	ttl  time.Duration
	mu   sync.RWMutex
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreTTL expires snapshots ttl after their last save, like the redis
// store's key TTL. Expired entries are dropped lazily on Load and List.
func WithStoreTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// NewStore creates a new in-memory store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		data: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save persists a copy of the snapshot.
func (s *Store) Save(ctx context.Context, sessionID string, snap domain.Snapshot) error {
	copied := snap.Clone()
	now := time.Now()
	if copied.UpdatedAt.IsZero() {
		copied.UpdatedAt = now
	}

	e := entry{snap: copied}
	if s.ttl > 0 {
		e.expires = now.Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = e
	return nil
}

// Load retrieves a copy of the snapshot, so callers cannot mutate stored state.
func (s *Store) Load(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[sessionID]
	if ok && e.expired(time.Now()) {
		delete(s.data, sessionID)
		ok = false
	}
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	return e.snap.Clone(), nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns stored session IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	sessions := make([]string, 0, len(s.data))
	for id, e := range s.data {
		if e.expired(now) {
			delete(s.data, id)
			continue
		}
		sessions = append(sessions, id)
	}
	return sessions, nil
}
