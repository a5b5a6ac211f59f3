package store

import (
	"context"
	"time"
)

// DefaultSessionTTL is the freshness window of a SessionEntry.
const DefaultSessionTTL = 86400 * time.Second

// SessionStore holds longer-lived verification markers per service.
type SessionStore struct {
	t   table[SessionEntry]
	ttl time.Duration
}

// NewSessionStore creates a SessionStore.
func NewSessionStore(backend Backend, ttl time.Duration, now func() time.Time) *SessionStore {
	if now == nil {
		now = time.Now
	}
	return &SessionStore{
		t:   table[SessionEntry]{backend: backend, name: SessionRecord, now: now},
		ttl: ttl,
	}
}

// Get returns the fresh session for service.
func (s *SessionStore) Get(ctx context.Context, service string) (SessionEntry, bool, error) {
	return s.t.get(ctx, service)
}

// Inspect returns the stored session even if it has expired.
func (s *SessionStore) Inspect(ctx context.Context, service string) (SessionEntry, bool, error) {
	return s.t.inspect(ctx, service)
}

// Put records a session for service verified by method.
func (s *SessionStore) Put(ctx context.Context, service string, method Method) error {
	return s.t.put(ctx, SessionEntry{
		Service:   service,
		CreatedAt: s.t.now(),
		TTL:       s.ttl,
		Method:    method,
	})
}

// Invalidate removes the stored session for service.
func (s *SessionStore) Invalidate(ctx context.Context, service string) error {
	return s.t.remove(ctx, service)
}

// ClearAll removes every session.
func (s *SessionStore) ClearAll(ctx context.Context) error {
	return s.t.clear(ctx)
}
