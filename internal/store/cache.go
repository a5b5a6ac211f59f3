package store

import (
	"context"
	"time"
)

// DefaultCacheTTL is the freshness window of a CacheEntry.
const DefaultCacheTTL = 300 * time.Second

// CacheStore holds short-lived authentication status per service.
type CacheStore struct {
	t   table[CacheEntry]
	ttl time.Duration
}

// NewCacheStore creates a CacheStore. New entries are written with ttl and
// timestamped with now.
func NewCacheStore(backend Backend, ttl time.Duration, now func() time.Time) *CacheStore {
	if now == nil {
		now = time.Now
	}
	return &CacheStore{
		t:   table[CacheEntry]{backend: backend, name: CacheRecord, now: now},
		ttl: ttl,
	}
}

// Get returns the fresh entry for service. Expired, corrupt or missing
// entries report found == false.
func (s *CacheStore) Get(ctx context.Context, service string) (CacheEntry, bool, error) {
	return s.t.get(ctx, service)
}

// Inspect returns the stored entry even if it has expired.
func (s *CacheStore) Inspect(ctx context.Context, service string) (CacheEntry, bool, error) {
	return s.t.inspect(ctx, service)
}

// Put records status for service as of now.
func (s *CacheStore) Put(ctx context.Context, service string, status Status) error {
	return s.t.put(ctx, CacheEntry{
		Service:   service,
		Status:    status,
		CheckedAt: s.t.now(),
		TTL:       s.ttl,
	})
}

// Invalidate removes the stored entry for service.
func (s *CacheStore) Invalidate(ctx context.Context, service string) error {
	return s.t.remove(ctx, service)
}

// ClearAll removes every cache entry. Sessions are left untouched.
func (s *CacheStore) ClearAll(ctx context.Context) error {
	return s.t.clear(ctx)
}
