// Package store persists authentication status metadata per service.
//
// Two typed stores share one storage contract: the CacheStore holds the
// short-lived "is this service authenticated" answer and the SessionStore
// holds the longer-lived "this service was fully verified" marker. Both
// apply lazy TTL expiry on read. No credential material is ever stored.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// Record names within a service's namespace.
const (
	CacheRecord   = "auth_status.json"
	SessionRecord = "session.json"
)

// Sentinel errors for store operations.
var (
	ErrNotFound    = errors.New("record not found")
	ErrInvalidKey  = errors.New("invalid service key")
	ErrLockTimeout = errors.New("failed to acquire store lock")
)

// validKey restricts service keys to a single safe path component.
var validKey = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateKey checks that a service name can be used as a storage key.
func ValidateKey(service string) error {
	if !validKey.MatchString(service) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, service)
	}
	return nil
}

// Backend is a key-value store addressed by (service, record). Writes must
// replace records atomically so concurrent readers never see a torn value.
type Backend interface {
	// Read returns the raw record. Returns ErrNotFound if absent.
	Read(ctx context.Context, service, record string) ([]byte, error)

	// Write atomically creates or replaces a record.
	Write(ctx context.Context, service, record string, data []byte) error

	// Remove deletes the underlying storage object.
	// Returns nil if the record does not exist.
	Remove(ctx context.Context, service, record string) error

	// RemoveIf deletes a record only if stale reports true for its current
	// contents. The read and the delete happen under the same writer lock
	// as Write. Returns nil if the record does not exist.
	RemoveIf(ctx context.Context, service, record string, stale func(data []byte) bool) error

	// Services lists every service that has at least one stored object.
	Services(ctx context.Context) ([]string, error)
}
