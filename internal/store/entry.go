package store

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status is the cached authentication outcome.
type Status string

const (
	StatusAuthenticated    Status = "authenticated"
	StatusNotAuthenticated Status = "not_authenticated"
)

// Method records how a session was verified.
type Method string

const (
	MethodInteractive Method = "interactive"
	MethodToken       Method = "token"
	MethodCI          Method = "ci"
)

// CacheEntry is the short-lived authentication status of one service.
type CacheEntry struct {
	Service   string
	Status    Status
	CheckedAt time.Time
	TTL       time.Duration
}

// SessionEntry marks that a service was fully verified recently.
type SessionEntry struct {
	Service   string
	CreatedAt time.Time
	TTL       time.Duration
	Method    Method
}

// cacheEntryJSON is the on-disk form; TTLs are whole seconds, rounded up.
type cacheEntryJSON struct {
	Service   string    `json:"service"`
	Status    Status    `json:"status"`
	CheckedAt time.Time `json:"checked_at"`
	TTL       int64     `json:"ttl"`
}

type sessionEntryJSON struct {
	Service            string    `json:"service"`
	CreatedAt          time.Time `json:"created_at"`
	TTL                int64     `json:"ttl"`
	VerificationMethod Method    `json:"verification_method"`
}

func ttlSeconds(ttl time.Duration) int64 {
	return int64((ttl + time.Second - 1) / time.Second)
}

// MarshalJSON implements json.Marshaler.
func (e CacheEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(cacheEntryJSON{
		Service:   e.Service,
		Status:    e.Status,
		CheckedAt: e.CheckedAt.UTC(),
		TTL:       ttlSeconds(e.TTL),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *CacheEntry) UnmarshalJSON(data []byte) error {
	var raw cacheEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Status {
	case StatusAuthenticated, StatusNotAuthenticated:
	default:
		return fmt.Errorf("unknown status %q", raw.Status)
	}
	*e = CacheEntry{
		Service:   raw.Service,
		Status:    raw.Status,
		CheckedAt: raw.CheckedAt,
		TTL:       time.Duration(raw.TTL) * time.Second,
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (e SessionEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(sessionEntryJSON{
		Service:            e.Service,
		CreatedAt:          e.CreatedAt.UTC(),
		TTL:                ttlSeconds(e.TTL),
		VerificationMethod: e.Method,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *SessionEntry) UnmarshalJSON(data []byte) error {
	var raw sessionEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.VerificationMethod {
	case MethodInteractive, MethodToken, MethodCI:
	default:
		return fmt.Errorf("unknown verification method %q", raw.VerificationMethod)
	}
	*e = SessionEntry{
		Service:   raw.Service,
		CreatedAt: raw.CreatedAt,
		TTL:       time.Duration(raw.TTL) * time.Second,
		Method:    raw.VerificationMethod,
	}
	return nil
}

// Fresh reports whether now - CheckedAt <= TTL.
func (e CacheEntry) Fresh(now time.Time) bool {
	return !now.After(e.CheckedAt.Add(e.TTL))
}

// Age returns how long ago the status was checked.
func (e CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.CheckedAt)
}

// Fresh reports whether now - CreatedAt <= TTL.
func (e SessionEntry) Fresh(now time.Time) bool {
	return !now.After(e.CreatedAt.Add(e.TTL))
}

// Age returns how long ago the session was created.
func (e SessionEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}

func (e CacheEntry) key() string   { return e.Service }
func (e SessionEntry) key() string { return e.Service }
