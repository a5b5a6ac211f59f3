package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmgilman/authgate/internal/slogger"
)

// record is implemented by CacheEntry and SessionEntry.
type record interface {
	key() string
	Fresh(now time.Time) bool
}

// table applies lazy TTL expiry to one record name across all services.
// CacheStore and SessionStore are both thin wrappers over it so expiry
// behaves identically for the two.
type table[E record] struct {
	backend Backend
	name    string
	now     func() time.Time
}

// get returns the entry only when it decodes cleanly, belongs to service
// and is still fresh. Corrupt records read as absent.
func (t *table[E]) get(ctx context.Context, service string) (E, bool, error) {
	e, found, err := t.inspect(ctx, service)
	if err != nil || !found {
		return e, false, err
	}
	if !e.Fresh(t.now()) {
		var zero E
		return zero, false, nil
	}
	return e, true, nil
}

// inspect returns the stored entry regardless of freshness.
func (t *table[E]) inspect(ctx context.Context, service string) (E, bool, error) {
	var zero E
	if err := ValidateKey(service); err != nil {
		return zero, false, err
	}

	data, err := t.backend.Read(ctx, service, t.name)
	if errors.Is(err, ErrNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("read %s for %s: %w", t.name, service, err)
	}

	var e E
	if err := json.Unmarshal(data, &e); err != nil {
		slogger.L(ctx).Warn("ignoring corrupt record", "service", service, "record", t.name, "error", err)
		return zero, false, nil
	}
	if e.key() != service {
		slogger.L(ctx).Warn("ignoring record for another service", "service", service, "record", t.name)
		return zero, false, nil
	}
	return e, true, nil
}

func (t *table[E]) put(ctx context.Context, e E) error {
	service := e.key()
	if err := ValidateKey(service); err != nil {
		return err
	}

	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", t.name, err)
	}
	if err := t.backend.Write(ctx, service, t.name, append(data, '\n')); err != nil {
		return fmt.Errorf("write %s for %s: %w", t.name, service, err)
	}

	t.sweep(ctx, service)
	return nil
}

func (t *table[E]) remove(ctx context.Context, service string) error {
	if err := ValidateKey(service); err != nil {
		return err
	}
	if err := t.backend.Remove(ctx, service, t.name); err != nil {
		return fmt.Errorf("remove %s for %s: %w", t.name, service, err)
	}
	return nil
}

func (t *table[E]) clear(ctx context.Context) error {
	services, err := t.backend.Services(ctx)
	if err != nil {
		return fmt.Errorf("list services: %w", err)
	}

	var errs []error
	for _, service := range services {
		if err := t.backend.Remove(ctx, service, t.name); err != nil {
			errs = append(errs, fmt.Errorf("remove %s for %s: %w", t.name, service, err))
		}
	}
	return errors.Join(errs...)
}

// sweep deletes expired records of services other than skip. Failures are
// only logged; sweeping is opportunistic.
func (t *table[E]) sweep(ctx context.Context, skip string) {
	services, err := t.backend.Services(ctx)
	if err != nil {
		slogger.L(ctx).Debug("sweep skipped", "record", t.name, "error", err)
		return
	}

	now := t.now()
	for _, service := range services {
		if service == skip {
			continue
		}
		e, found, err := t.inspect(ctx, service)
		if err != nil || !found || e.Fresh(now) {
			continue
		}
		// Another writer may have refreshed the record since it was read.
		if err := t.backend.RemoveIf(ctx, service, t.name, func(data []byte) bool {
			return t.expired(data, service, now)
		}); err != nil {
			slogger.L(ctx).Debug("sweep failed", "service", service, "record", t.name, "error", err)
			continue
		}
		slogger.L(ctx).Debug("swept expired record", "service", service, "record", t.name)
	}
}

// expired reports whether data decodes to a record for service that is no
// longer fresh at now. Undecodable records are left for get to ignore.
func (t *table[E]) expired(data []byte, service string, now time.Time) bool {
	var e E
	if err := json.Unmarshal(data, &e); err != nil {
		return false
	}
	return e.key() == service && !e.Fresh(now)
}
