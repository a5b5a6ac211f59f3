package auth

import (
	"context"
	"time"
)

// Record freshness states shown in reports.
const (
	StateFresh   = "fresh"
	StateExpired = "expired"
	StateAbsent  = "absent"
)

// RecordReport describes one stored record.
type RecordReport struct {
	State     string        `json:"state" yaml:"state"`
	Status    string        `json:"status,omitempty" yaml:"status,omitempty"`
	Method    string        `json:"method,omitempty" yaml:"method,omitempty"`
	UpdatedAt *time.Time    `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	Age       time.Duration `json:"-" yaml:"-"`
	AgeSecs   int64         `json:"age_seconds,omitempty" yaml:"age_seconds,omitempty"`
	TTLSecs   int64         `json:"ttl_seconds,omitempty" yaml:"ttl_seconds,omitempty"`
}

// Report summarizes what authgate knows about a service.
type Report struct {
	Service string       `json:"service" yaml:"service"`
	Cache   RecordReport `json:"cache" yaml:"cache"`
	Session RecordReport `json:"session" yaml:"session"`

	// Live is set when a status check was requested.
	Live *bool `json:"live,omitempty" yaml:"live,omitempty"`
}

// Report inspects the stored records for service. With live set it also
// runs CheckAuthStatus. Nothing is written.
func (o *Orchestrator) Report(ctx context.Context, service string, live bool) (Report, error) {
	if _, res, ok := o.resolve(service); !ok {
		return Report{}, res.Err
	}

	now := o.probe.Now()
	rep := Report{Service: service}

	cache, found, err := o.cache.Inspect(ctx, service)
	if err != nil {
		return Report{}, err
	}
	rep.Cache = RecordReport{State: StateAbsent}
	if found {
		rep.Cache = recordReport(cache.Fresh(now), cache.CheckedAt, cache.Age(now), cache.TTL)
		rep.Cache.Status = string(cache.Status)
	}

	session, found, err := o.sessions.Inspect(ctx, service)
	if err != nil {
		return Report{}, err
	}
	rep.Session = RecordReport{State: StateAbsent}
	if found {
		rep.Session = recordReport(session.Fresh(now), session.CreatedAt, session.Age(now), session.TTL)
		rep.Session.Method = string(session.Method)
	}

	if live {
		ok := o.CheckAuthStatus(ctx, service).OK
		rep.Live = &ok
	}

	return rep, nil
}

func recordReport(fresh bool, at time.Time, age, ttl time.Duration) RecordReport {
	state := StateExpired
	if fresh {
		state = StateFresh
	}
	return RecordReport{
		State:     state,
		UpdatedAt: &at,
		Age:       age,
		AgeSecs:   int64(age.Seconds()),
		TTLSecs:   int64(ttl.Seconds()),
	}
}
