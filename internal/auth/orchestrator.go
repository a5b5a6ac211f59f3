package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jmgilman/authgate/internal/adapter"
	"github.com/jmgilman/authgate/internal/config"
	"github.com/jmgilman/authgate/internal/envprobe"
	"github.com/jmgilman/authgate/internal/prompt"
	"github.com/jmgilman/authgate/internal/retry"
	"github.com/jmgilman/authgate/internal/slogger"
	"github.com/jmgilman/authgate/internal/store"
)

// Resolver maps service names to adapters.
type Resolver interface {
	Resolve(name string) (adapter.Adapter, error)
}

// Options wires an Orchestrator.
type Options struct {
	Registry Resolver
	Cache    *store.CacheStore
	Sessions *store.SessionStore
	Policy   retry.Policy
	Prompter prompt.Prompter
	Probe    *envprobe.Probe
	Mode     config.Mode

	// CheckTimeout bounds every status check; LoginTimeout bounds every
	// login command.
	CheckTimeout time.Duration
	LoginTimeout time.Duration

	// Streams are attached to interactive login commands. Defaults to the
	// process stdin and stderr.
	Streams adapter.Streams

	// Sleep suspends between login attempts. Defaults to retry.Sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Orchestrator runs the authentication state machine. It holds no state
// between calls; all persistence goes through the stores.
type Orchestrator struct {
	registry     Resolver
	cache        *store.CacheStore
	sessions     *store.SessionStore
	policy       retry.Policy
	prompter     prompt.Prompter
	probe        *envprobe.Probe
	mode         config.Mode
	checkTimeout time.Duration
	loginTimeout time.Duration
	streams      adapter.Streams
	sleep        func(ctx context.Context, d time.Duration) error
}

// New creates an Orchestrator from opts.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		registry:     opts.Registry,
		cache:        opts.Cache,
		sessions:     opts.Sessions,
		policy:       opts.Policy,
		prompter:     opts.Prompter,
		probe:        opts.Probe,
		mode:         opts.Mode,
		checkTimeout: opts.CheckTimeout,
		loginTimeout: opts.LoginTimeout,
		streams:      opts.Streams,
		sleep:        opts.Sleep,
	}

	if o.policy.MaxAttempts < 1 {
		o.policy = retry.New(0)
	}
	if o.checkTimeout <= 0 {
		o.checkTimeout = config.DefaultCheckTimeout
	}
	if o.loginTimeout <= 0 {
		o.loginTimeout = config.DefaultLoginTimeout
	}
	if o.streams.In == nil {
		o.streams.In = os.Stdin
	}
	if o.streams.Out == nil {
		o.streams.Out = os.Stderr
	}
	if o.streams.Err == nil {
		o.streams.Err = os.Stderr
	}
	if o.sleep == nil {
		o.sleep = retry.Sleep
	}
	if o.probe == nil {
		o.probe = envprobe.New(nil)
	}

	return o
}

// Interactive reports whether this process may prompt a human.
func (o *Orchestrator) Interactive() bool {
	return o.mode.Interactive(o.probe.IsCI(), o.probe.StdinIsTTY())
}

// EnsureAuth reports whether service is usable, authenticating if needed.
func (o *Orchestrator) EnsureAuth(ctx context.Context, service string) bool {
	return o.Ensure(ctx, service).OK
}

// Ensure runs the full state machine for service:
// cache, session, full check, then login.
func (o *Orchestrator) Ensure(ctx context.Context, service string) Result {
	a, res, ok := o.resolve(service)
	if !ok {
		return res
	}

	ctx = withRun(ctx, service)
	log := slogger.L(ctx)

	// Fast path: a fresh authenticated cache entry needs no further I/O.
	if entry, found, err := o.cache.Get(ctx, service); err != nil {
		log.Warn("read cache entry", "error", err)
	} else if found && entry.Status == store.StatusAuthenticated {
		log.Debug("cache hit", "age", entry.Age(o.probe.Now()).Round(time.Second))
		return success(service, PathCache, nil)
	}

	interactive := o.Interactive()

	var checkErr error
	session, found, err := o.sessions.Get(ctx, service)
	if err != nil {
		log.Warn("read session entry", "error", err)
	}

	if found {
		// A session says the service was verified recently, not that it
		// still is. Re-check once so revoked credentials are caught.
		checkErr = o.check(ctx, a, nil)
		if checkErr == nil {
			log.Info("session re-verified", "method", session.Method)
			o.putCache(ctx, service)
			return success(service, PathSession, nil)
		}
		log.Info("session re-verification failed", "error", checkErr)
	} else {
		checkErr = o.check(ctx, a, nil)
		if checkErr == nil {
			method := store.MethodToken
			if !interactive {
				method = store.MethodCI
			}
			log.Info("status check passed", "method", method)
			o.record(ctx, service, method)
			return success(service, PathCheck, nil)
		}
		log.Info("status check failed", "error", checkErr)
	}

	if err := ctx.Err(); err != nil {
		return failure(service, err, "interrupted", nil)
	}

	if !interactive {
		return o.nonInteractive(ctx, a)
	}
	return o.interactive(ctx, a)
}

// CheckAuthStatus reports whether service is authenticated without
// prompting, retrying or writing to either store.
func (o *Orchestrator) CheckAuthStatus(ctx context.Context, service string) Result {
	a, res, ok := o.resolve(service)
	if !ok {
		return res
	}

	ctx = withRun(ctx, service)

	if entry, found, err := o.cache.Get(ctx, service); err != nil {
		slogger.L(ctx).Warn("read cache entry", "error", err)
	} else if found && entry.Status == store.StatusAuthenticated {
		return success(service, PathCache, nil)
	}

	if err := o.check(ctx, a, nil); err != nil {
		return failure(service, err, fmt.Sprintf("%s is not authenticated", service), nil)
	}
	return success(service, PathCheck, nil)
}

// InvalidateAuthCache removes the cache entry for service. Its session,
// if any, is kept.
func (o *Orchestrator) InvalidateAuthCache(ctx context.Context, service string) error {
	if _, res, ok := o.resolve(service); !ok {
		return res.Err
	}
	return o.cache.Invalidate(ctx, service)
}

// ClearAllAuthCache removes every cache entry. Sessions are kept, so the
// next Ensure re-verifies through the session path.
func (o *Orchestrator) ClearAllAuthCache(ctx context.Context) error {
	return o.cache.ClearAll(ctx)
}

// InvalidateSession removes the session entry for service.
func (o *Orchestrator) InvalidateSession(ctx context.Context, service string) error {
	if _, res, ok := o.resolve(service); !ok {
		return res.Err
	}
	return o.sessions.Invalidate(ctx, service)
}

// ClearAllSessions removes every session entry.
func (o *Orchestrator) ClearAllSessions(ctx context.Context) error {
	return o.sessions.ClearAll(ctx)
}

// resolve validates service before any store access.
func (o *Orchestrator) resolve(service string) (adapter.Adapter, Result, bool) {
	if service == "" {
		return nil, failure(service, fmt.Errorf("%w: service name is required", ErrUsage), "service name is required", nil), false
	}
	a, err := o.registry.Resolve(service)
	if err != nil {
		return nil, failure(service, err, fmt.Sprintf("unsupported service: %s", service), nil), false
	}
	return a, Result{}, true
}

func (o *Orchestrator) check(ctx context.Context, a adapter.Adapter, env []string) error {
	return a.Check(ctx, env, o.checkTimeout)
}

// record writes both a cache entry and a session after a full
// verification. Storage failures are logged; the service is still usable.
func (o *Orchestrator) record(ctx context.Context, service string, method store.Method) {
	o.putCache(ctx, service)
	if err := o.sessions.Put(ctx, service, method); err != nil {
		slogger.L(ctx).Warn("write session entry", "error", err)
	}
}

func (o *Orchestrator) putCache(ctx context.Context, service string) {
	if err := o.cache.Put(ctx, service, store.StatusAuthenticated); err != nil {
		slogger.L(ctx).Warn("write cache entry", "error", err)
	}
}

// withRun tags the context logger with the service and a per-run id.
func withRun(ctx context.Context, service string) context.Context {
	log := slogger.L(ctx).With("service", service, "run_id", uuid.NewString())
	return slogger.WithLogger(ctx, log)
}

// canceled reports whether err is a user or context cancellation.
func canceled(err error) bool {
	return errors.Is(err, prompt.ErrCanceled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
