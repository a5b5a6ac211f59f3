// Package auth decides whether a service is usable right now and, if it is
// not, makes it usable. It walks the cache, then the session, then a live
// status check, and finally falls back to an interactive login or a
// token-based check depending on the environment.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmgilman/authgate/internal/adapter"
)

// Sentinel errors classifying a failed Result.
var (
	ErrUsage          = errors.New("usage error")
	ErrExhausted      = errors.New("login attempts exhausted")
	ErrCanceled       = errors.New("login canceled")
	ErrNonInteractive = errors.New("not authenticated in non-interactive mode")
)

// Path names the state that produced a Result.
type Path string

const (
	PathCache   Path = "cache"
	PathSession Path = "session"
	PathCheck   Path = "check"
	PathToken   Path = "token"
	PathLogin   Path = "login"
)

// Outcome is the result of one login attempt.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailure  Outcome = "failure"
	OutcomeCanceled Outcome = "canceled"
)

// AttemptMethod identifies how an attempt tried to authenticate.
type AttemptMethod string

const (
	AttemptBrowser AttemptMethod = AttemptMethod(adapter.LoginBrowser)
	AttemptToken   AttemptMethod = AttemptMethod(adapter.LoginToken)
	AttemptEnv     AttemptMethod = "env"
)

// Attempt records a single try within a login sequence. Attempts are
// diagnostics only and are never persisted.
type Attempt struct {
	Service string
	Number  int
	Method  AttemptMethod
	Outcome Outcome
	Err     error
}

// String renders the attempt for diagnostics. It never includes secrets.
func (a Attempt) String() string {
	s := fmt.Sprintf("%s attempt %d (%s): %s", a.Service, a.Number, a.Method, a.Outcome)
	if a.Err != nil {
		s += ": " + a.Err.Error()
	}
	return s
}

// Result is the terminal state of an orchestrator run.
type Result struct {
	Service string

	// OK is true when the service is usable.
	OK bool

	// Path is the state that produced the result.
	Path Path

	// Reason is a human-readable explanation of a failure.
	Reason string

	// Err classifies a failure. It wraps one of the package sentinels,
	// adapter.ErrUnsupportedService, or the adapter's error.
	Err error

	// Attempts lists the login attempts made, in order.
	Attempts []Attempt
}

// Diagnostics returns one line per attempt.
func (r Result) Diagnostics() string {
	lines := make([]string, 0, len(r.Attempts))
	for _, a := range r.Attempts {
		lines = append(lines, a.String())
	}
	return strings.Join(lines, "\n")
}

func success(service string, path Path, attempts []Attempt) Result {
	return Result{Service: service, OK: true, Path: path, Attempts: attempts}
}

func failure(service string, err error, reason string, attempts []Attempt) Result {
	return Result{Service: service, Reason: reason, Err: err, Attempts: attempts}
}
