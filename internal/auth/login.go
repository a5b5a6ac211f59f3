package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/jmgilman/authgate/internal/adapter"
	"github.com/jmgilman/authgate/internal/slogger"
	"github.com/jmgilman/authgate/internal/store"
)

const cancelLabel = "Cancel"

// nonInteractive validates the service's token variable exactly once.
// Without a token there is nothing to try, so it fails without invoking
// the adapter.
func (o *Orchestrator) nonInteractive(ctx context.Context, a adapter.Adapter) Result {
	desc := a.Descriptor()
	log := slogger.L(ctx)

	if desc.TokenEnv == "" {
		reason := fmt.Sprintf("%s is not authenticated and cannot prompt in non-interactive mode", desc.Name)
		return failure(desc.Name, ErrNonInteractive, reason, nil)
	}

	token, ok := o.probe.Lookup(desc.TokenEnv)
	if !ok {
		log.Info("token variable not set", "token_env", desc.TokenEnv)
		reason := fmt.Sprintf("%s is not authenticated and %s is not set (non-interactive mode)", desc.Name, desc.TokenEnv)
		return failure(desc.Name, ErrNonInteractive, reason, nil)
	}

	err := o.check(ctx, a, []string{desc.TokenEnv + "=" + token})
	attempt := Attempt{Service: desc.Name, Number: 1, Method: AttemptEnv, Outcome: OutcomeSuccess, Err: err}
	if err != nil {
		attempt.Outcome = OutcomeFailure
		log.Info("token verification failed", "token_env", desc.TokenEnv, "error", err)
		reason := fmt.Sprintf("%s rejected the credential in %s", desc.Name, desc.TokenEnv)
		return failure(desc.Name, fmt.Errorf("%w: %w", ErrNonInteractive, err), reason, []Attempt{attempt})
	}

	log.Info("token verification passed", "token_env", desc.TokenEnv)
	o.record(ctx, desc.Name, store.MethodCI)
	return success(desc.Name, PathToken, []Attempt{attempt})
}

// interactive offers the adapter's login methods until one succeeds, the
// user cancels, or the retry policy is exhausted.
func (o *Orchestrator) interactive(ctx context.Context, a adapter.Adapter) Result {
	desc := a.Descriptor()
	log := slogger.L(ctx)

	methods := a.LoginMethods()
	labels := lo.Map(methods, func(m adapter.LoginMethod, _ int) string { return m.Label() })
	options := append(labels, cancelLabel)

	var attempts []Attempt
	for n := 1; ; n++ {
		idx, err := o.prompter.Choice(fmt.Sprintf("%s is not authenticated. How would you like to log in?", desc.Name), options)
		if err != nil || idx >= len(methods) {
			if err == nil || canceled(err) {
				attempts = append(attempts, Attempt{Service: desc.Name, Number: n, Outcome: OutcomeCanceled})
				log.Info("login canceled", "attempt", n)
				return failure(desc.Name, ErrCanceled, fmt.Sprintf("login for %s canceled", desc.Name), attempts)
			}
			return failure(desc.Name, err, "could not read login choice", attempts)
		}

		method := methods[idx]
		err = o.login(ctx, a, method)
		if err == nil {
			// The login command exiting cleanly is not proof; confirm it.
			err = o.check(ctx, a, nil)
		}

		attempt := Attempt{Service: desc.Name, Number: n, Method: AttemptMethod(method), Outcome: OutcomeSuccess, Err: err}
		switch {
		case err == nil:
			attempts = append(attempts, attempt)
			log.Info("login succeeded", "attempt", n, "method", method)
			o.record(ctx, desc.Name, store.MethodInteractive)
			return success(desc.Name, PathLogin, attempts)
		case errors.Is(err, ErrCanceled) || ctx.Err() != nil:
			attempt.Outcome = OutcomeCanceled
			attempts = append(attempts, attempt)
			return failure(desc.Name, ErrCanceled, fmt.Sprintf("login for %s canceled", desc.Name), attempts)
		}

		attempt.Outcome = OutcomeFailure
		attempts = append(attempts, attempt)
		log.Info("login attempt failed", "attempt", n, "method", method, "error", err)
		o.prompter.Print(fmt.Sprintf("Login attempt %d of %d failed: %v", n, o.policy.MaxAttempts, err))

		if !o.policy.ShouldRetry(n) {
			break
		}

		delay := o.policy.NextDelay(n)
		log.Debug("backing off", "delay", delay)
		if err := o.sleep(ctx, delay); err != nil {
			return failure(desc.Name, ErrCanceled, fmt.Sprintf("login for %s canceled", desc.Name), attempts)
		}
	}

	o.prompter.Print(fmt.Sprintf("authentication required for %s", desc.Name))
	o.prompter.Print("Options: " + strings.Join(labels, ", "))
	reason := fmt.Sprintf("authentication required for %s after %d attempts", desc.Name, len(attempts))
	return failure(desc.Name, ErrExhausted, reason, attempts)
}

// login runs one login method. A canceled token prompt returns ErrCanceled.
func (o *Orchestrator) login(ctx context.Context, a adapter.Adapter, method adapter.LoginMethod) error {
	switch method {
	case adapter.LoginBrowser:
		return a.LoginInteractive(ctx, o.streams, o.loginTimeout)
	case adapter.LoginToken:
		token, err := o.prompter.Secret(fmt.Sprintf("Paste a token for %s:", a.Descriptor().Name))
		if err != nil {
			if canceled(err) {
				return ErrCanceled
			}
			return fmt.Errorf("read token: %w", err)
		}
		if token == "" {
			return errors.New("empty token")
		}
		return a.LoginToken(ctx, token, o.streams, o.loginTimeout)
	default:
		return fmt.Errorf("%w: %s", adapter.ErrLoginUnsupported, method)
	}
}
