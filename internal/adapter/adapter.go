// Package adapter maps service names to the external CLI commands used to
// check and obtain authentication. Adapters are opaque to the orchestrator:
// it only sees success or failure.
package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jmgilman/authgate/internal/exec"
)

// Sentinel errors for adapter operations.
var (
	ErrUnsupportedService = errors.New("unsupported service")
	ErrDuplicateService   = errors.New("duplicate service")
	ErrInvalidDescriptor  = errors.New("invalid service descriptor")
	ErrCheckFailed        = errors.New("not authenticated")
	ErrLoginFailed        = errors.New("login failed")
	ErrLoginUnsupported   = errors.New("login method not supported")
)

// LoginMethod is one way a human can authenticate a service.
type LoginMethod string

const (
	// LoginBrowser runs the service's interactive (usually browser/OAuth) login.
	LoginBrowser LoginMethod = "browser"

	// LoginToken feeds a pasted token to the service CLI on stdin.
	LoginToken LoginMethod = "token"
)

// Label returns the menu text for the method.
func (m LoginMethod) Label() string {
	switch m {
	case LoginBrowser:
		return "Log in with browser"
	case LoginToken:
		return "Paste a token"
	default:
		return string(m)
	}
}

// Command is an argv list; the first element is the executable.
type Command []string

// Descriptor is the static configuration of one supported service.
type Descriptor struct {
	// Name is the registry key (e.g., "github").
	Name string

	// Binary is the CLI that command wrappers delegate to (e.g., "gh").
	Binary string

	// Check reports authenticated (exit 0) or not, without prompting.
	Check Command

	// Login performs an interactive login on the user's terminal.
	Login Command

	// TokenLogin reads a token on stdin and stores it in the service CLI's
	// own credential store. Optional.
	TokenLogin Command

	// TokenEnv names an environment variable that, when set, is treated as
	// a non-interactive credential.
	TokenEnv string

	// RequireOutput makes Check also require non-empty stdout, for CLIs
	// that exit 0 when no account is active.
	RequireOutput bool
}

// Streams are the terminal handles given to interactive logins.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Adapter is the capability set the orchestrator drives.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/adapter.go . Adapter
type Adapter interface {
	// Descriptor returns the static service configuration.
	Descriptor() Descriptor

	// Check runs the status command with extra environment variables.
	// Returns an error wrapping ErrCheckFailed when not authenticated,
	// and exec.ErrTimeout when the command exceeded timeout.
	Check(ctx context.Context, env []string, timeout time.Duration) error

	// LoginMethods lists the login options this service supports.
	LoginMethods() []LoginMethod

	// LoginInteractive runs the interactive login attached to streams.
	LoginInteractive(ctx context.Context, streams Streams, timeout time.Duration) error

	// LoginToken runs the token login, writing token to its stdin.
	LoginToken(ctx context.Context, token string, streams Streams, timeout time.Duration) error
}

// CommandAdapter implements Adapter by running the descriptor's commands.
type CommandAdapter struct {
	desc     Descriptor
	executor exec.Executor
}

// NewCommandAdapter creates an adapter for desc.
func NewCommandAdapter(desc Descriptor, executor exec.Executor) *CommandAdapter {
	return &CommandAdapter{desc: desc, executor: executor}
}

func (a *CommandAdapter) Descriptor() Descriptor {
	return a.desc
}

func (a *CommandAdapter) Check(ctx context.Context, env []string, timeout time.Duration) error {
	cmd := a.desc.Check
	result, err := a.executor.Run(ctx, &exec.RunOptions{
		Name:    cmd[0],
		Args:    cmd[1:],
		Env:     env,
		Timeout: timeout,
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCheckFailed, a.desc.Name, err)
	}
	if a.desc.RequireOutput && len(bytes.TrimSpace(result.Stdout)) == 0 {
		return fmt.Errorf("%w: %s: no active account", ErrCheckFailed, a.desc.Name)
	}
	return nil
}

func (a *CommandAdapter) LoginMethods() []LoginMethod {
	var methods []LoginMethod
	if len(a.desc.Login) > 0 {
		methods = append(methods, LoginBrowser)
	}
	if len(a.desc.TokenLogin) > 0 {
		methods = append(methods, LoginToken)
	}
	return methods
}

func (a *CommandAdapter) LoginInteractive(ctx context.Context, streams Streams, timeout time.Duration) error {
	if len(a.desc.Login) == 0 {
		return fmt.Errorf("%w: %s has no interactive login", ErrLoginUnsupported, a.desc.Name)
	}
	return a.login(ctx, a.desc.Login, streams, timeout)
}

func (a *CommandAdapter) LoginToken(ctx context.Context, token string, streams Streams, timeout time.Duration) error {
	if len(a.desc.TokenLogin) == 0 {
		return fmt.Errorf("%w: %s has no token login", ErrLoginUnsupported, a.desc.Name)
	}
	streams.In = bytes.NewBufferString(token + "\n")
	return a.login(ctx, a.desc.TokenLogin, streams, timeout)
}

func (a *CommandAdapter) login(ctx context.Context, cmd Command, streams Streams, timeout time.Duration) error {
	_, err := a.executor.Run(ctx, &exec.RunOptions{
		Name:    cmd[0],
		Args:    cmd[1:],
		Stdin:   streams.In,
		Stdout:  streams.Out,
		Stderr:  streams.Err,
		Timeout: timeout,
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLoginFailed, a.desc.Name, err)
	}
	return nil
}
