// Package envprobe captures the process environment once at startup so the
// rest of authgate never reads environment variables or the terminal ad hoc.
package envprobe

import (
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// ciVars are environment variables whose presence identifies a CI runner.
// CI itself is checked separately because some tools set it to "false".
var ciVars = []string{
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"TRAVIS",
	"JENKINS_URL",
	"BUILDKITE",
	"TF_BUILD",
	"TEAMCITY_VERSION",
	"BITBUCKET_BUILD_NUMBER",
	"CODEBUILD_BUILD_ID",
	"DRONE",
	"SEMAPHORE",
	"APPVEYOR",
	"CONTINUOUS_INTEGRATION",
}

// Probe is an immutable view of the environment and clock.
type Probe struct {
	env      map[string]string
	stdinTTY bool
	now      func() time.Time
}

// Option configures a Probe.
type Option func(*Probe)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(p *Probe) {
		p.now = now
	}
}

// WithStdinTTY overrides terminal detection.
func WithStdinTTY(tty bool) Option {
	return func(p *Probe) {
		p.stdinTTY = tty
	}
}

// New builds a Probe from KEY=VALUE pairs (typically os.Environ()).
// Terminal detection defaults to false; use Detect for the live process.
func New(environ []string, opts ...Option) *Probe {
	p := &Probe{
		env: make(map[string]string, len(environ)),
		now: time.Now,
	}
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		p.env[key] = value
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Detect snapshots the current process: its environment and whether stdin
// is attached to a terminal.
func Detect(opts ...Option) *Probe {
	fd := os.Stdin.Fd()
	tty := term.IsTerminal(int(fd)) || isatty.IsCygwinTerminal(fd)
	return New(os.Environ(), append([]Option{WithStdinTTY(tty)}, opts...)...)
}

// Now returns the current time.
func (p *Probe) Now() time.Time {
	return p.now()
}

// Lookup returns the value of an environment variable captured at startup.
// Empty values are reported as unset.
func (p *Probe) Lookup(key string) (string, bool) {
	if key == "" {
		return "", false
	}
	v, ok := p.env[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// StdinIsTTY reports whether stdin was a terminal at startup.
func (p *Probe) StdinIsTTY() bool {
	return p.stdinTTY
}

// CISignal returns the name of the first recognized CI variable that is set,
// or "" when none is.
func (p *Probe) CISignal() string {
	if v, ok := p.Lookup("CI"); ok && !isFalse(v) {
		return "CI"
	}
	for _, key := range ciVars {
		if v, ok := p.Lookup(key); ok && !isFalse(v) {
			return key
		}
	}
	return ""
}

// IsCI reports whether a recognized CI environment signal is present.
func (p *Probe) IsCI() bool {
	return p.CISignal() != ""
}

func isFalse(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "0", "false", "no", "off":
		return true
	}
	return false
}
