package config

import (
	"fmt"
	"strings"
)

// Mode selects whether authgate may prompt a human.
type Mode string

// Interactivity modes.
const (
	ModeAuto           Mode = "auto"
	ModeInteractive    Mode = "interactive"
	ModeNonInteractive Mode = "noninteractive"
)

// ParseMode parses an interactivity setting. Besides the mode names it
// accepts boolean spellings: true/1/yes force interactive and false/0/no
// force non-interactive. Empty means auto.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "interactive", "true", "1", "yes", "on":
		return ModeInteractive, nil
	case "noninteractive", "non-interactive", "false", "0", "no", "off":
		return ModeNonInteractive, nil
	default:
		return "", fmt.Errorf("%w: %q (valid: auto, interactive, noninteractive)", ErrInvalidMode, s)
	}
}

// Interactive resolves the mode against the runtime environment. Forced
// modes win; auto is non-interactive under CI or without a terminal on stdin.
func (m Mode) Interactive(ci, stdinTTY bool) bool {
	switch m {
	case ModeInteractive:
		return true
	case ModeNonInteractive:
		return false
	default:
		return !ci && stdinTTY
	}
}
