// Package prompt provides user interaction primitives using charmbracelet/huh.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrCanceled is returned when the user cancels a prompt.
var ErrCanceled = errors.New("canceled by user")

// Prompter abstracts user interaction for testability.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/prompter.go . Prompter
type Prompter interface {
	// Print outputs text to the user.
	Print(message string)

	// Confirm prompts for yes/no confirmation.
	Confirm(title, description string) (bool, error)

	// Secret prompts for secret input (no echo).
	Secret(prompt string) (string, error)

	// Choice prompts user to select from options, returns 0-based index.
	Choice(prompt string, options []string) (int, error)
}

// HuhPrompter implements Prompter using charmbracelet/huh for interactive forms.
type HuhPrompter struct {
	in  io.Reader
	out io.Writer
}

// New creates a HuhPrompter reading from in and rendering to out.
// Nil values default to os.Stdin and os.Stderr, keeping stdout free for
// command output.
func New(in io.Reader, out io.Writer) *HuhPrompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	return &HuhPrompter{in: in, out: out}
}

// Print outputs text to the user.
func (p *HuhPrompter) Print(message string) {
	_, _ = fmt.Fprintln(p.out, message)
}

// Confirm prompts for yes/no confirmation.
func (p *HuhPrompter) Confirm(title, description string) (bool, error) {
	var confirmed bool

	err := p.run(huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed))

	if err != nil {
		return false, wrap("confirm prompt", err)
	}

	return confirmed, nil
}

// Secret prompts for secret input with masked display.
func (p *HuhPrompter) Secret(prompt string) (string, error) {
	var value string

	err := p.run(huh.NewInput().
		Title(prompt).
		EchoMode(huh.EchoModePassword).
		Value(&value))

	if err != nil {
		return "", wrap("secret prompt", err)
	}

	return strings.TrimSpace(value), nil
}

// Choice prompts user to select from options and returns the 0-based index.
func (p *HuhPrompter) Choice(prompt string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, errors.New("no options provided")
	}

	// Build huh options with display labels and index values
	huhOptions := make([]huh.Option[int], len(options))
	for i, opt := range options {
		huhOptions[i] = huh.NewOption(opt, i)
	}

	var selected int

	err := p.run(huh.NewSelect[int]().
		Title(prompt).
		Options(huhOptions...).
		Value(&selected))

	if err != nil {
		return 0, wrap("choice prompt", err)
	}

	return selected, nil
}

func (p *HuhPrompter) run(field huh.Field) error {
	return huh.NewForm(huh.NewGroup(field)).
		WithInput(p.in).
		WithOutput(p.out).
		WithShowHelp(false).
		Run()
}

func wrap(op string, err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCanceled
	}
	return fmt.Errorf("%s: %w", op, err)
}
