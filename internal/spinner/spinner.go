// Package spinner provides a terminal spinner with a status label. It is
// shown on stderr while authgate runs live status checks, updating in
// place without polluting the terminal buffer.
package spinner

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Spinner displays a spinner next to the most recent label.
type Spinner struct {
	program *tea.Program
	lineCh  chan string
	done    chan struct{}
	once    sync.Once
	output  io.Writer
}

// New creates a new Spinner that writes to the given output (typically os.Stderr).
// If output is nil, os.Stderr is used.
func New(output io.Writer) *Spinner {
	if output == nil {
		output = os.Stderr
	}

	return &Spinner{
		lineCh: make(chan string, 16),
		done:   make(chan struct{}),
		output: output,
	}
}

// Update replaces the label shown next to the spinner. It never blocks;
// labels sent faster than the terminal redraws are dropped.
func (s *Spinner) Update(label string) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.lineCh <- label:
	default:
	}
}

// Start begins the spinner display. This blocks until Stop() is called.
// Call this in a goroutine if you need to do work while the spinner runs.
func (s *Spinner) Start() error {
	// Get terminal width for truncation
	width := 80 // default
	if fd := int(os.Stderr.Fd()); term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
	}

	s.program = tea.NewProgram(newModel(s.lineCh, s.done, width),
		tea.WithOutput(s.output),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(), // Let parent handle signals
	)

	_, err := s.program.Run()
	return err
}

// Stop stops the spinner and clears its line from the terminal.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.done)
	})
}

// Run shows a spinner on output while fn executes. fn receives a function
// for updating the label. When output is not a terminal fn runs without a
// spinner.
func Run(output *os.File, label string, fn func(update func(string)) error) error {
	if output == nil || !term.IsTerminal(int(output.Fd())) {
		return fn(func(string) {})
	}

	s := New(output)
	s.Update(label)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.Start()
	}()

	err := fn(s.Update)
	s.Stop()
	wg.Wait()

	return err
}

// model is the bubbletea model for the spinner.
type model struct {
	spinner  spinner.Model
	label    string
	width    int
	lineCh   <-chan string
	done     <-chan struct{}
	quitting bool
}

// lineMsg is sent when a new label is received.
type lineMsg string

var labelStyle = lipgloss.NewStyle().Faint(true)

// newModel creates a new spinner model.
func newModel(lineCh <-chan string, done <-chan struct{}, width int) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{
		spinner: s,
		width:   width,
		lineCh:  lineCh,
		done:    done,
	}
}

// Init implements tea.Model.
//
//nolint:gocritic // hugeParam: tea.Model interface requires value receiver
func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForLine(m.lineCh, m.done),
	)
}

// Update implements tea.Model.
//
//nolint:gocritic // hugeParam: tea.Model interface requires value receiver
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case lineMsg:
		m.label = string(msg)
		return m, waitForLine(m.lineCh, m.done)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.QuitMsg:
		m.quitting = true
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
//
//nolint:gocritic // hugeParam: tea.Model interface requires value receiver
func (m model) View() string {
	if m.quitting {
		return "" // Clear the line on exit
	}

	// Spinner is typically 2 chars + 1 space
	maxLineWidth := max(m.width-3, 10)
	return m.spinner.View() + " " + labelStyle.Render(truncate(m.label, maxLineWidth))
}

// waitForLine returns a command that waits for the next label. Closing
// done quits the program.
func waitForLine(lineCh <-chan string, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case line := <-lineCh:
			return lineMsg(line)
		case <-done:
			return tea.Quit()
		}
	}
}

// truncate shortens a string to fit within maxWidth.
// If truncated, it adds "..." at the end.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return ""
	}
	if len(s) <= maxWidth {
		return s
	}
	return s[:maxWidth-3] + "..."
}
