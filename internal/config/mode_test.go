package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{input: "", want: ModeAuto},
		{input: "auto", want: ModeAuto},
		{input: "AUTO", want: ModeAuto},
		{input: "interactive", want: ModeInteractive},
		{input: "true", want: ModeInteractive},
		{input: "1", want: ModeInteractive},
		{input: "yes", want: ModeInteractive},
		{input: "noninteractive", want: ModeNonInteractive},
		{input: "non-interactive", want: ModeNonInteractive},
		{input: "false", want: ModeNonInteractive},
		{input: "0", want: ModeNonInteractive},
		{input: " no ", want: ModeNonInteractive},
		{input: "sometimes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMode)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMode_Interactive(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		ci   bool
		tty  bool
		want bool
	}{
		{name: "auto with terminal", mode: ModeAuto, tty: true, want: true},
		{name: "auto without terminal", mode: ModeAuto, tty: false, want: false},
		{name: "auto under CI", mode: ModeAuto, ci: true, tty: true, want: false},
		{name: "forced interactive under CI", mode: ModeInteractive, ci: true, want: true},
		{name: "forced noninteractive with terminal", mode: ModeNonInteractive, tty: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mode.Interactive(tt.ci, tt.tty))
		})
	}
}
