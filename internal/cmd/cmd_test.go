package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/authgate/internal/adapter"
	"github.com/jmgilman/authgate/internal/auth"
	"github.com/jmgilman/authgate/internal/config"
	"github.com/jmgilman/authgate/internal/store"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    int
		wantOut string
	}{
		{name: "success", err: nil, want: ExitOK},
		{name: "plain error", err: errors.New("boom"), want: ExitError, wantOut: "Error: boom\n"},
		{name: "usage", err: usageError(errors.New("accepts 1 arg(s)")), want: ExitUsage, wantOut: "usage error"},
		{name: "unknown command", err: errors.New(`unknown command "x" for "authgate"`), want: ExitUsage},
		{name: "explicit code", err: withExitCode(7, nil), want: 7},
		{name: "explicit code with message", err: withExitCode(127, errors.New("not found")), want: 127, wantOut: "Error: not found\n"},
		{name: "wrapped explicit code", err: fmt.Errorf("run: %w", withExitCode(3, nil)), want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Equal(t, tt.want, exitCode(&out, tt.err))
			if tt.wantOut == "" && tt.err == nil {
				assert.Empty(t, out.String())
			}
			assert.Contains(t, out.String(), tt.wantOut)
		})
	}
}

func TestResultCode(t *testing.T) {
	assert.Equal(t, ExitOK, resultCode(auth.Result{OK: true}))
	assert.Equal(t, ExitUsage, resultCode(auth.Result{Err: fmt.Errorf("%w: service name is required", auth.ErrUsage)}))
	assert.Equal(t, ExitError, resultCode(auth.Result{Err: adapter.ErrUnsupportedService}))
	assert.Equal(t, ExitError, resultCode(auth.Result{Err: auth.ErrExhausted}))
}

func TestWrapExit(t *testing.T) {
	require.NoError(t, wrapExit(0, nil))

	err := wrapExit(4, nil)
	var out bytes.Buffer
	assert.Equal(t, 4, exitCode(&out, err))
	assert.Empty(t, out.String())

	err = wrapExit(1, errors.New("authentication failed: nope"))
	assert.Equal(t, 1, exitCode(&out, err))
	assert.Contains(t, out.String(), "authentication failed: nope")
}

func TestUsageArgs(t *testing.T) {
	validate := usageArgs(cobra.ExactArgs(1))

	require.NoError(t, validate(&cobra.Command{}, []string{"github"}))

	err := validate(&cobra.Command{}, nil)
	assert.ErrorIs(t, err, auth.ErrUsage)
}

func TestEnsureReason(t *testing.T) {
	assert.Equal(t, "gone", ensureReason(auth.Result{Reason: "gone", Err: errors.New("x")}))
	assert.Equal(t, "x", ensureReason(auth.Result{Err: errors.New("x")}))
	assert.Equal(t, "not authenticated", ensureReason(auth.Result{}))
}

func TestFormatList(t *testing.T) {
	assert.Empty(t, formatList(nil))
	assert.Equal(t, "table", formatList([]string{"table"}))
	assert.Equal(t, "json or yaml", formatList([]string{"json", "yaml"}))
	assert.Equal(t, "table, json or yaml", formatList([]string{"table", "json", "yaml"}))
}

func TestFormatAge(t *testing.T) {
	assert.Equal(t, "4m12s", formatAge(4*time.Minute+12*time.Second+300*time.Millisecond))
	assert.Equal(t, "0s", formatAge(0))
}

func sampleReports() []auth.Report {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	live := false
	return []auth.Report{
		{
			Service: "github",
			Cache: auth.RecordReport{
				State: auth.StateFresh, Status: "authenticated",
				UpdatedAt: &at, Age: 42 * time.Second, AgeSecs: 42, TTLSecs: 300,
			},
			Session: auth.RecordReport{
				State: auth.StateFresh, Method: "interactive",
				UpdatedAt: &at, AgeSecs: 42, TTLSecs: 86400,
			},
		},
		{
			Service: "aws",
			Cache:   auth.RecordReport{State: auth.StateAbsent},
			Session: auth.RecordReport{State: auth.StateAbsent},
			Live:    &live,
		},
	}
}

func TestWriteReports(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, writeReports(&out, outputJSON, sampleReports()))
		assert.Contains(t, out.String(), `"service": "github"`)
		assert.Contains(t, out.String(), `"age_seconds": 42`)
		assert.Contains(t, out.String(), `"live": false`)
		assert.NotContains(t, out.String(), `"Age"`)
	})

	t.Run("yaml", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, writeReports(&out, outputYAML, sampleReports()))
		assert.Contains(t, out.String(), "service: aws")
		assert.Contains(t, out.String(), "method: interactive")
	})

	t.Run("table", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, writeReports(&out, outputTable, sampleReports()))
		s := out.String()
		assert.Contains(t, s, "SERVICE")
		assert.Contains(t, s, "LIVE")
		assert.Contains(t, s, "fresh (authenticated)")
		assert.Contains(t, s, "42s")
		assert.Contains(t, s, "failed")
		assert.NotContains(t, s, "\x1b[")
	})
}

func TestNewWrapperCmd(t *testing.T) {
	c := newWrapperCmd(adapter.Builtin(adapter.GCP))

	assert.Equal(t, "gcloud", c.Name())
	assert.True(t, c.DisableFlagParsing)
	assert.Equal(t, wrappersGroup, c.GroupID)
	assert.Contains(t, c.Short, "gcp")
}

func TestWrappersRegistered(t *testing.T) {
	for _, id := range adapter.BuiltinServices {
		desc := adapter.Builtin(id)
		c, _, err := rootCmd.Find([]string{desc.Binary})
		require.NoError(t, err, desc.Binary)
		assert.Equal(t, desc.Binary, c.Name())
	}
}

func TestSplitRunArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantService string
		wantName    string
		wantArgs    []string
		wantUsage   bool
	}{
		{
			name:        "separator dropped",
			args:        []string{"okservice", "--", "echo", "hello"},
			wantService: "okservice",
			wantName:    "echo",
			wantArgs:    []string{"hello"},
		},
		{
			name:        "without separator",
			args:        []string{"aws", "terraform", "plan"},
			wantService: "aws",
			wantName:    "terraform",
			wantArgs:    []string{"plan"},
		},
		{
			name:        "later separator belongs to the command",
			args:        []string{"gh", "--", "git", "log", "--", "README.md"},
			wantService: "gh",
			wantName:    "git",
			wantArgs:    []string{"log", "--", "README.md"},
		},
		{
			name:        "command without args",
			args:        []string{"gh", "--", "env"},
			wantService: "gh",
			wantName:    "env",
			wantArgs:    []string{},
		},
		{name: "separator only", args: []string{"okservice", "--"}, wantUsage: true},
		{name: "service only", args: []string{"okservice"}, wantUsage: true},
		{name: "empty", args: nil, wantUsage: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, name, args, err := splitRunArgs(tt.args)
			if tt.wantUsage {
				require.ErrorIs(t, err, auth.ErrUsage)
				assert.Equal(t, ExitUsage, exitCode(&bytes.Buffer{}, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantService, service)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestOpenBackend_DegradesWhenCacheUnusable(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "afile")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	cfg := &config.Config{}
	cfg.Cache.Backend = config.BackendFile
	cfg.Cache.Dir = filepath.Join(file, "cache")

	assert.Equal(t, store.NullBackend{}, openBackend(ctx, cfg))

	cfg.Cache.Dir = filepath.Join(t.TempDir(), "cache")
	assert.IsType(t, &store.FileBackend{}, openBackend(ctx, cfg))
}
