package slogger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Verbosity(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantInfo  bool
		wantDebug bool
	}{
		{name: "default shows warnings only", verbosity: 0},
		{name: "-v shows info", verbosity: 1, wantInfo: true},
		{name: "-vv shows debug", verbosity: 2, wantInfo: true, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := New(Config{Verbosity: tt.verbosity, Output: &buf})
			require.NoError(t, err)

			logger.Debug("debug-line")
			logger.Info("info-line")
			logger.Warn("warn-line")

			out := buf.String()
			assert.Contains(t, out, "warn-line")
			assert.Equal(t, tt.wantInfo, strings.Contains(out, "info-line"))
			assert.Equal(t, tt.wantDebug, strings.Contains(out, "debug-line"))
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Format: FormatJSON, Output: &buf})
	require.NoError(t, err)

	logger.Warn("cache directory is accessible by other users", "path", "/tmp/x")

	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record))
	assert.Equal(t, "cache directory is accessible by other users", record["msg"])
	assert.Equal(t, "/tmp/x", record["path"])
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New(Config{Format: "xml"})
	assert.Error(t, err)
}

func TestFromContext(t *testing.T) {
	t.Run("returns discarding logger when unset", func(t *testing.T) {
		logger := FromContext(context.Background())
		require.NotNil(t, logger)
		logger.Error("dropped") // must not panic
	})

	t.Run("returns stored logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(Config{Output: &buf})
		require.NoError(t, err)

		ctx := WithLogger(context.Background(), logger)
		L(ctx).Warn("from-context")
		assert.Contains(t, buf.String(), "from-context")
	})
}
