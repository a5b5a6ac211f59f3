package exec

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	e := New()
	require.NotNil(t, e)
}

func TestExecutor_Run(t *testing.T) {
	e := New()

	t.Run("captures stdout", func(t *testing.T) {
		result, err := e.Run(context.Background(), &RunOptions{
			Name: "echo",
			Args: []string{"hello"},
		})

		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(result.Stdout))
		assert.Empty(t, result.Stderr)
		assert.Equal(t, 0, result.ExitCode)
	})

	t.Run("captures exit code on failure", func(t *testing.T) {
		result, err := e.Run(context.Background(), &RunOptions{
			Name: "sh",
			Args: []string{"-c", "exit 42"},
		})

		require.Error(t, err)
		var exitErr *exec.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 42, result.ExitCode)
		assert.Equal(t, 42, ExitCode(err))
	})

	t.Run("streams to provided writers", func(t *testing.T) {
		var out, errOut bytes.Buffer
		result, err := e.Run(context.Background(), &RunOptions{
			Name:   "sh",
			Args:   []string{"-c", "echo streamed; echo oops >&2"},
			Stdout: &out,
			Stderr: &errOut,
		})

		require.NoError(t, err)
		assert.Nil(t, result.Stdout, "Stdout should be nil when streaming")
		assert.Nil(t, result.Stderr, "Stderr should be nil when streaming")
		assert.Equal(t, "streamed\n", out.String())
		assert.Equal(t, "oops\n", errOut.String())
	})

	t.Run("passes environment variables", func(t *testing.T) {
		result, err := e.Run(context.Background(), &RunOptions{
			Name: "sh",
			Args: []string{"-c", "echo $AUTHGATE_TEST_VAR"},
			Env:  []string{"AUTHGATE_TEST_VAR=hello_env"},
		})

		require.NoError(t, err)
		assert.Equal(t, "hello_env\n", string(result.Stdout))
	})

	t.Run("reads from stdin", func(t *testing.T) {
		result, err := e.Run(context.Background(), &RunOptions{
			Name:  "cat",
			Stdin: strings.NewReader("token-on-stdin"),
		})

		require.NoError(t, err)
		assert.Equal(t, "token-on-stdin", string(result.Stdout))
	})

	t.Run("timeout is reported as ErrTimeout", func(t *testing.T) {
		start := time.Now()
		_, err := e.Run(context.Background(), &RunOptions{
			Name:    "sleep",
			Args:    []string{"10"},
			Timeout: 50 * time.Millisecond,
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTimeout)
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := e.Run(ctx, &RunOptions{
			Name: "sleep",
			Args: []string{"10"},
		})

		require.Error(t, err)
	})

	t.Run("missing binary is ErrCommandNotFound", func(t *testing.T) {
		result, err := e.Run(context.Background(), &RunOptions{
			Name: "authgate_nonexistent_command_12345",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCommandNotFound)
		assert.Equal(t, -1, result.ExitCode)
	})
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
	assert.Equal(t, 1, ExitCode(ErrTimeout))
}

func TestExecutor_LookPath(t *testing.T) {
	e := New()

	t.Run("finds existing command", func(t *testing.T) {
		path, err := e.LookPath("sh")

		require.NoError(t, err)
		assert.NotEmpty(t, path)
	})

	t.Run("returns error for nonexistent command", func(t *testing.T) {
		_, err := e.LookPath("authgate_nonexistent_command_12345")

		require.Error(t, err)
		var execErr *exec.Error
		assert.ErrorAs(t, err, &execErr)
	})
}
