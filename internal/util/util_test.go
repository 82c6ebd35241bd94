package util

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteCommand(t *testing.T) {
	t.Run("empty argv", func(t *testing.T) {
		_, err := ExecuteCommand(context.Background(), nil)
		assert.Error(t, err)
	})

	t.Run("captures stdout", func(t *testing.T) {
		out, err := ExecuteCommand(context.Background(), []string{"sh", "-c", "echo hello"})
		require.NoError(t, err)
		assert.Equal(t, "hello\n", out.Stdout)
		assert.Empty(t, out.Stderr)
		assert.Zero(t, out.ExitCode)
	})

	t.Run("captures stderr and exit code on failure", func(t *testing.T) {
		out, err := ExecuteCommand(context.Background(), []string{"sh", "-c", "echo broken >&2; exit 3"})
		require.Error(t, err)
		assert.Equal(t, "broken\n", out.Stderr)
		assert.Equal(t, 3, out.ExitCode)
		assert.False(t, IsNotFound(err))
	})

	t.Run("missing binary", func(t *testing.T) {
		_, err := ExecuteCommand(context.Background(), []string{"definitely-not-a-real-binary"})
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})
}
