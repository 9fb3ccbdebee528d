package utils

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrExec(t *testing.T) {
	t.Run("all succeed", func(t *testing.T) {
		counter := make(chan struct{}, 3)
		err := ErrExec(
			func() error { counter <- struct{}{}; return nil },
			func() error { counter <- struct{}{}; return nil },
			func() error { counter <- struct{}{}; return nil },
		)
		require.NoError(t, err)
		assert.Len(t, counter, 3)
	})

	t.Run("first failure surfaces", func(t *testing.T) {
		err := ErrExec(
			func() error { return nil },
			func() error { return fmt.Errorf("store unreachable") },
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store unreachable")
	})
}

func TestErrExecSequential(t *testing.T) {
	t.Run("accumulates every failure", func(t *testing.T) {
		err := ErrExecSequential(
			func() error { return fmt.Errorf("close failed") },
			func() error { return nil },
			func() error { return fmt.Errorf("flush failed") },
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "close failed")
		assert.Contains(t, err.Error(), "flush failed")
	})

	t.Run("later functions still run after a failure", func(t *testing.T) {
		ran := false
		err := ErrExecSequential(
			func() error { return fmt.Errorf("boom") },
			func() error { ran = true; return nil },
		)
		require.Error(t, err)
		assert.True(t, ran)
	})

	t.Run("nil on success", func(t *testing.T) {
		require.NoError(t, ErrExecSequential(func() error { return nil }))
	})
}

func TestErrExecFormat(t *testing.T) {
	wrapped := ErrExecFormat("failed to close store: %s", func() error {
		return fmt.Errorf("connection reset")
	})
	err := wrapped()
	require.Error(t, err)
	assert.Equal(t, "failed to close store: connection reset", err.Error())

	require.NoError(t, ErrExecFormat("unused: %s", func() error { return nil })())
}

func TestRetryExec(t *testing.T) {
	attempts := 0
	err := RetryExec(func() error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("transient")
		}
		return nil
	}, 3, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)

	err = RetryExec(func() error { return fmt.Errorf("permanent") }, 1, time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 1 retries")
}
