package shutdownqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetQueue clears the package state between tests.
func resetQueue(t *testing.T) {
	t.Helper()

	mu.Lock()
	entries = nil
	closed = false
	mu.Unlock()

	t.Cleanup(func() {
		mu.Lock()
		entries = nil
		closed = false
		mu.Unlock()
	})
}

//nolint:paralleltest
func TestAddNilHookIsNoOp(t *testing.T) {
	resetQueue(t)

	Add("nil", nil)

	err := Shutdown(t.Context())
	require.NoError(t, err)
}

//nolint:paralleltest
func TestLIFOOrder(t *testing.T) {
	resetQueue(t)

	var order []int

	for i := 1; i <= 3; i++ {
		Add("hook", func(context.Context) error {
			order = append(order, i)
			return nil
		})
	}

	err := Shutdown(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1}, order)
}

//nolint:paralleltest
func TestPanicRecoveredAndDrainContinues(t *testing.T) {
	resetQueue(t)

	ran := false

	Add("survivor", func(context.Context) error {
		ran = true
		return nil
	})
	Add("bomb", func(context.Context) error {
		panic("boom")
	})

	err := Shutdown(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bomb")
	assert.True(t, ran, "hooks after the panicking one must still run")
}

//nolint:paralleltest
func TestErrorsAggregated(t *testing.T) {
	resetQueue(t)

	errA := errors.New("a failed")
	errB := errors.New("b failed")

	Add("a", func(context.Context) error { return errA })
	Add("b", func(context.Context) error { return errB })

	err := Shutdown(t.Context())
	require.ErrorIs(t, err, errA)
	require.ErrorIs(t, err, errB)
}

//nolint:paralleltest
func TestShutdownIdempotent(t *testing.T) {
	resetQueue(t)

	calls := 0

	Add("once", func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, Shutdown(t.Context()))
	require.NoError(t, Shutdown(t.Context()))
	assert.Equal(t, 1, calls)
}

//nolint:paralleltest
func TestContextExpiryStopsDrain(t *testing.T) {
	resetQueue(t)

	ran := false

	Add("never", func(context.Context) error {
		ran = true
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	err := Shutdown(ctx)
	require.Error(t, err)
	assert.False(t, ran)
}
