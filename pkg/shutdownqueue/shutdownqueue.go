// Package shutdownqueue collects named cleanup hooks and drains them in
// LIFO order when the process stops.
//
// Register hooks from anywhere via Add, then drain once at the end of main:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//	defer shutdownqueue.Shutdown(ctx)
//
// Each hook runs once; panics are recovered and reported. Shutdown is
// idempotent and aggregates hook errors with errors.Join.
package shutdownqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Hook is a cleanup function. It should honor ctx and return an error if
// it cannot finish before ctx is done.
type Hook func(ctx context.Context) error

type entry struct {
	name string
	hook Hook
}

var (
	mu      sync.Mutex
	entries []entry
	closed  bool
)

// Add registers a named hook to run on Shutdown, in LIFO order. Safe from
// any goroutine. Nil hooks and hooks added after shutdown started are
// ignored.
func Add(name string, h Hook) {
	if h == nil {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	if closed {
		return
	}

	entries = append(entries, entry{name: name, hook: h})
}

// Shutdown drains all registered hooks in LIFO order. Subsequent calls are
// no-ops. If ctx expires mid-drain, the remaining hooks are skipped and the
// context error is included in the result.
func Shutdown(ctx context.Context) error {
	mu.Lock()

	if closed {
		mu.Unlock()

		return nil
	}

	closed = true
	drained := entries
	entries = nil

	mu.Unlock()

	var errs []error

	for i := len(drained) - 1; i >= 0; i-- {
		select {
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("shutdown canceled: %w", ctx.Err()))

			return errors.Join(errs...)
		default:
		}

		err := runHook(ctx, drained[i])
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func runHook(ctx context.Context, e entry) (retErr error) {
	defer func() {
		r := recover()
		if r != nil {
			retErr = fmt.Errorf("panic in shutdown hook %q: %v", e.name, r)
		}
	}()

	slog.Debug("running shutdown hook", "hook", e.name)

	err := e.hook(ctx)
	if err != nil {
		return fmt.Errorf("shutdown hook %q: %w", e.name, err)
	}

	return nil
}
