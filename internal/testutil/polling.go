// Package testutil provides helpers shared by the storefront tests: polling
// for asynchronous state, unique session ids and platform checks.
package testutil

import (
	"context"
	"fmt"
	"time"
)

const (
	// PollingInterval is the default interval between condition checks.
	PollingInterval = 10 * time.Millisecond
	// DefaultTimeout bounds waits for background work such as the session
	// cleanup scheduler.
	DefaultTimeout = 5 * time.Second
)

// Poll repeatedly checks a condition until it becomes true or timeout expires.
// Returns an error if timeout expires before condition becomes true.
func Poll(ctx context.Context, condition func() bool, timeout time.Duration, interval time.Duration) error {
	start := time.Now()
	for {
		if condition() {
			return nil
		}

		if time.Since(start) >= timeout {
			return fmt.Errorf("timeout waiting for condition (threshold: %v)", timeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

// WaitForState waits until the state getter returns a value that satisfies
// the predicate function, or timeout expires.
//
// Example usage:
//
//	infos, err := WaitForState(ctx, scan,
//		func(s []storage.SessionInfo) bool { return len(s) == 1 },
//		DefaultTimeout, PollingInterval)
func WaitForState[T any](ctx context.Context, getter func() T, predicate func(T) bool, timeout time.Duration, interval time.Duration) (T, error) {
	start := time.Now()
	for {
		state := getter()

		if predicate(state) {
			return state, nil
		}

		if time.Since(start) >= timeout {
			var zero T
			return zero, fmt.Errorf("timeout waiting for target state (type %T, threshold: %v)", *new(T), timeout)
		}

		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-time.After(interval):
		}
	}
}
