// Package wait holds the two suspension points used while driving the console:
// polling until an observable condition holds, and a bounded fixed pause where no
// such condition exists.
package wait

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// ErrTimeout is returned by Until when the condition did not hold in time
var ErrTimeout = errors.New("condition not met before timeout")

var errPending = errors.New("condition pending")

// Condition reports whether the awaited state has been reached. An error aborts the wait.
type Condition func(ctx context.Context) (bool, error)

// Until polls cond every interval until it holds, fails, or timeout elapses.
// A non-positive timeout checks the condition exactly once.
func Until(ctx context.Context, timeout, interval time.Duration, cond Condition) error {
	if timeout <= 0 {
		ok, err := cond(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return ErrTimeout
		}
		return nil
	}
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		ok, err := cond(ctx)
		if err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		if !ok {
			return struct{}{}, errPending
		}
		return struct{}{}, nil
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(interval)),
		backoff.WithMaxElapsedTime(timeout),
	)
	if errors.Is(err, errPending) {
		return ErrTimeout
	}
	return err
}

// Pause sleeps for d or until ctx is done
func Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
