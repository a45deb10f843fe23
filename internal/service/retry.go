package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BloggingApp/blog-service/internal/metrics"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	defaultStoreTimeout = 5 * time.Second
	defaultStoreRetries = 3
	initialBackoff      = 100 * time.Millisecond
)

// storeCaller bounds every repository call with a timeout and retries
// transient failures with exponential backoff.
type storeCaller struct {
	timeout time.Duration
	retries int
	metrics metrics.Recorder
	sleep   func(ctx context.Context, d time.Duration) error
}

func newStoreCaller(timeout time.Duration, retries int, recorder metrics.Recorder) *storeCaller {
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	if retries <= 0 {
		retries = defaultStoreRetries
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &storeCaller{
		timeout: timeout,
		retries: retries,
		metrics: recorder,
		sleep:   sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isTransient(err error) bool {
	return pgconn.SafeToRetry(err) || pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded)
}

// call runs fn until it succeeds, fails permanently or runs out of attempts.
// Exhausted transient failures are wrapped in ErrUnavailable.
func call[T any](ctx context.Context, c *storeCaller, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	backoff := initialBackoff
	for attempt := 1; ; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		result, err := fn(callCtx)
		cancel()

		if err == nil || !isTransient(err) {
			return result, err
		}
		if attempt >= c.retries || ctx.Err() != nil {
			return result, fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
		}

		c.metrics.RecordStoreRetry(op)
		if err := c.sleep(ctx, backoff); err != nil {
			return result, fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
		}
		backoff *= 2
	}
}

func exec(ctx context.Context, c *storeCaller, op string, fn func(ctx context.Context) error) error {
	_, err := call(ctx, c, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
