// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jobs

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// RetryBaseDelay is the first backoff delay of withRetry. Tests override
// this to avoid real sleeps.
var RetryBaseDelay = 500 * time.Millisecond

const defaultMaxRetries = 3

// withRetry calls fn until it succeeds, returns an error that retryable
// rejects, or maxRetries retries have been spent. The delay starts at
// RetryBaseDelay and doubles each attempt. When maxRetries is 0 the default
// (3) is used. If ctx is cancelled during a wait, ctx.Err() is returned.
func withRetry(ctx context.Context, maxRetries int, retryable func(error) bool, fn func() error) error {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || !retryable(err) || attempt >= maxRetries {
			return err
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// postgresUnreachable reports whether err is a failure to reach the server,
// as opposed to an error the server returned.
func postgresUnreachable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var pgErr *pgconn.PgError
	return !errors.As(err, &pgErr)
}
