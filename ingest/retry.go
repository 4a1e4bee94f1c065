package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/gemdocs"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// LogFunc is called before each retry.
type LogFunc func(url string, attempt int, err error)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetryDelays calls fetch until it succeeds, waiting delays[i]
// before retry i+1. It makes len(delays)+1 attempts in total and returns
// the last error. A permanent gemdocs.StatusError is returned at once. timeout, if positive, bounds each attempt separately.
// The logger, if provided, is called before each retry.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger LogFunc, delays []time.Duration, timeout time.Duration) (string, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		content, err := fetchOnce(ctx, url, fetch, timeout)
		if err == nil {
			return content, nil
		}
		lastErr = err

		if permanent(err) || attempt >= maxAttempts-1 {
			break
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		if logger != nil {
			logger(url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return "", lastErr
}

func permanent(err error) bool {
	var statusErr *gemdocs.StatusError
	return errors.As(err, &statusErr) && statusErr.Permanent()
}

func fetchOnce(ctx context.Context, url string, fetch FetchFunc, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		return fetch(ctx, url)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fetch(ctx, url)
}
