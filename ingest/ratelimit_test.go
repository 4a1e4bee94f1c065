package ingest_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/gemdocs"
	"github.com/fwojciec/gemdocs/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter(t *testing.T) {
	t.Parallel()

	t.Run("implements gemdocs.DomainLimiter interface", func(t *testing.T) {
		t.Parallel()
		var _ gemdocs.DomainLimiter = ingest.NewDomainLimiter(1, 1)
	})

	t.Run("rate limits requests to same domain", func(t *testing.T) {
		t.Parallel()

		limiter := ingest.NewDomainLimiter(10, 1) // 100ms between requests

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "ai.google.dev"))
		assert.Less(t, time.Since(start), 50*time.Millisecond, "first request should be immediate")

		start = time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "ai.google.dev"))
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond, "should wait for rate limit")
	})

	t.Run("burst allows immediate requests", func(t *testing.T) {
		t.Parallel()

		limiter := ingest.NewDomainLimiter(1, 3)

		start := time.Now()
		for range 3 {
			require.NoError(t, limiter.Wait(context.Background(), "ai.google.dev"))
		}
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("different domains have independent limits", func(t *testing.T) {
		t.Parallel()

		limiter := ingest.NewDomainLimiter(10, 1)
		require.NoError(t, limiter.Wait(context.Background(), "ai.google.dev"))

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "cloud.google.com"))
		assert.Less(t, time.Since(start), 50*time.Millisecond, "different domain should not wait")
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		limiter := ingest.NewDomainLimiter(1, 1)
		require.NoError(t, limiter.Wait(context.Background(), "ai.google.dev"))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, limiter.Wait(ctx, "ai.google.dev"), "should fail when context times out")
	})

	t.Run("concurrent requests all complete", func(t *testing.T) {
		t.Parallel()

		limiter := ingest.NewDomainLimiter(100, 1)

		var wg sync.WaitGroup
		var completed atomic.Int32
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := limiter.Wait(context.Background(), "ai.google.dev"); err == nil {
					completed.Add(1)
				}
			}()
		}

		wg.Wait()
		assert.Equal(t, int32(5), completed.Load())
	})
}
