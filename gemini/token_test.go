//go:build integration

package gemini_test

import (
	"context"
	"sync"
	"testing"

	"github.com/fwojciec/gemdocs"
	"github.com/fwojciec/gemdocs/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCounter_CountTokens(t *testing.T) {
	t.Parallel()

	// Loading the tokenizer downloads its model file.
	tc, err := gemini.NewTokenCounter(gemini.DefaultModel)
	require.NoError(t, err)

	var _ gemdocs.TokenCounter = tc

	t.Run("counts tokens in text", func(t *testing.T) {
		t.Parallel()

		count, err := tc.CountTokens(context.Background(), "Generate embeddings with gemini-embedding-001.")
		require.NoError(t, err)
		assert.Positive(t, count)
	})

	t.Run("empty string returns zero", func(t *testing.T) {
		t.Parallel()

		count, err := tc.CountTokens(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("cancelled context returns error", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := tc.CountTokens(ctx, "text")
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("safe for concurrent use", func(t *testing.T) {
		t.Parallel()

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := tc.CountTokens(context.Background(), "Context caching reduces cost.")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
	})
}
