package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/gemdocs/mock"
	gemslog "github.com/fwojciec/gemdocs/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs url, size and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "# Gemini models", nil
			},
		}

		fetcher := gemslog.NewLoggingFetcher(inner, logger)
		content, err := fetcher.Fetch(context.Background(), "https://ai.google.dev/gemini-api/docs/models.md.txt")

		require.NoError(t, err)
		assert.Equal(t, "# Gemini models", content)
		output := buf.String()
		assert.Contains(t, output, "msg=fetch")
		assert.Contains(t, output, "url=https://ai.google.dev/gemini-api/docs/models.md.txt")
		assert.Contains(t, output, "bytes=15")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "", errors.New("HTTP 503")
			},
		}

		fetcher := gemslog.NewLoggingFetcher(inner, logger)
		_, err := fetcher.Fetch(context.Background(), "https://ai.google.dev/gemini-api/docs/models.md.txt")

		require.Error(t, err)
		assert.Contains(t, buf.String(), `err="HTTP 503"`)
	})
}

func TestLoggingFetcher_Close(t *testing.T) {
	t.Parallel()

	closeCalled := false
	inner := &mock.Fetcher{
		CloseFn: func() error {
			closeCalled = true
			return nil
		},
	}

	fetcher := gemslog.NewLoggingFetcher(inner, slog.New(slog.DiscardHandler))
	require.NoError(t, fetcher.Close())
	assert.True(t, closeCalled)
}
