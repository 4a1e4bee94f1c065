package slog_test

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"log/slog"
	"testing"

	"github.com/fwojciec/gemdocs"
	"github.com/fwojciec/gemdocs/mock"
	gemslog "github.com/fwojciec/gemdocs/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingPageService(t *testing.T) {
	t.Parallel()

	newLogger := func(buf *bytes.Buffer) *slog.Logger {
		return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	t.Run("logs upsert outcome", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.PageService{
			UpsertPageFn: func(context.Context, *gemdocs.Page) (gemdocs.UpsertOutcome, error) {
				return gemdocs.UpsertUpdated, nil
			},
		}

		svc := gemslog.NewLoggingPageService(inner, newLogger(&buf))
		outcome, err := svc.UpsertPage(context.Background(), &gemdocs.Page{URL: "https://example.com/a", Body: "a"})

		require.NoError(t, err)
		assert.Equal(t, gemdocs.UpsertUpdated, outcome)
		output := buf.String()
		assert.Contains(t, output, `msg="upsert page"`)
		assert.Contains(t, output, "url=https://example.com/a")
		assert.Contains(t, output, "outcome=updated")
	})

	t.Run("logs replace at info level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.PageService{
			ReplacePagesFn: func(_ context.Context, pages []*gemdocs.Page) (*gemdocs.ReplaceResult, error) {
				return &gemdocs.ReplaceResult{Unchanged: len(pages), Removed: 4}, nil
			},
		}

		svc := gemslog.NewLoggingPageService(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		_, err := svc.ReplacePages(context.Background(), []*gemdocs.Page{{URL: "https://example.com/a"}})

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=INFO")
		assert.Contains(t, output, "pages=1")
		assert.Contains(t, output, "removed=4")
	})

	t.Run("logs search query and result count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.PageService{
			SearchPagesFn: func(context.Context, string, gemdocs.SearchOptions) ([]*gemdocs.SearchResult, error) {
				return []*gemdocs.SearchResult{{URL: "https://example.com/a"}}, nil
			},
		}

		svc := gemslog.NewLoggingPageService(inner, newLogger(&buf))
		_, err := svc.SearchPages(context.Background(), "embeddings", gemdocs.SearchOptions{Limit: 3})

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "query=embeddings")
		assert.Contains(t, output, "limit=3")
		assert.Contains(t, output, "count=1")
	})

	t.Run("logs lookup errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.PageService{
			FindPageByURLFn: func(context.Context, string) (*gemdocs.Page, error) {
				return nil, gemdocs.Errorf(gemdocs.ENOTFOUND, "page not found")
			},
			FindPagesFn: func(context.Context, gemdocs.PageFilter) ([]*gemdocs.Page, error) {
				return nil, errors.New("database is locked")
			},
			ListCapabilitiesFn: func(context.Context) ([]string, error) {
				return []string{"Caching"}, nil
			},
		}

		svc := gemslog.NewLoggingPageService(inner, newLogger(&buf))
		_, err := svc.FindPageByURL(context.Background(), "https://example.com/missing")
		require.Error(t, err)
		_, err = svc.FindPages(context.Background(), gemdocs.PageFilter{})
		require.Error(t, err)
		names, err := svc.ListCapabilities(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"Caching"}, names)

		output := buf.String()
		assert.Contains(t, output, `err="page not found"`)
		assert.Contains(t, output, `err="database is locked"`)
		assert.Contains(t, output, `msg="list capabilities"`)
	})

	t.Run("passes list iteration through", func(t *testing.T) {
		t.Parallel()

		inner := &mock.PageService{
			ListPagesFn: func(context.Context) iter.Seq2[*gemdocs.PageSummary, error] {
				return func(yield func(*gemdocs.PageSummary, error) bool) {
					yield(&gemdocs.PageSummary{URL: "https://example.com/a"}, nil)
				}
			},
		}

		svc := gemslog.NewLoggingPageService(inner, slog.New(slog.DiscardHandler))
		var urls []string
		for page, err := range svc.ListPages(context.Background()) {
			require.NoError(t, err)
			urls = append(urls, page.URL)
		}
		assert.Equal(t, []string{"https://example.com/a"}, urls)
	})
}
