package etree_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/gemdocs"
	"github.com/fwojciec/gemdocs/etree"
	"github.com/fwojciec/gemdocs/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const urlset = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://ai.google.dev/gemini-api/docs/models</loc></url>
  <url><loc> https://ai.google.dev/gemini-api/docs/embeddings </loc></url>
  <url><lastmod>2025-01-01</lastmod></url>
</urlset>`

func TestManifestParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("parses urlset", func(t *testing.T) {
		t.Parallel()

		p := etree.NewManifestParser(nil)
		entries, err := p.Parse(context.Background(), urlset)
		require.NoError(t, err)
		assert.Equal(t, []gemdocs.ManifestEntry{
			{FetchURL: "https://ai.google.dev/gemini-api/docs/models"},
			{FetchURL: "https://ai.google.dev/gemini-api/docs/embeddings"},
		}, entries)
	})

	t.Run("follows sitemap index once per child", func(t *testing.T) {
		t.Parallel()

		index := `<?xml version="1.0"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>https://example.com/a.xml</loc></sitemap>
  <sitemap><loc>https://example.com/a.xml</loc></sitemap>
  <sitemap><loc>https://example.com/b.xml</loc></sitemap>
</sitemapindex>`

		var fetched []string
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				fetched = append(fetched, url)
				return `<urlset><url><loc>` + url + `#page</loc></url></urlset>`, nil
			},
		}

		p := etree.NewManifestParser(fetcher)
		entries, err := p.Parse(context.Background(), index)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/a.xml", "https://example.com/b.xml"}, fetched)
		require.Len(t, entries, 2)
		assert.Equal(t, "https://example.com/b.xml#page", entries[1].FetchURL)
	})

	t.Run("sitemap index without fetcher is a discovery error", func(t *testing.T) {
		t.Parallel()

		p := etree.NewManifestParser(nil)
		_, err := p.Parse(context.Background(), `<sitemapindex><sitemap><loc>https://example.com/a.xml</loc></sitemap></sitemapindex>`)
		require.Error(t, err)
		assert.Equal(t, gemdocs.EDISCOVERY, gemdocs.ErrorCode(err))
	})

	t.Run("child fetch failure is a discovery error", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "", errors.New("HTTP 500")
			},
		}

		p := etree.NewManifestParser(fetcher)
		_, err := p.Parse(context.Background(), `<sitemapindex><sitemap><loc>https://example.com/a.xml</loc></sitemap></sitemapindex>`)
		require.Error(t, err)
		assert.Equal(t, gemdocs.EDISCOVERY, gemdocs.ErrorCode(err))
	})

	t.Run("malformed XML is a discovery error", func(t *testing.T) {
		t.Parallel()

		p := etree.NewManifestParser(nil)
		_, err := p.Parse(context.Background(), "<urlset><<")
		require.Error(t, err)
		assert.Equal(t, gemdocs.EDISCOVERY, gemdocs.ErrorCode(err))
	})

	t.Run("empty document is a discovery error", func(t *testing.T) {
		t.Parallel()

		p := etree.NewManifestParser(nil)
		_, err := p.Parse(context.Background(), `<?xml version="1.0"?>`)
		require.Error(t, err)
		assert.Equal(t, gemdocs.EDISCOVERY, gemdocs.ErrorCode(err))
	})
}
