// Package etree parses sitemap XML manifests with beevik/etree.
package etree

import (
	"context"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/gemdocs"
)

var _ gemdocs.ManifestParser = (*ManifestParser)(nil)

// ManifestParser extracts page URLs from a <urlset> sitemap. A
// <sitemapindex> is followed through Fetcher; without one, indexes are
// rejected.
type ManifestParser struct {
	Fetcher gemdocs.Fetcher
}

// NewManifestParser creates a ManifestParser that fetches nested sitemaps
// with fetcher. fetcher may be nil.
func NewManifestParser(fetcher gemdocs.Fetcher) *ManifestParser {
	return &ManifestParser{Fetcher: fetcher}
}

// Parse returns one entry per <url><loc>, in document order. Sitemaps carry
// no titles, so Title and Capability are left for validation to derive.
func (p *ManifestParser) Parse(ctx context.Context, content string) ([]gemdocs.ManifestEntry, error) {
	var entries []gemdocs.ManifestEntry
	if err := p.parse(ctx, content, map[string]bool{}, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (p *ManifestParser) parse(ctx context.Context, content string, seen map[string]bool, entries *[]gemdocs.ManifestEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(content); err != nil {
		return gemdocs.Errorf(gemdocs.EDISCOVERY, "parsing sitemap XML: %v", err)
	}

	root := doc.Root()
	if root == nil {
		return gemdocs.Errorf(gemdocs.EDISCOVERY, "empty sitemap XML")
	}

	if root.Tag == "sitemapindex" {
		return p.parseIndex(ctx, root, seen, entries)
	}

	for _, urlEl := range root.SelectElements("url") {
		loc := urlEl.SelectElement("loc")
		if loc == nil {
			continue
		}
		u := strings.TrimSpace(loc.Text())
		if u != "" {
			*entries = append(*entries, gemdocs.ManifestEntry{FetchURL: u})
		}
	}
	return nil
}

// parseIndex fetches and parses every child sitemap of a <sitemapindex>,
// skipping ones already visited.
func (p *ManifestParser) parseIndex(ctx context.Context, root *etree.Element, seen map[string]bool, entries *[]gemdocs.ManifestEntry) error {
	if p.Fetcher == nil {
		return gemdocs.Errorf(gemdocs.EDISCOVERY, "sitemap index requires a fetcher")
	}

	for _, sitemap := range root.SelectElements("sitemap") {
		loc := sitemap.SelectElement("loc")
		if loc == nil {
			continue
		}
		sitemapURL := strings.TrimSpace(loc.Text())
		if sitemapURL == "" || seen[sitemapURL] {
			continue
		}
		seen[sitemapURL] = true

		content, err := p.Fetcher.Fetch(ctx, sitemapURL)
		if err != nil {
			return gemdocs.Errorf(gemdocs.EDISCOVERY, "fetch sitemap %s: %v", sitemapURL, err)
		}
		if err := p.parse(ctx, content, seen, entries); err != nil {
			return err
		}
	}
	return nil
}
