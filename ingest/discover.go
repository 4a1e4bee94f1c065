package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/gemdocs"
)

var _ gemdocs.Discoverer = (*ManifestDiscoverer)(nil)

// ManifestDiscoverer fetches the manifest and parses it with the parser
// registered for its detected format.
type ManifestDiscoverer struct {
	URL     string
	Fetcher gemdocs.Fetcher

	// Parsers maps a detected format to its parser. A missing list parser
	// defaults to gemdocs.URLListParser.
	Parsers map[gemdocs.ManifestFormat]gemdocs.ManifestParser

	RetryDelays  []time.Duration
	FetchTimeout time.Duration

	Logger *slog.Logger
}

// Discover fetches, parses and validates the manifest. Every failure is
// reported as EDISCOVERY.
func (d *ManifestDiscoverer) Discover(ctx context.Context) ([]gemdocs.ManifestEntry, error) {
	if d.URL == "" {
		return nil, gemdocs.Errorf(gemdocs.EDISCOVERY, "manifest URL required")
	}

	delays := d.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	content, err := FetchWithRetryDelays(ctx, d.URL, d.Fetcher.Fetch, nil, delays, d.FetchTimeout)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, gemdocs.Errorf(gemdocs.EDISCOVERY, "manifest %s unreachable: %v", d.URL, err)
	}

	format := gemdocs.DetectManifestFormat(content)
	parser := d.Parsers[format]
	if parser == nil && format == gemdocs.ManifestList {
		parser = gemdocs.URLListParser
	}
	if parser == nil {
		return nil, gemdocs.Errorf(gemdocs.EDISCOVERY, "no parser for %s manifest", format)
	}

	entries, err := parser.Parse(ctx, content)
	if err != nil {
		if gemdocs.ErrorCode(err) == gemdocs.EDISCOVERY {
			return nil, err
		}
		return nil, gemdocs.Errorf(gemdocs.EDISCOVERY, "malformed %s manifest: %v", format, err)
	}

	valid, rejected := gemdocs.FilterManifest(entries)
	for _, r := range rejected {
		d.logger().Warn("manifest entry skipped", "url", r.URL, "err", r.Err)
	}
	if len(valid) == 0 {
		return nil, gemdocs.Errorf(gemdocs.EDISCOVERY, "manifest lists no documentation pages")
	}
	return valid, nil
}

func (d *ManifestDiscoverer) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.New(slog.DiscardHandler)
}

