package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fwojciec/gemdocs"
	"github.com/fwojciec/gemdocs/etree"
	"github.com/fwojciec/gemdocs/gemini"
	"github.com/fwojciec/gemdocs/goldmark"
	"github.com/fwojciec/gemdocs/goquery"
	"github.com/fwojciec/gemdocs/htmltomarkdown"
	gemdocshttp "github.com/fwojciec/gemdocs/http"
	"github.com/fwojciec/gemdocs/ingest"
	"github.com/fwojciec/gemdocs/readability"
	"github.com/fwojciec/gemdocs/rod"
	gemdocsslog "github.com/fwojciec/gemdocs/slog"
	"github.com/fwojciec/gemdocs/trafilatura"
)

// NewIngester wires an ingestion pipeline from flags. The returned fetcher
// must be closed by the caller.
func NewIngester(flags PipelineFlags, pages gemdocs.PageService, logger *slog.Logger) (*ingest.Ingester, gemdocs.Fetcher, error) {
	fetcher, err := newFetcher(flags, logger)
	if err != nil {
		return nil, nil, err
	}

	extractor, err := newExtractor(flags.Extractor)
	if err != nil {
		fetcher.Close()
		return nil, nil, err
	}

	converter, err := newConverter(flags.Converter)
	if err != nil {
		fetcher.Close()
		return nil, nil, err
	}

	var tokens gemdocs.TokenCounter
	if flags.CountTokens {
		tc, err := gemini.NewTokenCounter(gemini.DefaultModel)
		if err != nil {
			fetcher.Close()
			return nil, nil, fmt.Errorf("failed to create token counter: %w", err)
		}
		tokens = tc
	}

	discoverer := &ingest.ManifestDiscoverer{
		URL:     flags.ManifestURL,
		Fetcher: fetcher,
		Parsers: map[gemdocs.ManifestFormat]gemdocs.ManifestParser{
			gemdocs.ManifestMarkdown: goldmark.NewManifestParser(flags.ManifestURL),
			gemdocs.ManifestSitemap:  etree.NewManifestParser(fetcher),
		},
		FetchTimeout: flags.Timeout,
		Logger:       logger,
	}

	var limiter gemdocs.DomainLimiter
	if flags.RateLimit > 0 {
		limiter = ingest.NewDomainLimiter(flags.RateLimit, int(flags.RateLimit))
	}

	return &ingest.Ingester{
		Discoverer:   gemdocsslog.NewLoggingDiscoverer(discoverer, logger),
		Fetcher:      fetcher,
		Extractor:    extractor,
		Converter:    converter,
		Pages:        pages,
		TokenCounter: tokens,
		RateLimiter:  limiter,
		Concurrency:  flags.Concurrency,
		FetchTimeout: flags.Timeout,
		Prune:        flags.Prune,
		Logger:       logger,
	}, fetcher, nil
}

func newFetcher(flags PipelineFlags, logger *slog.Logger) (gemdocs.Fetcher, error) {
	switch flags.Fetcher {
	case "", "http":
		return gemdocsslog.NewLoggingFetcher(gemdocshttp.NewFetcher(gemdocshttp.WithTimeout(flags.Timeout)), logger), nil
	case "browser":
		f, err := rod.NewFetcher(
			rod.WithTimeout(flags.Timeout),
			rod.WithManagerOptions(rod.WithLogger(logger)),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
		}
		return gemdocsslog.NewLoggingFetcher(f, logger), nil
	default:
		return nil, gemdocs.Errorf(gemdocs.EINVALID, "unknown fetcher %q", flags.Fetcher)
	}
}

func newExtractor(name string) (gemdocs.Extractor, error) {
	switch strings.ToLower(name) {
	case "", "goquery":
		return goquery.NewExtractor(), nil
	case "trafilatura":
		return trafilatura.NewExtractor(), nil
	case "readability":
		return readability.NewExtractor(), nil
	default:
		return nil, gemdocs.Errorf(gemdocs.EINVALID, "unknown extractor %q", name)
	}
}

func newConverter(name string) (gemdocs.Converter, error) {
	switch strings.ToLower(name) {
	case "", "text":
		return goquery.NewTextConverter(), nil
	case "markdown":
		return htmltomarkdown.NewConverter(), nil
	default:
		return nil, gemdocs.Errorf(gemdocs.EINVALID, "unknown converter %q", name)
	}
}
