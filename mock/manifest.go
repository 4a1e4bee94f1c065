package mock

import (
	"context"

	"github.com/fwojciec/gemdocs"
)

// Compile-time interface verification.
var (
	_ gemdocs.Discoverer     = (*Discoverer)(nil)
	_ gemdocs.ManifestParser = (*ManifestParser)(nil)
)

// Discoverer is a mock implementation of gemdocs.Discoverer.
type Discoverer struct {
	DiscoverFn func(ctx context.Context) ([]gemdocs.ManifestEntry, error)
}

func (d *Discoverer) Discover(ctx context.Context) ([]gemdocs.ManifestEntry, error) {
	return d.DiscoverFn(ctx)
}

// ManifestParser is a mock implementation of gemdocs.ManifestParser.
type ManifestParser struct {
	ParseFn func(ctx context.Context, content string) ([]gemdocs.ManifestEntry, error)
}

func (p *ManifestParser) Parse(ctx context.Context, content string) ([]gemdocs.ManifestEntry, error) {
	return p.ParseFn(ctx, content)
}
