package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/gemdocs"
)

// Ensure LoggingDiscoverer implements gemdocs.Discoverer.
var _ gemdocs.Discoverer = (*LoggingDiscoverer)(nil)

// LoggingDiscoverer wraps a Discoverer with logging.
type LoggingDiscoverer struct {
	next   gemdocs.Discoverer
	logger *slog.Logger
}

// NewLoggingDiscoverer creates a new LoggingDiscoverer.
func NewLoggingDiscoverer(next gemdocs.Discoverer, logger *slog.Logger) *LoggingDiscoverer {
	return &LoggingDiscoverer{next: next, logger: logger}
}

// Discover delegates to the wrapped discoverer and logs the operation.
func (d *LoggingDiscoverer) Discover(ctx context.Context) (entries []gemdocs.ManifestEntry, err error) {
	defer func(begin time.Time) {
		d.logger.Info("manifest discovery",
			"count", len(entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.Discover(ctx)
}
