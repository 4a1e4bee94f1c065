package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/gemdocs"
)

// Ensure LoggingRunner implements gemdocs.Runner.
var _ gemdocs.Runner = (*LoggingRunner)(nil)

// LoggingRunner wraps a Runner and logs each run's summary.
type LoggingRunner struct {
	next   gemdocs.Runner
	logger *slog.Logger
}

// NewLoggingRunner creates a new LoggingRunner.
func NewLoggingRunner(next gemdocs.Runner, logger *slog.Logger) *LoggingRunner {
	return &LoggingRunner{next: next, logger: logger}
}

// Run delegates to the wrapped runner and logs the outcome.
func (r *LoggingRunner) Run(ctx context.Context) (summary *gemdocs.RunSummary, err error) {
	defer func(begin time.Time) {
		if summary == nil {
			r.logger.Info("ingestion run", "duration", time.Since(begin), "err", err)
			return
		}
		r.logger.Info("ingestion run",
			"discovered", summary.Discovered,
			"inserted", summary.Inserted,
			"updated", summary.Updated,
			"unchanged", summary.Unchanged,
			"failed", summary.Failed,
			"removed", summary.Removed,
			"bytes", summary.Bytes,
			"tokens", summary.Tokens,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Run(ctx)
}
