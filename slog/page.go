package slog

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/fwojciec/gemdocs"
)

// Ensure LoggingPageService implements gemdocs.PageService.
var _ gemdocs.PageService = (*LoggingPageService)(nil)

// LoggingPageService wraps a PageService with logging. Writes log at
// debug level per page and info level for corpus replaces; reads log at
// debug level.
type LoggingPageService struct {
	next   gemdocs.PageService
	logger *slog.Logger
}

// NewLoggingPageService creates a new LoggingPageService.
func NewLoggingPageService(next gemdocs.PageService, logger *slog.Logger) *LoggingPageService {
	return &LoggingPageService{next: next, logger: logger}
}

func (s *LoggingPageService) UpsertPage(ctx context.Context, page *gemdocs.Page) (outcome gemdocs.UpsertOutcome, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("upsert page",
			"url", page.URL,
			"outcome", outcome.String(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpsertPage(ctx, page)
}

func (s *LoggingPageService) ReplacePages(ctx context.Context, pages []*gemdocs.Page) (result *gemdocs.ReplaceResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{"pages", len(pages), "duration", time.Since(begin), "err", err}
		if result != nil {
			attrs = append(attrs, "removed", result.Removed)
		}
		s.logger.Info("replace pages", attrs...)
	}(time.Now())
	return s.next.ReplacePages(ctx, pages)
}

func (s *LoggingPageService) FindPageByURL(ctx context.Context, url string) (page *gemdocs.Page, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find page",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindPageByURL(ctx, url)
}

func (s *LoggingPageService) FindPages(ctx context.Context, filter gemdocs.PageFilter) (pages []*gemdocs.Page, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find pages",
			"count", len(pages),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindPages(ctx, filter)
}

func (s *LoggingPageService) ListPages(ctx context.Context) iter.Seq2[*gemdocs.PageSummary, error] {
	return s.next.ListPages(ctx)
}

func (s *LoggingPageService) ListCapabilities(ctx context.Context) (names []string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("list capabilities",
			"count", len(names),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ListCapabilities(ctx)
}

func (s *LoggingPageService) SearchPages(ctx context.Context, query string, opts gemdocs.SearchOptions) (results []*gemdocs.SearchResult, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("search pages",
			"query", query,
			"limit", opts.Limit,
			"count", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SearchPages(ctx, query, opts)
}
