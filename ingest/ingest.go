// Package ingest provides the ingestion pipeline: manifest discovery,
// concurrent fetch and extraction, and incremental upserts into the corpus
// index.
package ingest

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/gemdocs"
	"golang.org/x/sync/errgroup"
)

// Ingestion defaults.
const (
	DefaultConcurrency  = 20
	DefaultFetchTimeout = 30 * time.Second
)

var (
	_ gemdocs.Runner     = (*Ingester)(nil)
	_ gemdocs.Discoverer = (*Ingester)(nil)
)

// Ingester orchestrates one ingestion run.
type Ingester struct {
	Discoverer   gemdocs.Discoverer
	Fetcher      gemdocs.Fetcher
	Extractor    gemdocs.Extractor
	Converter    gemdocs.Converter
	Pages        gemdocs.PageService
	TokenCounter gemdocs.TokenCounter
	RateLimiter  gemdocs.DomainLimiter
	Concurrency  int
	RetryDelays  []time.Duration
	FetchTimeout time.Duration

	// Prune removes stored pages missing from the manifest. It only takes
	// effect on runs where every page was ingested.
	Prune bool

	Logger   *slog.Logger
	Progress ProgressFunc
}

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)

// pageResult holds the outcome of processing a single manifest entry.
type pageResult struct {
	position int
	entry    gemdocs.ManifestEntry
	body     string
	err      error
}

// Discover returns the validated manifest entries.
func (i *Ingester) Discover(ctx context.Context) ([]gemdocs.ManifestEntry, error) {
	return i.Discoverer.Discover(ctx)
}

// Run discovers the manifest and ingests every listed page. Pages that fail
// to fetch or extract are recorded in the summary and skipped. A failed
// index write stops the run and is returned along with the partial summary.
func (i *Ingester) Run(ctx context.Context) (*gemdocs.RunSummary, error) {
	entries, err := i.Discover(ctx)
	if err != nil {
		return nil, err
	}

	concurrency := i.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	logger := i.logger()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	summary := &gemdocs.RunSummary{Discovered: len(entries)}
	total := len(entries)
	i.progress(ProgressEvent{Type: ProgressStarted, Total: total})

	resultCh := make(chan pageResult, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for pos, entry := range entries {
			g.Go(func() error {
				resultCh <- i.processEntry(gctx, pos, entry)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Upserts happen on this goroutine only, in arrival order.
	var (
		completed int
		fatal     error
		failures  = make([]*gemdocs.Failure, len(entries))
		fetched   []*gemdocs.Page
	)
	for result := range resultCh {
		completed++
		done := completed
		if fatal != nil {
			continue
		}

		if result.err != nil {
			if ctx.Err() != nil {
				continue
			}
			failures[result.position] = &gemdocs.Failure{URL: result.entry.URL, Err: result.err}
			logger.Warn("page skipped", "url", result.entry.URL, "err", result.err)
			i.progress(ProgressEvent{Type: ProgressFailed, Completed: done, Total: total, URL: result.entry.URL, Error: result.err})
			continue
		}

		page := &gemdocs.Page{
			URL:        result.entry.URL,
			Title:      result.entry.Title,
			Capability: result.entry.Capability,
			Section:    result.entry.Section,
			Body:       result.body,
		}
		outcome, err := i.Pages.UpsertPage(ctx, page)
		if err != nil {
			fatal = err
			cancel()
			continue
		}
		switch outcome {
		case gemdocs.UpsertInserted:
			summary.Inserted++
		case gemdocs.UpsertUpdated:
			summary.Updated++
		default:
			summary.Unchanged++
		}
		summary.Bytes += len(page.Body)
		if i.TokenCounter != nil {
			if tokens, err := i.TokenCounter.CountTokens(ctx, page.Body); err == nil {
				summary.Tokens += tokens
			}
		}
		if i.Prune {
			fetched = append(fetched, page)
		}
		i.progress(ProgressEvent{Type: ProgressCompleted, Completed: done, Total: total, URL: page.URL})
	}

	for _, f := range failures {
		if f != nil {
			summary.Failures = append(summary.Failures, *f)
		}
	}
	summary.Failed = len(summary.Failures)

	if fatal != nil {
		if gemdocs.ErrorCode(fatal) != gemdocs.EINDEXWRITE {
			fatal = gemdocs.Errorf(gemdocs.EINDEXWRITE, "index write failed: %v", fatal)
		}
		return summary, fatal
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	if i.Prune && summary.Failed == 0 && len(fetched) > 0 {
		result, err := i.Pages.ReplacePages(ctx, fetched)
		if err != nil {
			return summary, err
		}
		summary.Removed = result.Removed
	}

	i.progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return summary, nil
}

// processEntry fetches and extracts a single page.
func (i *Ingester) processEntry(ctx context.Context, position int, entry gemdocs.ManifestEntry) pageResult {
	result := pageResult{position: position, entry: entry}

	if i.RateLimiter != nil {
		if u, err := url.Parse(entry.FetchURL); err == nil {
			if err := i.RateLimiter.Wait(ctx, u.Host); err != nil {
				result.err = err
				return result
			}
		}
	}

	delays := i.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	timeout := i.FetchTimeout
	if timeout == 0 {
		timeout = DefaultFetchTimeout
	}
	logger := i.logger()
	retryLog := func(url string, attempt int, err error) {
		logger.Debug("retry", "url", url, "attempt", attempt, "err", err)
	}

	content, err := FetchWithRetryDelays(ctx, entry.FetchURL, i.Fetcher.Fetch, retryLog, delays, timeout)
	if err != nil {
		result.err = codedError(gemdocs.EFETCH, err)
		return result
	}

	body, err := i.extract(content)
	if err != nil {
		result.err = codedError(gemdocs.EEXTRACT, err)
		return result
	}
	result.body = body
	return result
}

// extract turns fetched content into a normalized page body. HTML goes
// through the extractor and converter; anything else is treated as
// markdown.
func (i *Ingester) extract(content string) (string, error) {
	var body string
	if gemdocs.IsHTML(content) {
		extracted, err := i.Extractor.Extract(content)
		if err != nil {
			return "", err
		}
		body, err = i.Converter.Convert(extracted.ContentHTML)
		if err != nil {
			return "", err
		}
	} else {
		body = gemdocs.NormalizeMarkdown(content)
	}

	if strings.TrimSpace(body) == "" {
		return "", gemdocs.Errorf(gemdocs.EEXTRACT, "page has no text content")
	}
	return body, nil
}

func (i *Ingester) progress(event ProgressEvent) {
	if i.Progress != nil {
		i.Progress(event)
	}
}

func (i *Ingester) logger() *slog.Logger {
	if i.Logger != nil {
		return i.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// codedError tags err with code unless it already carries an application
// code.
func codedError(code string, err error) error {
	if gemdocs.ErrorCode(err) != gemdocs.EINTERNAL {
		return err
	}
	return gemdocs.Errorf(code, "%v", err)
}
