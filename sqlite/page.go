package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"iter"
	"strings"
	"time"

	"github.com/fwojciec/gemdocs"
)

// Compile-time interface verification.
var _ gemdocs.PageService = (*PageService)(nil)

// listBatchSize is the number of rows fetched per ListPages round trip.
const listBatchSize = 100

// PageService implements gemdocs.PageService using SQLite with FTS5.
type PageService struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewPageService creates a new PageService.
func NewPageService(db *DB) *PageService {
	return &PageService{db: db, Now: time.Now}
}

// UpsertPage inserts or replaces a page and its postings in one transaction.
func (s *PageService) UpsertPage(ctx context.Context, page *gemdocs.Page) (gemdocs.UpsertOutcome, error) {
	if err := page.Validate(); err != nil {
		return gemdocs.UpsertUnchanged, err
	}

	var outcome gemdocs.UpsertOutcome
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		outcome, err = s.upsert(ctx, tx, page)
		return err
	})
	if err != nil {
		return gemdocs.UpsertUnchanged, indexWriteError(page.URL, err)
	}
	return outcome, nil
}

// ReplacePages swaps the corpus for pages in a single transaction.
func (s *PageService) ReplacePages(ctx context.Context, pages []*gemdocs.Page) (*gemdocs.ReplaceResult, error) {
	if len(pages) == 0 {
		return nil, gemdocs.Errorf(gemdocs.EINVALID, "refusing to replace corpus with no pages")
	}
	keep := make(map[string]bool, len(pages))
	for _, page := range pages {
		if err := page.Validate(); err != nil {
			return nil, err
		}
		keep[page.URL] = true
	}

	var result gemdocs.ReplaceResult
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, page := range pages {
			outcome, err := s.upsert(ctx, tx, page)
			if err != nil {
				return err
			}
			switch outcome {
			case gemdocs.UpsertInserted:
				result.Inserted++
			case gemdocs.UpsertUpdated:
				result.Updated++
			default:
				result.Unchanged++
			}
		}

		stale, err := staleRows(ctx, tx, keep)
		if err != nil {
			return err
		}
		for _, id := range stale {
			if _, err := tx.ExecContext(ctx, "DELETE FROM pages_fts WHERE rowid = ?", id); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM pages WHERE id = ?", id); err != nil {
				return err
			}
		}
		result.Removed = len(stale)
		return nil
	})
	if err != nil {
		return nil, indexWriteError("corpus", err)
	}
	return &result, nil
}

// upsert applies a single page inside tx. The row and its postings change
// together or not at all.
func (s *PageService) upsert(ctx context.Context, tx *sql.Tx, page *gemdocs.Page) (gemdocs.UpsertOutcome, error) {
	fingerprint := page.Fingerprint
	if fingerprint == "" {
		fingerprint = gemdocs.Fingerprint(page.Body)
	}

	var (
		id                                  int64
		title, capability, section, current string
	)
	err := tx.QueryRowContext(ctx, `
		SELECT id, title, capability, section, fingerprint
		FROM pages
		WHERE url = ?
	`, page.URL).Scan(&id, &title, &capability, &section, &current)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		updatedAt := s.Now()
		res, err := tx.ExecContext(ctx, `
			INSERT INTO pages (url, title, capability, section, body, fingerprint, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, page.URL, page.Title, page.Capability, page.Section, page.Body, fingerprint, formatTime(updatedAt))
		if err != nil {
			return gemdocs.UpsertUnchanged, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return gemdocs.UpsertUnchanged, err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pages_fts (rowid, title, body) VALUES (?, ?, ?)
		`, id, page.Title, page.Body); err != nil {
			return gemdocs.UpsertUnchanged, err
		}
		page.Fingerprint = fingerprint
		page.UpdatedAt = updatedAt.UTC()
		return gemdocs.UpsertInserted, nil

	case err != nil:
		return gemdocs.UpsertUnchanged, err
	}

	if current == fingerprint && title == page.Title && capability == page.Capability && section == page.Section {
		page.Fingerprint = fingerprint
		return gemdocs.UpsertUnchanged, nil
	}

	updatedAt := s.Now()
	if _, err := tx.ExecContext(ctx, `
		UPDATE pages
		SET title = ?, capability = ?, section = ?, body = ?, fingerprint = ?, updated_at = ?
		WHERE id = ?
	`, page.Title, page.Capability, page.Section, page.Body, fingerprint, formatTime(updatedAt), id); err != nil {
		return gemdocs.UpsertUnchanged, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM pages_fts WHERE rowid = ?", id); err != nil {
		return gemdocs.UpsertUnchanged, err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO pages_fts (rowid, title, body) VALUES (?, ?, ?)
	`, id, page.Title, page.Body); err != nil {
		return gemdocs.UpsertUnchanged, err
	}
	page.Fingerprint = fingerprint
	page.UpdatedAt = updatedAt.UTC()
	return gemdocs.UpsertUpdated, nil
}

// staleRows returns the ids of stored pages whose URL is not in keep.
func staleRows(ctx context.Context, tx *sql.Tx, keep map[string]bool) ([]int64, error) {
	rows, err := tx.QueryContext(ctx, "SELECT id, url FROM pages")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stale []int64
	for rows.Next() {
		var id int64
		var url string
		if err := rows.Scan(&id, &url); err != nil {
			return nil, err
		}
		if !keep[url] {
			stale = append(stale, id)
		}
	}
	return stale, rows.Err()
}

// FindPageByURL retrieves a page by canonical URL.
func (s *PageService) FindPageByURL(ctx context.Context, url string) (*gemdocs.Page, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT url, title, capability, section, body, fingerprint, updated_at
		FROM pages
		WHERE url = ?
	`, url)

	page, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, gemdocs.Errorf(gemdocs.ENOTFOUND, "page %q not found", url)
	}
	if err != nil {
		return nil, err
	}
	return page, nil
}

// FindPages retrieves pages matching the filter.
func (s *PageService) FindPages(ctx context.Context, filter gemdocs.PageFilter) ([]*gemdocs.Page, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT url, title, capability, section, body, fingerprint, updated_at FROM pages WHERE 1=1")

	if filter.Capability != nil {
		if filter.CapabilityFold {
			query.WriteString(" AND capability = ? COLLATE NOCASE")
		} else {
			query.WriteString(" AND capability = ?")
		}
		args = append(args, *filter.Capability)
	}
	if filter.URLSuffix != nil {
		query.WriteString(" AND substr(url, -length(?)) = ?")
		args = append(args, *filter.URLSuffix, *filter.URLSuffix)
	}

	query.WriteString(" ORDER BY url ASC")
	appendPagination(&query, &args, filter.Limit, 0)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*gemdocs.Page
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// ListPages lazily yields page summaries in URL order. Rows are read in
// batches keyed by the last URL seen, so no connection is held while the
// caller consumes a batch.
func (s *PageService) ListPages(ctx context.Context) iter.Seq2[*gemdocs.PageSummary, error] {
	return func(yield func(*gemdocs.PageSummary, error) bool) {
		after := ""
		for {
			batch, err := s.listBatch(ctx, after)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, summary := range batch {
				if !yield(summary, nil) {
					return
				}
			}
			if len(batch) < listBatchSize {
				return
			}
			after = batch[len(batch)-1].URL
		}
	}
}

func (s *PageService) listBatch(ctx context.Context, after string) ([]*gemdocs.PageSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, title, capability
		FROM pages
		WHERE url > ?
		ORDER BY url ASC
		LIMIT ?
	`, after, listBatchSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	batch := make([]*gemdocs.PageSummary, 0, listBatchSize)
	for rows.Next() {
		var summary gemdocs.PageSummary
		if err := rows.Scan(&summary.URL, &summary.Title, &summary.Capability); err != nil {
			return nil, err
		}
		batch = append(batch, &summary)
	}
	return batch, rows.Err()
}

// ListCapabilities returns the distinct capability names, sorted.
func (s *PageService) ListCapabilities(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT capability
		FROM pages
		WHERE capability != ''
		ORDER BY capability ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// SearchPages runs a bm25-ranked FTS5 query. Ties are broken by the most
// recently updated page.
func (s *PageService) SearchPages(ctx context.Context, query string, opts gemdocs.SearchOptions) ([]*gemdocs.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, gemdocs.Errorf(gemdocs.EINVALID, "search query required")
	}
	match := matchExpression(query)
	if match == "" {
		return []*gemdocs.SearchResult{}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = gemdocs.DefaultSearchLimit
	}
	limit = min(limit, gemdocs.MaxSearchLimit)

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.url, p.title, snippet(pages_fts, 1, '**', '**', '...', 32), bm25(pages_fts, 2.0, 1.0) AS rank, p.updated_at
		FROM pages_fts
		JOIN pages p ON p.id = pages_fts.rowid
		WHERE pages_fts MATCH ?
		ORDER BY rank ASC, p.updated_at DESC, p.url ASC
		LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*gemdocs.SearchResult
	for rows.Next() {
		var result gemdocs.SearchResult
		var rank float64
		var updatedAt string
		if err := rows.Scan(&result.URL, &result.Title, &result.Snippet, &rank, &updatedAt); err != nil {
			return nil, err
		}
		// bm25 is negative with lower meaning better; expose a positive score.
		result.Score = -rank
		if result.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
			return nil, err
		}
		results = append(results, &result)
	}
	return results, rows.Err()
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPage(row scanner) (*gemdocs.Page, error) {
	var page gemdocs.Page
	var updatedAt string
	if err := row.Scan(&page.URL, &page.Title, &page.Capability, &page.Section,
		&page.Body, &page.Fingerprint, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if page.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &page, nil
}

// indexWriteError tags storage failures so the ingestion run treats them
// as fatal. Application errors pass through unchanged.
func indexWriteError(target string, err error) error {
	if gemdocs.ErrorCode(err) != gemdocs.EINTERNAL {
		return err
	}
	return gemdocs.Errorf(gemdocs.EINDEXWRITE, "write %s: %v", target, err)
}
