package gemdocs

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Search limits.
const (
	DefaultSearchLimit = 3
	MaxSearchLimit     = 50
)

// Page represents an ingested documentation page.
type Page struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Capability  string    `json:"capability"`
	Section     string    `json:"section,omitempty"`
	Body        string    `json:"body"`
	Fingerprint string    `json:"fingerprint"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate returns an error if the page contains invalid fields.
func (p *Page) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "page URL required")
	}
	if strings.TrimSpace(p.Body) == "" {
		return Errorf(EINVALID, "page body required")
	}
	return nil
}

// PageSummary is the identity and title of a stored page.
type PageSummary struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	Capability string `json:"capability"`
}

// UpsertOutcome reports what an upsert did to the index.
type UpsertOutcome int

const (
	UpsertUnchanged UpsertOutcome = iota
	UpsertInserted
	UpsertUpdated
)

func (o UpsertOutcome) String() string {
	switch o {
	case UpsertInserted:
		return "inserted"
	case UpsertUpdated:
		return "updated"
	default:
		return "unchanged"
	}
}

// ReplaceResult reports the effect of a full corpus replace.
type ReplaceResult struct {
	Inserted  int
	Updated   int
	Unchanged int
	Removed   int
}

// PageService represents the corpus index: the stored pages plus the
// full-text structure derived from their bodies.
type PageService interface {
	// UpsertPage inserts the page or replaces the stored row and its search
	// postings in a single write. A page whose fingerprint, title,
	// capability and section match the stored version is not written.
	UpsertPage(ctx context.Context, page *Page) (UpsertOutcome, error)

	// ReplacePages atomically swaps the whole corpus for the given pages.
	// Stored pages absent from the set are removed.
	ReplacePages(ctx context.Context, pages []*Page) (*ReplaceResult, error)

	// FindPageByURL retrieves a page by canonical URL.
	// Returns ENOTFOUND if the page does not exist.
	FindPageByURL(ctx context.Context, url string) (*Page, error)

	// FindPages retrieves pages matching the filter, ordered by URL.
	FindPages(ctx context.Context, filter PageFilter) ([]*Page, error)

	// ListPages lazily yields the identity and title of every stored page.
	// The sequence may be iterated more than once.
	ListPages(ctx context.Context) iter.Seq2[*PageSummary, error]

	// ListCapabilities returns the distinct capability names, sorted.
	ListCapabilities(ctx context.Context) ([]string, error)

	// SearchPages performs a ranked full-text search, best match first.
	// Returns EINVALID for a blank query.
	SearchPages(ctx context.Context, query string, opts SearchOptions) ([]*SearchResult, error)
}

// PageFilter represents a filter for FindPages.
type PageFilter struct {
	Capability *string `json:"capability"`

	// CapabilityFold matches the capability case-insensitively.
	CapabilityFold bool `json:"capabilityFold"`

	// URLSuffix matches pages whose URL ends with the value.
	URLSuffix *string `json:"urlSuffix"`

	Limit int `json:"limit"`
}

// SearchOptions configures search behavior.
type SearchOptions struct {
	// Maximum number of results to return. Defaults to DefaultSearchLimit.
	Limit int `json:"limit,omitempty"`
}

// SearchResult represents a single full-text match.
type SearchResult struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Snippet   string    `json:"snippet"`
	Score     float64   `json:"score"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Fingerprint returns the content hash used for change detection.
func Fingerprint(body string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(body))
}

// CanonicalURL returns the identity used to store a page fetched from
// rawURL: an absolute http(s) URL with a lowercase host, no fragment and no
// ".md.txt" suffix. Returns EINVALID for anything else.
func CanonicalURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", Errorf(EINVALID, "unsupported URL scheme %q", rawURL)
	}
	if u.Host == "" {
		return "", Errorf(EINVALID, "URL %q has no host", rawURL)
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	u.Path = strings.TrimSuffix(u.Path, ".md.txt")
	u.RawPath = ""
	return u.String(), nil
}

// PageStore writes a snapshot of the corpus outside the index. Saved pages
// become visible together on Commit; Abort discards them.
type PageStore interface {
	Save(ctx context.Context, page *Page) error
	Commit() error
	Abort() error
}
