package gemdocs

import "context"

// MaxQueries is the number of queries accepted by one documentation search.
const MaxQueries = 3

// DefaultCurrentModelCapability is the capability tag of the page that
// describes the current Gemini model lineup.
const DefaultCurrentModelCapability = "Gemini models"

// QueryResults groups the matches for one search query.
type QueryResults struct {
	Query   string          `json:"query"`
	Results []*SearchResult `json:"results"`
}

// CapabilityResult is the answer to a capability lookup. Exactly one of the
// fields is populated: Capabilities when no capability was named, Pages
// otherwise.
type CapabilityResult struct {
	Capabilities []string `json:"capabilities,omitempty"`
	Pages        []*Page  `json:"pages,omitempty"`
}

// QueryService answers agent queries against the corpus. It never writes.
type QueryService interface {
	// SearchDocumentation runs each query and returns one group per query
	// in input order. Returns ETOOMANYQUERIES for more than MaxQueries.
	SearchDocumentation(ctx context.Context, queries []string) ([]QueryResults, error)

	// CapabilityPage returns every capability name when capability is
	// empty, or the pages tagged with it. Returns EUNKNOWNCAPABILITY for a
	// capability with no pages.
	CapabilityPage(ctx context.Context, capability string) (*CapabilityResult, error)

	// CurrentModel returns the current-model page(s).
	// Returns ENOTFOUND if none has been ingested.
	CurrentModel(ctx context.Context) ([]*Page, error)
}
