package gemdocs

import (
	"bufio"
	"context"
	"path"
	"strings"
)

// ManifestEntry is one documentation page listed by the manifest.
type ManifestEntry struct {
	// URL is the canonical page identity (see CanonicalURL).
	URL string `json:"url"`

	// FetchURL is the URL as listed in the manifest.
	FetchURL string `json:"fetchUrl"`

	Title      string `json:"title"`
	Capability string `json:"capability"`

	// Section is the manifest heading the entry was listed under, if any.
	Section string `json:"section,omitempty"`
}

// ManifestFormat identifies how a manifest is encoded.
type ManifestFormat string

// Supported manifest formats.
const (
	ManifestList     ManifestFormat = "list"
	ManifestMarkdown ManifestFormat = "markdown"
	ManifestSitemap  ManifestFormat = "sitemap"
)

// ManifestParser parses manifest content into entries.
// Entries are returned in document order with FetchURL, Title, Capability and
// Section populated; URL canonicalization is left to ValidateManifest.
type ManifestParser interface {
	Parse(ctx context.Context, content string) ([]ManifestEntry, error)
}

// ManifestParserFunc adapts a function to the ManifestParser interface.
type ManifestParserFunc func(ctx context.Context, content string) ([]ManifestEntry, error)

func (f ManifestParserFunc) Parse(ctx context.Context, content string) ([]ManifestEntry, error) {
	return f(ctx, content)
}

// URLListParser parses plain URL list manifests with ParseURLList.
var URLListParser ManifestParser = ManifestParserFunc(func(_ context.Context, content string) ([]ManifestEntry, error) {
	return ParseURLList(content)
})

// Discoverer produces the list of pages to ingest.
type Discoverer interface {
	// Discover fetches and validates the manifest.
	// Returns EDISCOVERY if it is unreachable or malformed.
	Discover(ctx context.Context) ([]ManifestEntry, error)
}

// DetectManifestFormat guesses the manifest encoding from its content. XML is
// a sitemap, any Markdown link makes it markdown, anything else is a list.
func DetectManifestFormat(content string) ManifestFormat {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "<?xml") || strings.HasPrefix(trimmed, "<urlset") || strings.HasPrefix(trimmed, "<sitemapindex") {
		return ManifestSitemap
	}
	scanner := bufio.NewScanner(strings.NewReader(trimmed))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, "](") {
			return ManifestMarkdown
		}
	}
	return ManifestList
}

// ParseURLList parses a line-oriented manifest. Each non-blank line holds a
// URL optionally followed by whitespace and a capability name. Lines starting
// with "#" are comments.
func ParseURLList(content string) ([]ManifestEntry, error) {
	var entries []ManifestEntry
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		entry := ManifestEntry{FetchURL: fields[0]}
		if len(fields) > 1 {
			entry.Capability = strings.Join(fields[1:], " ")
			entry.Title = entry.Capability
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, Errorf(EDISCOVERY, "read manifest: %v", err)
	}
	return entries, nil
}

// ValidateManifest canonicalizes and deduplicates parsed entries, keeping
// the first occurrence of each canonical URL. Entries without a title or
// capability get one derived from the URL path. Entries with an unusable
// URL are dropped. Returns EDISCOVERY if no entries remain.
func ValidateManifest(entries []ManifestEntry) ([]ManifestEntry, error) {
	valid, _ := FilterManifest(entries)
	if len(valid) == 0 {
		return nil, Errorf(EDISCOVERY, "manifest lists no documentation pages")
	}
	return valid, nil
}

// FilterManifest splits entries into valid, canonicalized entries and the
// ones rejected for an unusable URL.
func FilterManifest(entries []ManifestEntry) (valid []ManifestEntry, rejected []Failure) {
	seen := make(map[string]bool, len(entries))
	valid = make([]ManifestEntry, 0, len(entries))

	for _, entry := range entries {
		canonical, err := CanonicalURL(entry.FetchURL)
		if err != nil {
			rejected = append(rejected, Failure{URL: entry.FetchURL, Err: err})
			continue
		}
		if seen[canonical] {
			continue
		}
		seen[canonical] = true

		entry.URL = canonical
		entry.Title = strings.TrimSpace(entry.Title)
		entry.Capability = strings.TrimSpace(entry.Capability)
		if entry.Title == "" {
			entry.Title = titleFromURL(canonical)
		}
		if entry.Capability == "" {
			entry.Capability = entry.Title
		}
		valid = append(valid, entry)
	}
	return valid, rejected
}

// titleFromURL derives a readable title from the last path segment.
func titleFromURL(rawURL string) string {
	base := path.Base(strings.TrimSuffix(rawURL, "/"))
	return strings.ReplaceAll(base, "-", " ")
}
