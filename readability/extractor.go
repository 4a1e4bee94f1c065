// Package readability extracts main page content with go-readability. It is
// selected with --extractor readability for documentation pages that are
// served as HTML rather than .md.txt. Failures, including pages with no
// readable article, are reported as EEXTRACT so the ingester records the
// page as failed and keeps the previously indexed body.
package readability

import (
	"strings"

	"github.com/fwojciec/gemdocs"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements gemdocs.Extractor at compile time.
var _ gemdocs.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*gemdocs.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, gemdocs.Errorf(gemdocs.EEXTRACT, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, gemdocs.Errorf(gemdocs.EEXTRACT, "readability: %v", err)
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, gemdocs.Errorf(gemdocs.EEXTRACT, "no readable content found")
	}

	return &gemdocs.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
	}, nil
}
