// Package trafilatura extracts main page content with go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/gemdocs"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements gemdocs.Extractor at compile time.
var _ gemdocs.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor. Tables and links are kept since
// API reference pages rely on both.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback: true,
			ExcludeTables:  false,
			IncludeLinks:   true,
		},
	}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*gemdocs.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, gemdocs.Errorf(gemdocs.EEXTRACT, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, gemdocs.Errorf(gemdocs.EEXTRACT, "trafilatura: %v", err)
	}
	if result == nil || result.ContentNode == nil {
		return nil, gemdocs.Errorf(gemdocs.EEXTRACT, "no main content found")
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return nil, gemdocs.Errorf(gemdocs.EEXTRACT, "render content: %v", err)
	}

	return &gemdocs.ExtractResult{
		Title:       strings.TrimSpace(result.Metadata.Title),
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
