// Package goquery implements the default HTML extraction: boilerplate
// elements are removed from the DOM and the remaining text is flattened
// into normalized lines.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/gemdocs"
	"golang.org/x/net/html"
)

// Compile-time interface verification.
var (
	_ gemdocs.Extractor = (*Extractor)(nil)
	_ gemdocs.Converter = (*TextConverter)(nil)
)

// DefaultBoilerplate lists the elements dropped before text extraction.
var DefaultBoilerplate = []string{"script", "style", "noscript", "template", "header", "footer", "nav"}

// Extractor removes boilerplate elements and returns the remaining body.
type Extractor struct {
	// Boilerplate is the selector list removed from the document.
	Boilerplate []string
}

// NewExtractor creates an Extractor that removes DefaultBoilerplate.
func NewExtractor() *Extractor {
	return &Extractor{Boilerplate: DefaultBoilerplate}
}

// Extract parses rawHTML and returns its title and cleaned body HTML.
func (e *Extractor) Extract(rawHTML string) (*gemdocs.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, gemdocs.Errorf(gemdocs.EEXTRACT, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, gemdocs.Errorf(gemdocs.EEXTRACT, "failed to parse HTML: %v", err)
	}

	title := strings.TrimSpace(doc.Find("head > title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	if len(e.Boilerplate) > 0 {
		doc.Find(strings.Join(e.Boilerplate, ", ")).Remove()
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	content, err := goquery.OuterHtml(body)
	if err != nil {
		return nil, gemdocs.Errorf(gemdocs.EEXTRACT, "render content: %v", err)
	}

	return &gemdocs.ExtractResult{
		Title:       title,
		ContentHTML: content,
	}, nil
}

// TextConverter flattens HTML into plain text: one text node per line,
// then gemdocs.NormalizeText.
type TextConverter struct{}

// NewTextConverter creates a TextConverter.
func NewTextConverter() *TextConverter {
	return &TextConverter{}
}

// Convert returns the normalized text content of html.
func (c *TextConverter) Convert(rawHTML string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", gemdocs.Errorf(gemdocs.EEXTRACT, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", gemdocs.Errorf(gemdocs.EEXTRACT, "failed to parse HTML: %v", err)
	}

	var sb strings.Builder
	for _, n := range doc.Nodes {
		writeText(&sb, n)
	}
	return gemdocs.NormalizeText(sb.String()), nil
}

// writeText appends every text node below n, each followed by a newline.
// Script and style contents are skipped even if not already removed.
func writeText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		sb.WriteByte('\n')
		return
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(sb, c)
	}
}
