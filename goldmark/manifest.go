// Package goldmark parses llms.txt manifests with goldmark.
//
// An llms.txt file is markdown: an H1 title, an optional summary, and H2
// sections whose list items link to documentation pages:
//
//	## Models
//	- [Gemini models](https://ai.google.dev/gemini-api/docs/models.md.txt): Overview
package goldmark

import (
	"context"
	"net/url"
	"strings"

	"github.com/fwojciec/gemdocs"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var _ gemdocs.ManifestParser = (*ManifestParser)(nil)

// ManifestParser extracts page links from llms.txt markdown.
type ManifestParser struct {
	// BaseURL resolves relative link destinations. Relative links are
	// returned as-is when empty and rejected later by validation.
	BaseURL string

	md goldmark.Markdown
}

// NewManifestParser creates a ManifestParser.
func NewManifestParser(baseURL string) *ManifestParser {
	return &ManifestParser{BaseURL: baseURL, md: goldmark.New()}
}

// Parse returns one entry per list item that starts with a link, in
// document order. The entry's section is the nearest preceding heading
// below the document title.
func (p *ManifestParser) Parse(_ context.Context, content string) ([]gemdocs.ManifestEntry, error) {
	md := p.md
	if md == nil {
		md = goldmark.New()
	}

	var base *url.URL
	if p.BaseURL != "" {
		u, err := url.Parse(p.BaseURL)
		if err != nil {
			return nil, gemdocs.Errorf(gemdocs.EDISCOVERY, "invalid manifest base URL %q: %v", p.BaseURL, err)
		}
		base = u
	}

	source := []byte(content)
	document := md.Parser().Parse(text.NewReader(source))

	var entries []gemdocs.ManifestEntry
	section := ""
	err := ast.Walk(document, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Heading:
			if n.Level > 1 {
				section = inlineText(n, source)
			}
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			link := leadingLink(n)
			if link == nil {
				return ast.WalkContinue, nil
			}
			entries = append(entries, gemdocs.ManifestEntry{
				FetchURL: resolve(base, string(link.Destination)),
				Title:    inlineText(link, source),
				Section:  section,
			})
			// Nested lists under a linked item are listed pages too.
			return ast.WalkContinue, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, gemdocs.Errorf(gemdocs.EDISCOVERY, "walk manifest: %v", err)
	}
	return entries, nil
}

// leadingLink returns the link that opens the list item's first block.
func leadingLink(item *ast.ListItem) *ast.Link {
	block := item.FirstChild()
	if block == nil {
		return nil
	}
	link, ok := block.FirstChild().(*ast.Link)
	if !ok {
		return nil
	}
	return link
}

// inlineText concatenates the text segments below node.
func inlineText(node ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		case *ast.CodeSpan:
			for c := t.FirstChild(); c != nil; c = c.NextSibling() {
				if seg, ok := c.(*ast.Text); ok {
					sb.Write(seg.Segment.Value(source))
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

func resolve(base *url.URL, dest string) string {
	dest = strings.TrimSpace(dest)
	if base == nil {
		return dest
	}
	ref, err := url.Parse(dest)
	if err != nil {
		return dest
	}
	return base.ResolveReference(ref).String()
}
