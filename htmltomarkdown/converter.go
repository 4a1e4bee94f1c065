// Package htmltomarkdown converts extracted HTML into normalized Markdown
// page bodies. It is selected with --converter markdown; the output goes
// through gemdocs.NormalizeMarkdown, the same cleanup applied to .md.txt
// pages, so an unchanged page keeps its fingerprint across runs.
// Conversion failures are reported as EEXTRACT.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/gemdocs"
)

// Ensure Converter implements gemdocs.Converter at compile time.
var _ gemdocs.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown with line endings and
// blank-line runs normalized.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", gemdocs.Errorf(gemdocs.EEXTRACT, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", gemdocs.Errorf(gemdocs.EEXTRACT, "convert to markdown: %v", err)
	}

	return gemdocs.NormalizeMarkdown(result), nil
}
