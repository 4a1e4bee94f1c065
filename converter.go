package gemdocs

// Converter converts extracted HTML into text suitable for indexing.
type Converter interface {
	// Convert transforms HTML content into text or Markdown.
	// The input should be clean HTML (e.g., from an Extractor).
	Convert(html string) (string, error)
}
