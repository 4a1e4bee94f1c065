package gemdocs

import "strings"

// NormalizeText cleans text extracted from HTML: each line is trimmed, runs
// of two or more spaces split a line into separate phrases, and blank lines
// are dropped.
func NormalizeText(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		for _, phrase := range strings.Split(strings.TrimSpace(line), "  ") {
			phrase = strings.TrimSpace(phrase)
			if phrase == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(phrase)
		}
	}
	return b.String()
}

// NormalizeMarkdown cleans text that was fetched as plain text or Markdown.
// Line endings are unified, trailing whitespace is removed from each line,
// and runs of blank lines collapse to one. Indentation is preserved.
func NormalizeMarkdown(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
