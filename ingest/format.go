package ingest

import (
	"fmt"

	"github.com/fwojciec/gemdocs"
)

// FormatBytes formats a byte count in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatTokens formats a token count in human-readable form.
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("~%d tokens", tokens)
	}
	return fmt.Sprintf("~%dk tokens", (tokens+500)/1000)
}

// FormatSummary renders the counts of a run on one line.
func FormatSummary(s *gemdocs.RunSummary) string {
	line := fmt.Sprintf("%d inserted, %d updated, %d unchanged, %d failed",
		s.Inserted, s.Updated, s.Unchanged, s.Failed)
	if s.Removed > 0 {
		line += fmt.Sprintf(", %d removed", s.Removed)
	}
	line += " (" + FormatBytes(s.Bytes)
	if s.Tokens > 0 {
		line += ", " + FormatTokens(s.Tokens)
	}
	return line + ")"
}
