// Package gemdocs provides a local documentation index for coding agents.
// It ingests a fixed list of documentation pages, stores their text in a
// SQLite full-text index, and answers search and capability lookups through
// a small tool surface.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goldmark/, mcp/).
package gemdocs
