// Package mcp exposes the documentation query tools to agents over the
// Model Context Protocol.
package mcp

import (
	"errors"

	"github.com/fwojciec/gemdocs"
)

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")

// Ports aggregates the services the MCP server calls into.
type Ports struct {
	// Query answers search and lookup tools.
	Query gemdocs.QueryService

	// Refresh backs the refresh tools. Optional; the tools are not
	// registered without it.
	Refresh gemdocs.Refresher

	// Pages backs the page listing resource. Optional.
	Pages gemdocs.PageService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
