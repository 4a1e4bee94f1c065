package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/gemdocs"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// pagesURI is the URI of the page index resource.
const pagesURI = "gemdocs://pages"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	if s.ports.Pages == nil {
		return
	}

	s.server.AddResource(&mcp.Resource{
		URI:         pagesURI,
		Name:        "pages",
		Description: "Every indexed documentation page with its title and capability",
		MIMEType:    "application/json",
	}, s.handlePagesResource)
}

// handlePagesResource lists every stored page.
func (s *Server) handlePagesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	pages := []*gemdocs.PageSummary{}
	for page, err := range s.ports.Pages.ListPages(ctx) {
		if err != nil {
			return nil, fmt.Errorf("listing pages: %w", err)
		}
		pages = append(pages, page)
	}

	data, err := json.MarshalIndent(pages, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling pages: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
