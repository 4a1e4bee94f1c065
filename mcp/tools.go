package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/gemdocs"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchInput is the input schema for the search_documentation tool.
type SearchInput struct {
	Queries []string `json:"queries" jsonschema:"up to 3 keyword queries, e.g. ['function calling', 'gemini 2.5']; drop stop words"`
}

// SearchOutput is the output schema for the search_documentation tool.
type SearchOutput struct {
	Groups []QueryGroup `json:"groups"`
}

// QueryGroup holds the matches for one query.
type QueryGroup struct {
	Query   string      `json:"query"`
	Results []SearchHit `json:"results"`
}

// SearchHit is a single search match.
type SearchHit struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

// CapabilityInput is the input schema for the get_capability_page tool.
type CapabilityInput struct {
	Capability string `json:"capability,omitempty" jsonschema:"exact capability name; omit to list all capability names"`
}

// CapabilityOutput is the output schema for the get_capability_page tool.
type CapabilityOutput struct {
	Capabilities []string     `json:"capabilities,omitempty"`
	Pages        []PageOutput `json:"pages,omitempty"`
}

// PageOutput is a documentation page returned to the agent.
type PageOutput struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Body  string `json:"body"`
}

// CurrentModelInput is the input schema for the get_current_model tool.
type CurrentModelInput struct{}

// CurrentModelOutput is the output schema for the get_current_model tool.
type CurrentModelOutput struct {
	Pages []PageOutput `json:"pages"`
}

// RefreshInput is the input schema for the refresh tools.
type RefreshInput struct{}

// RefreshOutput is the output schema for the refresh_documentation tool.
type RefreshOutput struct {
	Status string `json:"status"`
}

// StatusOutput is the output schema for the refresh_status tool.
type StatusOutput struct {
	Status  string `json:"status"`
	RunID   string `json:"run_id,omitempty"`
	LastRun string `json:"last_run,omitempty"`
	Error   string `json:"error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "search_documentation",
		Description: "Keyword full-text search over the Gemini API documentation. " +
			"This is not semantic search: use core nouns and verbs, and retry with simpler synonyms if nothing matches.",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "get_capability_page",
		Description: "Returns the full documentation for a capability by its exact name. " +
			"Call without arguments first to list every capability name.",
	}, s.handleCapabilityPage)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_current_model",
		Description: "Returns the Gemini models page: model variants, capabilities, versions and context window sizes.",
	}, s.handleCurrentModel)

	if s.ports.Refresh == nil {
		return
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "refresh_documentation",
		Description: "Starts re-ingesting the documentation in the background unless a refresh is already running.",
	}, s.handleRefresh)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "refresh_status",
		Description: "Reports the state of the latest documentation refresh.",
	}, s.handleRefreshStatus)
}

// handleSearch handles the search_documentation tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	groups, err := s.ports.Query.SearchDocumentation(ctx, input.Queries)
	if err != nil {
		return nil, SearchOutput{}, toolError(err)
	}

	output := SearchOutput{Groups: make([]QueryGroup, len(groups))}
	for i, g := range groups {
		hits := make([]SearchHit, len(g.Results))
		for j, r := range g.Results {
			hits[j] = SearchHit{Title: r.Title, URL: r.URL, Snippet: r.Snippet, Score: r.Score}
		}
		output.Groups[i] = QueryGroup{Query: g.Query, Results: hits}
	}
	return nil, output, nil
}

// handleCapabilityPage handles the get_capability_page tool invocation.
func (s *Server) handleCapabilityPage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CapabilityInput,
) (*mcp.CallToolResult, CapabilityOutput, error) {
	result, err := s.ports.Query.CapabilityPage(ctx, input.Capability)
	if err != nil {
		return nil, CapabilityOutput{}, toolError(err)
	}

	if result.Pages == nil {
		return nil, CapabilityOutput{Capabilities: result.Capabilities}, nil
	}
	return nil, CapabilityOutput{Pages: pageOutputs(result.Pages)}, nil
}

// handleCurrentModel handles the get_current_model tool invocation.
func (s *Server) handleCurrentModel(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ CurrentModelInput,
) (*mcp.CallToolResult, CurrentModelOutput, error) {
	pages, err := s.ports.Query.CurrentModel(ctx)
	if err != nil {
		return nil, CurrentModelOutput{}, toolError(err)
	}
	return nil, CurrentModelOutput{Pages: pageOutputs(pages)}, nil
}

// handleRefresh handles the refresh_documentation tool invocation.
func (s *Server) handleRefresh(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ RefreshInput,
) (*mcp.CallToolResult, RefreshOutput, error) {
	return nil, RefreshOutput{Status: string(s.ports.Refresh.Trigger())}, nil
}

// handleRefreshStatus handles the refresh_status tool invocation.
func (s *Server) handleRefreshStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ RefreshInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	status := s.ports.Refresh.Status()
	output := StatusOutput{
		Status: string(status.State),
		RunID:  status.RunID,
		Error:  status.Error,
	}
	if status.LastRun != nil {
		output.LastRun = status.LastRun.Format(time.RFC3339)
	}
	return nil, output, nil
}

func pageOutputs(pages []*gemdocs.Page) []PageOutput {
	out := make([]PageOutput, len(pages))
	for i, p := range pages {
		out[i] = PageOutput{Title: p.Title, URL: p.URL, Body: p.Body}
	}
	return out
}

// toolError converts err into the message reported to the agent. Internal
// errors are not described.
func toolError(err error) error {
	code := gemdocs.ErrorCode(err)
	return errors.New(code + ": " + gemdocs.ErrorMessage(err))
}
