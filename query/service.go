// Package query implements the read-only query surface offered to the
// calling agent on top of the corpus index.
package query

import (
	"context"
	"strings"

	"github.com/fwojciec/gemdocs"
)

var _ gemdocs.QueryService = (*Service)(nil)

// Service answers documentation queries from a gemdocs.PageService.
type Service struct {
	Pages gemdocs.PageService

	// Limit is the number of results per query.
	// Defaults to gemdocs.DefaultSearchLimit.
	Limit int

	// CurrentModelCapability tags the current-model page. Matched
	// case-insensitively. Defaults to gemdocs.DefaultCurrentModelCapability.
	CurrentModelCapability string
}

// NewService creates a Service with default settings.
func NewService(pages gemdocs.PageService) *Service {
	return &Service{Pages: pages}
}

// SearchDocumentation runs each query against the index. A query without
// matches yields an empty group.
func (s *Service) SearchDocumentation(ctx context.Context, queries []string) ([]gemdocs.QueryResults, error) {
	if len(queries) > gemdocs.MaxQueries {
		return nil, gemdocs.Errorf(gemdocs.ETOOMANYQUERIES, "at most %d queries allowed, got %d", gemdocs.MaxQueries, len(queries))
	}

	groups := make([]gemdocs.QueryResults, 0, len(queries))
	for _, q := range queries {
		results, err := s.Pages.SearchPages(ctx, q, gemdocs.SearchOptions{Limit: s.Limit})
		if err != nil {
			return nil, err
		}
		if results == nil {
			results = []*gemdocs.SearchResult{}
		}
		groups = append(groups, gemdocs.QueryResults{Query: q, Results: results})
	}
	return groups, nil
}

// CapabilityPage lists capabilities or returns the pages tagged with one.
// Capability names match exactly.
func (s *Service) CapabilityPage(ctx context.Context, capability string) (*gemdocs.CapabilityResult, error) {
	capability = strings.TrimSpace(capability)
	if capability == "" {
		names, err := s.Pages.ListCapabilities(ctx)
		if err != nil {
			return nil, err
		}
		if names == nil {
			names = []string{}
		}
		return &gemdocs.CapabilityResult{Capabilities: names}, nil
	}

	pages, err := s.Pages.FindPages(ctx, gemdocs.PageFilter{Capability: &capability})
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, gemdocs.Errorf(gemdocs.EUNKNOWNCAPABILITY, "capability %q not found", capability)
	}
	return &gemdocs.CapabilityResult{Pages: pages}, nil
}

// CurrentModel returns the pages tagged with the current-model capability,
// falling back to the page whose URL ends in "/models".
func (s *Service) CurrentModel(ctx context.Context) ([]*gemdocs.Page, error) {
	capability := s.CurrentModelCapability
	if capability == "" {
		capability = gemdocs.DefaultCurrentModelCapability
	}

	pages, err := s.Pages.FindPages(ctx, gemdocs.PageFilter{Capability: &capability, CapabilityFold: true})
	if err != nil {
		return nil, err
	}
	if len(pages) > 0 {
		return pages, nil
	}

	suffix := "/models"
	pages, err = s.Pages.FindPages(ctx, gemdocs.PageFilter{URLSuffix: &suffix, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, gemdocs.Errorf(gemdocs.ENOTFOUND, "current model documentation not found")
	}
	return pages, nil
}
