package mock

import (
	"context"

	"github.com/fwojciec/gemdocs"
)

var _ gemdocs.QueryService = (*QueryService)(nil)

// QueryService is a mock implementation of gemdocs.QueryService.
type QueryService struct {
	SearchDocumentationFn func(ctx context.Context, queries []string) ([]gemdocs.QueryResults, error)
	CapabilityPageFn      func(ctx context.Context, capability string) (*gemdocs.CapabilityResult, error)
	CurrentModelFn        func(ctx context.Context) ([]*gemdocs.Page, error)
}

func (s *QueryService) SearchDocumentation(ctx context.Context, queries []string) ([]gemdocs.QueryResults, error) {
	return s.SearchDocumentationFn(ctx, queries)
}

func (s *QueryService) CapabilityPage(ctx context.Context, capability string) (*gemdocs.CapabilityResult, error) {
	return s.CapabilityPageFn(ctx, capability)
}

func (s *QueryService) CurrentModel(ctx context.Context) ([]*gemdocs.Page, error) {
	return s.CurrentModelFn(ctx)
}
