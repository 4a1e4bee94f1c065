package mock

import (
	"context"
	"iter"

	"github.com/fwojciec/gemdocs"
)

var _ gemdocs.PageService = (*PageService)(nil)

// PageService is a mock implementation of gemdocs.PageService.
type PageService struct {
	UpsertPageFn       func(ctx context.Context, page *gemdocs.Page) (gemdocs.UpsertOutcome, error)
	ReplacePagesFn     func(ctx context.Context, pages []*gemdocs.Page) (*gemdocs.ReplaceResult, error)
	FindPageByURLFn    func(ctx context.Context, url string) (*gemdocs.Page, error)
	FindPagesFn        func(ctx context.Context, filter gemdocs.PageFilter) ([]*gemdocs.Page, error)
	ListPagesFn        func(ctx context.Context) iter.Seq2[*gemdocs.PageSummary, error]
	ListCapabilitiesFn func(ctx context.Context) ([]string, error)
	SearchPagesFn      func(ctx context.Context, query string, opts gemdocs.SearchOptions) ([]*gemdocs.SearchResult, error)
}

func (s *PageService) UpsertPage(ctx context.Context, page *gemdocs.Page) (gemdocs.UpsertOutcome, error) {
	return s.UpsertPageFn(ctx, page)
}

func (s *PageService) ReplacePages(ctx context.Context, pages []*gemdocs.Page) (*gemdocs.ReplaceResult, error) {
	return s.ReplacePagesFn(ctx, pages)
}

func (s *PageService) FindPageByURL(ctx context.Context, url string) (*gemdocs.Page, error) {
	return s.FindPageByURLFn(ctx, url)
}

func (s *PageService) FindPages(ctx context.Context, filter gemdocs.PageFilter) ([]*gemdocs.Page, error) {
	return s.FindPagesFn(ctx, filter)
}

func (s *PageService) ListPages(ctx context.Context) iter.Seq2[*gemdocs.PageSummary, error] {
	return s.ListPagesFn(ctx)
}

func (s *PageService) ListCapabilities(ctx context.Context) ([]string, error) {
	return s.ListCapabilitiesFn(ctx)
}

func (s *PageService) SearchPages(ctx context.Context, query string, opts gemdocs.SearchOptions) ([]*gemdocs.SearchResult, error) {
	return s.SearchPagesFn(ctx, query, opts)
}

var _ gemdocs.PageStore = (*PageStore)(nil)

// PageStore is a mock implementation of gemdocs.PageStore.
type PageStore struct {
	SaveFn   func(ctx context.Context, page *gemdocs.Page) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *PageStore) Save(ctx context.Context, page *gemdocs.Page) error {
	return s.SaveFn(ctx, page)
}

func (s *PageStore) Commit() error {
	return s.CommitFn()
}

func (s *PageStore) Abort() error {
	return s.AbortFn()
}
