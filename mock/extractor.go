package mock

import "github.com/fwojciec/gemdocs"

var _ gemdocs.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of gemdocs.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*gemdocs.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*gemdocs.ExtractResult, error) {
	return e.ExtractFn(html)
}
