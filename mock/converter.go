package mock

import "github.com/fwojciec/gemdocs"

var _ gemdocs.Converter = (*Converter)(nil)

// Converter is a mock implementation of gemdocs.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
