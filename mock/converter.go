package mock

import "github.com/fwojciec/docbridge"

var _ docbridge.Converter = (*Converter)(nil)

// Converter is a mock implementation of docbridge.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
