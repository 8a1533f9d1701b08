package mock

import "github.com/fwojciec/docbridge"

var _ docbridge.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docbridge.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*docbridge.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*docbridge.ExtractResult, error) {
	return e.ExtractFn(html)
}
