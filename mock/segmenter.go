package mock

import "github.com/fwojciec/docbridge"

var _ docbridge.Segmenter = (*Segmenter)(nil)

// Segmenter is a mock implementation of docbridge.Segmenter.
type Segmenter struct {
	SegmentFn func(html string) ([]*docbridge.Element, error)
}

func (s *Segmenter) Segment(html string) ([]*docbridge.Element, error) {
	return s.SegmentFn(html)
}
