// Package trafilatura extracts the main content of documentation pages with
// go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/docbridge"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ docbridge.Extractor = (*Extractor)(nil)

// Extractor strips navigation, footers and comments from an HTML document,
// keeping the article body.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates an Extractor with fallback extractors enabled.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback:  true,
			ExcludeComments: true,
		},
	}
}

func (e *Extractor) Extract(rawHTML string) (*docbridge.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docbridge.Errorf(docbridge.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, docbridge.WrapError(docbridge.EEXTRACTION, err, "extract main content")
	}
	if result.ContentNode == nil {
		return nil, docbridge.Errorf(docbridge.EEXTRACTION, "no main content found")
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, result.ContentNode); err != nil {
		return nil, docbridge.WrapError(docbridge.EEXTRACTION, err, "render main content")
	}

	return &docbridge.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: buf.String(),
	}, nil
}
