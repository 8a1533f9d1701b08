// Package readability extracts the main content of documentation pages with
// go-readability, as an alternative to the trafilatura package.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/docbridge"
	"github.com/go-shiori/go-readability"
)

var _ docbridge.Extractor = (*Extractor)(nil)

// Extractor implements docbridge.Extractor using Mozilla's Readability
// algorithm.
type Extractor struct {
	pageURL *url.URL
}

// NewExtractor creates an Extractor. Relative links in the content are
// resolved against pageURL when it is non-nil.
func NewExtractor(pageURL *url.URL) *Extractor {
	return &Extractor{pageURL: pageURL}
}

func (e *Extractor) Extract(rawHTML string) (*docbridge.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docbridge.Errorf(docbridge.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), e.pageURL)
	if err != nil {
		return nil, docbridge.WrapError(docbridge.EEXTRACTION, err, "extract main content")
	}

	return &docbridge.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
