package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docbridge"
)

// Ensure Converter implements docbridge.DocumentConverter at compile time.
var _ docbridge.DocumentConverter = (*Converter)(nil)

// Converter dispatches on file extension. HTML goes through main-content
// extraction and segmentation, Markdown is split by headings, and every
// other format is EUNSUPPORTED.
type Converter struct {
	// Extractor strips page boilerplate. When nil, the whole document is
	// segmented.
	Extractor docbridge.Extractor
	Segmenter docbridge.Segmenter
}

// NewConverter creates a Converter.
func NewConverter(ext docbridge.Extractor, seg docbridge.Segmenter) *Converter {
	return &Converter{Extractor: ext, Segmenter: seg}
}

func (c *Converter) Convert(ctx context.Context, path string) ([]*docbridge.Element, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		data, err := c.read(ctx, path)
		if err != nil {
			return nil, err
		}
		return c.convertHTML(data)
	case ".md", ".markdown", ".mdx":
		data, err := c.read(ctx, path)
		if err != nil {
			return nil, err
		}
		return docbridge.SegmentMarkdown(data), nil
	default:
		return nil, docbridge.Errorf(docbridge.EUNSUPPORTED, "unsupported document format: %s", filepath.Base(path))
	}
}

func (c *Converter) read(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", docbridge.WrapError(docbridge.EINTERNAL, err, "read %s", path)
	}
	return string(data), nil
}

func (c *Converter) convertHTML(html string) ([]*docbridge.Element, error) {
	if c.Extractor != nil {
		result, err := c.Extractor.Extract(html)
		if err != nil {
			return nil, err
		}
		html = result.ContentHTML
	}
	return c.Segmenter.Segment(html)
}
