// Package fs implements the local-file side of docbridge: the local source
// adapter, the document converter it delegates to, and the JSON artifacts
// written after a run.
package fs

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/docbridge"
)

// Ensure Adapter implements docbridge.SourceAdapter at compile time.
var _ docbridge.SourceAdapter = (*Adapter)(nil)

// Adapter extracts units from a local documentation file. Files the
// converter understands are split into labeled elements; anything else is
// read as UTF-8 text and chunked.
type Adapter struct {
	converter docbridge.DocumentConverter
	width     int
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithConverter enables structured conversion. Without it every file is
// chunked.
func WithConverter(c docbridge.DocumentConverter) AdapterOption {
	return func(a *Adapter) {
		a.converter = c
	}
}

// WithChunkWidth sets the fallback chunk width in characters.
func WithChunkWidth(n int) AdapterOption {
	return func(a *Adapter) {
		a.width = n
	}
}

// NewAdapter creates an Adapter.
func NewAdapter(opts ...AdapterOption) *Adapter {
	a := &Adapter{width: docbridge.DefaultChunkWidth}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Extract reads the file named by src.Origin. A missing file is reported as
// ESOURCENOTFOUND before any conversion is attempted.
func (a *Adapter) Extract(ctx context.Context, src *docbridge.Source) ([]*docbridge.RawUnit, error) {
	path := localPath(src.Origin)

	info, err := os.Stat(path)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, docbridge.Errorf(docbridge.ESOURCENOTFOUND, "source file not found: %s", path)
	} else if err != nil {
		return nil, docbridge.WrapError(docbridge.EINTERNAL, err, "stat %s", path)
	}
	if info.IsDir() {
		return nil, docbridge.Errorf(docbridge.EINVALID, "source %s is a directory", path)
	}

	if a.converter != nil {
		elements, err := a.converter.Convert(ctx, path)
		if err == nil {
			return convertedUnits(elements), nil
		}
		if docbridge.ErrorCode(err) != docbridge.EUNSUPPORTED {
			return nil, err
		}
	}

	return a.chunk(path)
}

func (a *Adapter) chunk(path string) ([]*docbridge.RawUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, docbridge.WrapError(docbridge.EINTERNAL, err, "read %s", path)
	}
	if !utf8.Valid(data) {
		return nil, docbridge.Errorf(docbridge.EINVALID, "source file %s is not valid UTF-8", path)
	}

	chunks := docbridge.ChunkText(string(data), a.width)
	units := make([]*docbridge.RawUnit, 0, len(chunks))
	for _, c := range chunks {
		units = append(units, &docbridge.RawUnit{
			Content: c,
			Type:    docbridge.LabelText,
			Section: docbridge.UnknownSection,
			HasCode: docbridge.HasCode(c),
			Mode:    docbridge.ModeChunked,
		})
	}
	return units, nil
}

func convertedUnits(elements []*docbridge.Element) []*docbridge.RawUnit {
	units := make([]*docbridge.RawUnit, 0, len(elements))
	for _, e := range elements {
		if strings.TrimSpace(e.Text) == "" {
			continue
		}
		units = append(units, &docbridge.RawUnit{
			Content: e.Text,
			Type:    e.Label,
			Section: e.Section,
			HasCode: e.Label == docbridge.LabelCode || docbridge.HasCode(e.Text),
			Mode:    docbridge.ModeConverted,
		})
	}
	return units
}

// localPath accepts plain paths and file:// URLs.
func localPath(origin string) string {
	return strings.TrimPrefix(origin, "file://")
}
