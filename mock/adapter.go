package mock

import (
	"context"

	"github.com/fwojciec/docbridge"
)

// Compile-time interface verification.
var (
	_ docbridge.SourceAdapter     = (*SourceAdapter)(nil)
	_ docbridge.DocumentConverter = (*DocumentConverter)(nil)
)

// SourceAdapter is a mock implementation of docbridge.SourceAdapter.
type SourceAdapter struct {
	ExtractFn func(ctx context.Context, src *docbridge.Source) ([]*docbridge.RawUnit, error)
}

func (a *SourceAdapter) Extract(ctx context.Context, src *docbridge.Source) ([]*docbridge.RawUnit, error) {
	return a.ExtractFn(ctx, src)
}

// DocumentConverter is a mock implementation of docbridge.DocumentConverter.
type DocumentConverter struct {
	ConvertFn func(ctx context.Context, path string) ([]*docbridge.Element, error)
}

func (c *DocumentConverter) Convert(ctx context.Context, path string) ([]*docbridge.Element, error) {
	return c.ConvertFn(ctx, path)
}
