package mock

import (
	"context"

	"github.com/fwojciec/docbridge"
)

var _ docbridge.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of docbridge.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return tc.CountTokensFn(ctx, text)
}

var _ docbridge.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of docbridge.Embedder.
type Embedder struct {
	EmbedFn      func(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQueryFn func(ctx context.Context, text string) ([]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedFn(ctx, texts)
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedQueryFn(ctx, text)
}
