package docbridge

import "context"

// TokenCounter counts tokens in text for a specific model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// Embedder converts texts into dense vectors for stores that need them.
type Embedder interface {
	// Embed returns one document vector per text, parallel to texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery returns the vector used to search for text.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}
