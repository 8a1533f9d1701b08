// Package gemini provides the Gemini-backed token counter and embedder.
package gemini

import (
	"context"

	"github.com/fwojciec/docbridge"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// DefaultTokenizerModel is the model whose tokenizer sizes loaded documents.
const DefaultTokenizerModel = "gemini-2.0-flash"

var _ docbridge.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens locally with the Gemini tokenizer, without
// calling the API.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a TokenCounter for the given model.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, docbridge.WrapError(docbridge.EINVALID, err, "load tokenizer for %s", model)
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens counts the tokens in text. Empty text has zero tokens.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	result, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
	if err != nil {
		return 0, err
	}
	return int(result.TotalTokens), nil
}
