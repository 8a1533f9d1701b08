package gemini

import (
	"context"

	"github.com/fwojciec/docbridge"
	"google.golang.org/genai"
)

const (
	// DefaultEmbeddingModel is the model used to embed documentation records.
	DefaultEmbeddingModel = "gemini-embedding-001"

	// maxEmbedBatch is the API limit on contents per request.
	maxEmbedBatch = 100
)

// Task types tell the model which side of a retrieval a vector is for.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

var _ docbridge.Embedder = (*Embedder)(nil)

// Embedder produces retrieval embeddings with the Gemini API.
type Embedder struct {
	client *genai.Client
	model  string
}

// NewEmbedder creates an Embedder using DefaultEmbeddingModel.
func NewEmbedder(client *genai.Client) *Embedder {
	return &Embedder{client: client, model: DefaultEmbeddingModel}
}

// Embed returns one document vector per text, in order. Texts are sent in
// batches.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxEmbedBatch {
		batch, err := e.embed(ctx, texts[start:min(start+maxEmbedBatch, len(texts))], TaskRetrievalDocument)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

// EmbedQuery returns the search vector for text.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.embed(ctx, []string{text}, TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *Embedder) embed(ctx context.Context, texts []string, task string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		TaskType: task,
	})
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Embeddings) != len(texts) {
		return nil, docbridge.Errorf(docbridge.EINTERNAL, "gemini returned %d embeddings for %d texts", embeddingCount(resp), len(texts))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		vectors[i] = emb.Values
	}
	return vectors, nil
}

func embeddingCount(resp *genai.EmbedContentResponse) int {
	if resp == nil {
		return 0
	}
	return len(resp.Embeddings)
}
