package docbridge

import (
	"context"
	"time"
)

// Index is an aggregate view of a collection, recomputed on demand.
// The store stays the source of truth.
type Index struct {
	Collection     string                  `json:"collection"`
	TotalSources   int                     `json:"total_sources"`
	TotalDocuments int                     `json:"total_documents"`
	Sources        map[string]*SourceIndex `json:"sources"`
	CreatedAt      time.Time               `json:"created_at"`
}

// SourceIndex aggregates the records of one source.
// Origins and ContentTypes are sorted and free of duplicates.
type SourceIndex struct {
	DocumentCount int      `json:"document_count"`
	Origins       []string `json:"origins"`
	ContentTypes  []string `json:"content_types"`
}

// IndexWriter persists indexes.
type IndexWriter interface {
	// WriteIndex persists the index and returns where it was written.
	WriteIndex(ctx context.Context, index *Index) (string, error)
}
