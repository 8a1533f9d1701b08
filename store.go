package docbridge

import (
	"context"
	"time"
)

// DefaultCollection is the collection shared by all documentation consumers.
const DefaultCollection = "documentation_library"

// CollectionPurpose is the baseline purpose stamped on new collections.
const CollectionPurpose = "framework_documentation"

// Collection is a named partition of the document store.
type Collection struct {
	Name     string             `json:"name"`
	Metadata CollectionMetadata `json:"metadata"`
}

// CollectionMetadata is set once when a collection is created.
type CollectionMetadata struct {
	CreatedAt time.Time `json:"created_at"`
	Purpose   string    `json:"purpose"`
}

// Store is the gateway to a document store.
// Implementations must be safe for concurrent use.
type Store interface {
	// EnsureCollection returns the named collection, creating it with
	// baseline metadata if it does not exist. Safe to call repeatedly.
	EnsureCollection(ctx context.Context, name string) (*Collection, error)

	// Upsert writes records to the collection. Records whose ID already
	// exists replace the stored content and metadata.
	// Returns ENOTFOUND if the collection does not exist.
	Upsert(ctx context.Context, collection string, records []*Record) error

	// Query returns records ranked by relevance to q.Text, restricted by
	// q.Filter and capped at q.Limit.
	// Returns ENOTFOUND if the collection does not exist.
	Query(ctx context.Context, collection string, q Query) ([]*Record, error)

	// FetchAll calls fn for every record in the collection. Records are read
	// in pages so the collection is never held in memory at once. Iteration
	// stops at the first error returned by fn.
	// Returns ENOTFOUND if the collection does not exist.
	FetchAll(ctx context.Context, collection string, fn func(*Record) error) error
}

// Query describes a store lookup.
type Query struct {
	Text   string       `json:"text"`
	Filter RecordFilter `json:"filter"`
	Limit  int          `json:"limit"`
}

// RecordFilter restricts a query by exact metadata match.
type RecordFilter struct {
	SourceName *string `json:"source_name,omitempty"`
}
