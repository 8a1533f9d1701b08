// Package chroma implements docbridge.Store on a Chroma server using the
// chroma-go client.
package chroma

import (
	"context"
	"time"

	"github.com/fwojciec/docbridge"
)

const (
	// DefaultTimeout bounds each request to the Chroma server.
	DefaultTimeout = 30 * time.Second

	// MaxBatchSize is the largest number of records sent in one upsert.
	MaxBatchSize = 1000

	// DefaultPageSize is the number of records read per FetchAll page.
	DefaultPageSize = 500

	// DefaultQueryLimit caps Query results when no limit is given.
	DefaultQueryLimit = 10
)

// Compile-time interface verification.
var _ docbridge.Store = (*Store)(nil)

// Backend is the part of the Chroma API the Store drives. Errors are
// docbridge errors: ENOTFOUND for a missing collection, EUNAVAILABLE for
// anything the server or transport rejected.
type Backend interface {
	GetOrCreateCollection(ctx context.Context, name string, metadata docbridge.CollectionMetadata) (*docbridge.Collection, error)
	Upsert(ctx context.Context, collection string, batch *Batch) error
	Get(ctx context.Context, collection string, req GetRequest) ([]*docbridge.Record, error)
	Query(ctx context.Context, collection string, req QueryRequest) ([]*docbridge.Record, error)
	Close() error
}

// Batch is one upsert request. Embeddings is nil when the server should
// embed Records itself.
type Batch struct {
	Records    []*docbridge.Record
	Embeddings [][]float32
}

// GetRequest reads records without ranking.
type GetRequest struct {
	SourceName *string
	Limit      int
	Offset     int
}

// QueryRequest is a similarity search. Embedding, when set, is used instead
// of embedding Text on the server.
type QueryRequest struct {
	Text       string
	Embedding  []float32
	SourceName *string
	NResults   int
}

// Store adapts a Backend to docbridge.Store.
//
// With an Embedder, records and queries are embedded client-side. Without
// one, Chroma's default embedding function embeds them.
type Store struct {
	backend  Backend
	timeout  time.Duration
	embedder docbridge.Embedder
	pageSize int
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.timeout = d
	}
}

// WithEmbedder embeds records and queries with e.
func WithEmbedder(e docbridge.Embedder) Option {
	return func(s *Store) {
		s.embedder = e
	}
}

// WithPageSize sets the FetchAll page size.
func WithPageSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithNow sets the clock used for collection metadata.
func WithNow(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore connects to the Chroma server at baseURL.
func NewStore(baseURL string, opts ...Option) (*Store, error) {
	s := newStore(opts)
	backend, err := NewClient(baseURL, s.timeout)
	if err != nil {
		return nil, err
	}
	s.backend = backend
	return s, nil
}

// NewStoreWithBackend creates a Store over an existing Backend.
func NewStoreWithBackend(backend Backend, opts ...Option) *Store {
	s := newStore(opts)
	s.backend = backend
	return s
}

func newStore(opts []Option) *Store {
	s := &Store{
		timeout:  DefaultTimeout,
		pageSize: DefaultPageSize,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the client's resources.
func (s *Store) Close() error {
	return s.backend.Close()
}

// EnsureCollection gets or creates the named collection.
func (s *Store) EnsureCollection(ctx context.Context, name string) (*docbridge.Collection, error) {
	if name == "" {
		return nil, docbridge.Errorf(docbridge.EINVALID, "collection name required")
	}
	return s.backend.GetOrCreateCollection(ctx, name, docbridge.CollectionMetadata{
		CreatedAt: s.now().UTC(),
		Purpose:   docbridge.CollectionPurpose,
	})
}

// Upsert writes records in batches of at most MaxBatchSize. Each batch is
// applied atomically by the server; a failing batch stops the upsert.
func (s *Store) Upsert(ctx context.Context, collection string, records []*docbridge.Record) error {
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	for start := 0; start < len(records); start += MaxBatchSize {
		batch := &Batch{Records: records[start:min(start+MaxBatchSize, len(records))]}

		if s.embedder != nil {
			texts := make([]string, len(batch.Records))
			for i, r := range batch.Records {
				texts[i] = r.Content
			}
			vectors, err := s.embedder.Embed(ctx, texts)
			if err != nil {
				return docbridge.WrapError(docbridge.EUNAVAILABLE, err, "embed records")
			}
			batch.Embeddings = vectors
		}

		if err := s.backend.Upsert(ctx, collection, batch); err != nil {
			return err
		}
	}
	return nil
}

// Query returns the records most similar to q.Text.
func (s *Store) Query(ctx context.Context, collection string, q docbridge.Query) ([]*docbridge.Record, error) {
	req := QueryRequest{
		Text:       q.Text,
		SourceName: q.Filter.SourceName,
		NResults:   q.Limit,
	}
	if req.NResults <= 0 {
		req.NResults = DefaultQueryLimit
	}

	if s.embedder != nil {
		vector, err := s.embedder.EmbedQuery(ctx, q.Text)
		if err != nil {
			return nil, docbridge.WrapError(docbridge.EUNAVAILABLE, err, "embed query")
		}
		req.Embedding = vector
	}

	return s.backend.Query(ctx, collection, req)
}

// FetchAll reads the collection in pages using limit/offset.
func (s *Store) FetchAll(ctx context.Context, collection string, fn func(*docbridge.Record) error) error {
	for offset := 0; ; offset += s.pageSize {
		records, err := s.backend.Get(ctx, collection, GetRequest{
			Limit:  s.pageSize,
			Offset: offset,
		})
		if err != nil {
			return err
		}

		for _, r := range records {
			if err := fn(r); err != nil {
				return err
			}
		}
		if len(records) < s.pageSize {
			return nil
		}
	}
}
