package chroma

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/fwojciec/docbridge"
)

var _ Backend = (*Client)(nil)

// Client is the Backend for a live Chroma server.
type Client struct {
	client chromago.Client

	mu          sync.Mutex
	collections map[string]chromago.Collection
}

// NewClient creates a Client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	c, err := chromago.NewHTTPClient(
		chromago.WithBaseURL(baseURL),
		chromago.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, docbridge.WrapError(docbridge.EINVALID, err, "create chroma client for %s", baseURL)
	}
	return &Client{
		client:      c,
		collections: make(map[string]chromago.Collection),
	}, nil
}

// BaseURL returns the server URL for host and port.
func BaseURL(host string, port int) string {
	return fmt.Sprintf("http://%s:%d", host, port)
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return c.client.Close()
}

// GetOrCreateCollection stamps metadata on the collection when it is created.
func (c *Client) GetOrCreateCollection(ctx context.Context, name string, md docbridge.CollectionMetadata) (*docbridge.Collection, error) {
	col, err := c.client.GetOrCreateCollection(ctx, name,
		chromago.WithCollectionMetadataCreate(chromago.NewMetadata(
			chromago.NewStringAttribute("created_at", md.CreatedAt.Format(time.RFC3339)),
			chromago.NewStringAttribute("purpose", md.Purpose),
			chromago.NewStringAttribute("agent", "docbridge"),
		)),
	)
	if err != nil {
		return nil, mapError(err, "get or create collection %q", name)
	}

	c.mu.Lock()
	c.collections[name] = col
	c.mu.Unlock()

	coll := &docbridge.Collection{Name: col.Name()}
	if meta := col.Metadata(); meta != nil {
		coll.Metadata.Purpose, _ = meta.GetString("purpose")
		if v, ok := meta.GetString("created_at"); ok {
			coll.Metadata.CreatedAt, _ = time.Parse(time.RFC3339, v)
		}
	}
	return coll, nil
}

// collection returns the named collection, fetching it on first use.
func (c *Client) collection(ctx context.Context, name string) (chromago.Collection, error) {
	c.mu.Lock()
	col, ok := c.collections[name]
	c.mu.Unlock()
	if ok {
		return col, nil
	}

	col, err := c.client.GetCollection(ctx, name)
	if err != nil {
		return nil, mapError(err, "get collection %q", name)
	}

	c.mu.Lock()
	c.collections[name] = col
	c.mu.Unlock()
	return col, nil
}

func (c *Client) Upsert(ctx context.Context, collection string, batch *Batch) error {
	col, err := c.collection(ctx, collection)
	if err != nil {
		return err
	}

	ids := make([]chromago.DocumentID, len(batch.Records))
	texts := make([]string, len(batch.Records))
	metas := make([]chromago.DocumentMetadata, len(batch.Records))
	for i, r := range batch.Records {
		ids[i] = chromago.DocumentID(r.ID)
		texts[i] = r.Content
		metas[i] = toDocumentMetadata(r.Metadata)
	}

	opts := []chromago.CollectionAddOption{
		chromago.WithIDs(ids...),
		chromago.WithTexts(texts...),
		chromago.WithMetadatas(metas...),
	}
	if batch.Embeddings != nil {
		embs := make([]embeddings.Embedding, len(batch.Embeddings))
		for i, v := range batch.Embeddings {
			embs[i] = embeddings.NewEmbeddingFromFloat32(v)
		}
		opts = append(opts, chromago.WithEmbeddings(embs...))
	}

	if err := col.Upsert(ctx, opts...); err != nil {
		return mapError(err, "upsert %d records into %q", len(batch.Records), collection)
	}
	return nil
}

func (c *Client) Get(ctx context.Context, collection string, req GetRequest) ([]*docbridge.Record, error) {
	col, err := c.collection(ctx, collection)
	if err != nil {
		return nil, err
	}

	opts := []chromago.CollectionGetOption{
		chromago.WithIncludeGet(chromago.IncludeDocuments, chromago.IncludeMetadatas),
	}
	if req.Limit > 0 {
		opts = append(opts, chromago.WithLimitGet(req.Limit))
	}
	if req.Offset > 0 {
		opts = append(opts, chromago.WithOffsetGet(req.Offset))
	}
	if req.SourceName != nil {
		opts = append(opts, chromago.WithWhereGet(chromago.EqString("source_name", *req.SourceName)))
	}

	res, err := col.Get(ctx, opts...)
	if err != nil {
		return nil, mapError(err, "get records from %q", collection)
	}
	return toRecords(res.GetIDs(), res.GetDocuments(), res.GetMetadatas()), nil
}

func (c *Client) Query(ctx context.Context, collection string, req QueryRequest) ([]*docbridge.Record, error) {
	col, err := c.collection(ctx, collection)
	if err != nil {
		return nil, err
	}

	opts := []chromago.CollectionQueryOption{
		chromago.WithNResults(req.NResults),
		chromago.WithIncludeQuery(chromago.IncludeDocuments, chromago.IncludeMetadatas),
	}
	if req.Embedding != nil {
		opts = append(opts, chromago.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(req.Embedding)))
	} else {
		opts = append(opts, chromago.WithQueryTexts(req.Text))
	}
	if req.SourceName != nil {
		opts = append(opts, chromago.WithWhereQuery(chromago.EqString("source_name", *req.SourceName)))
	}

	res, err := col.Query(ctx, opts...)
	if err != nil {
		return nil, mapError(err, "query %q", collection)
	}

	ids := res.GetIDGroups()
	if len(ids) == 0 {
		return nil, nil
	}
	var docs chromago.Documents
	if groups := res.GetDocumentsGroups(); len(groups) > 0 {
		docs = groups[0]
	}
	var metas chromago.DocumentMetadatas
	if groups := res.GetMetadatasGroups(); len(groups) > 0 {
		metas = groups[0]
	}
	return toRecords(ids[0], docs, metas), nil
}

// mapError classifies a client error. Chroma reports a missing collection
// as "does not exist" (404); everything else means the server could not
// serve the request.
func mapError(err error, format string, args ...any) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "does not exist") || strings.Contains(msg, "not found") || strings.Contains(msg, "404") {
		return docbridge.WrapError(docbridge.ENOTFOUND, err, format, args...)
	}
	return docbridge.WrapError(docbridge.EUNAVAILABLE, err, format, args...)
}

func toRecords(ids chromago.DocumentIDs, docs chromago.Documents, metas chromago.DocumentMetadatas) []*docbridge.Record {
	records := make([]*docbridge.Record, 0, len(ids))
	for i, id := range ids {
		rec := &docbridge.Record{ID: string(id)}
		if i < len(docs) && docs[i] != nil {
			rec.Content = docs[i].ContentString()
		}
		if i < len(metas) && metas[i] != nil {
			rec.Metadata = fromDocumentMetadata(metas[i])
		}
		records = append(records, rec)
	}
	return records
}

func toDocumentMetadata(m docbridge.RecordMetadata) chromago.DocumentMetadata {
	return chromago.NewDocumentMetadata(
		chromago.NewStringAttribute("source_name", m.SourceName),
		chromago.NewStringAttribute("origin", m.Origin),
		chromago.NewStringAttribute("content_type", m.ContentType),
		chromago.NewStringAttribute("section", m.Section),
		chromago.NewBoolAttribute("has_code", m.HasCode),
		chromago.NewIntAttribute("trust_score", int64(m.TrustScore)),
		chromago.NewStringAttribute("content_hash", m.ContentHash),
		chromago.NewStringAttribute("loaded_at", m.LoadedAt.UTC().Format(time.RFC3339Nano)),
	)
}

func fromDocumentMetadata(md chromago.DocumentMetadata) docbridge.RecordMetadata {
	var m docbridge.RecordMetadata
	m.SourceName, _ = md.GetString("source_name")
	m.Origin, _ = md.GetString("origin")
	m.ContentType, _ = md.GetString("content_type")
	m.Section, _ = md.GetString("section")
	m.HasCode, _ = md.GetBool("has_code")
	m.ContentHash, _ = md.GetString("content_hash")
	if v, ok := md.GetInt("trust_score"); ok {
		m.TrustScore = int(v)
	}
	if v, ok := md.GetString("loaded_at"); ok {
		m.LoadedAt, _ = time.Parse(time.RFC3339Nano, v)
	}
	return m
}
