package ingest

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/fwojciec/docbridge"
)

// Indexer aggregates a collection into a per-source summary.
type Indexer struct {
	Store      docbridge.Store
	Collection string

	// Writer persists built indexes. Optional.
	Writer docbridge.IndexWriter

	Now func() time.Time
}

func (x *Indexer) collection() string {
	if x.Collection == "" {
		return docbridge.DefaultCollection
	}
	return x.Collection
}

type sourceAccumulator struct {
	count        int
	origins      map[string]struct{}
	contentTypes map[string]struct{}
}

// Build streams every record of the collection and groups them by source
// name. Records without a source name are grouped under "unknown".
func (x *Indexer) Build(ctx context.Context) (*docbridge.Index, error) {
	acc := make(map[string]*sourceAccumulator)
	var total int

	err := x.Store.FetchAll(ctx, x.collection(), func(r *docbridge.Record) error {
		name := r.Metadata.SourceName
		if name == "" {
			name = docbridge.UnknownSource
		}
		a, ok := acc[name]
		if !ok {
			a = &sourceAccumulator{
				origins:      make(map[string]struct{}),
				contentTypes: make(map[string]struct{}),
			}
			acc[name] = a
		}
		a.count++
		if r.Metadata.Origin != "" {
			a.origins[r.Metadata.Origin] = struct{}{}
		}
		if r.Metadata.ContentType != "" {
			a.contentTypes[r.Metadata.ContentType] = struct{}{}
		}
		total++
		return nil
	})
	if err != nil {
		return nil, err
	}

	now := time.Now
	if x.Now != nil {
		now = x.Now
	}

	index := &docbridge.Index{
		Collection:     x.collection(),
		TotalSources:   len(acc),
		TotalDocuments: total,
		Sources:        make(map[string]*docbridge.SourceIndex, len(acc)),
		CreatedAt:      now(),
	}
	for name, a := range acc {
		index.Sources[name] = &docbridge.SourceIndex{
			DocumentCount: a.count,
			Origins:       sortedKeys(a.origins),
			ContentTypes:  sortedKeys(a.contentTypes),
		}
	}
	return index, nil
}

// Write persists index with Writer.
func (x *Indexer) Write(ctx context.Context, index *docbridge.Index) (string, error) {
	if x.Writer == nil {
		return "", docbridge.Errorf(docbridge.EINVALID, "index writer required")
	}
	return x.Writer.WriteIndex(ctx, index)
}

func sortedKeys(m map[string]struct{}) []string {
	keys := slices.Sorted(maps.Keys(m))
	if keys == nil {
		return []string{}
	}
	return keys
}
