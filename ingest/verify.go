package ingest

import (
	"context"

	"github.com/fwojciec/docbridge"
)

// VerifyLimit caps the records fetched per source when verifying.
const VerifyLimit = 5

// Verifier checks that each source has queryable records.
type Verifier struct {
	Store      docbridge.Store
	Collection string
}

func (v *Verifier) collection() string {
	if v.Collection == "" {
		return docbridge.DefaultCollection
	}
	return v.Collection
}

// Verify checks every source in order. Store errors are recorded per
// source, never returned.
func (v *Verifier) Verify(ctx context.Context, sources []*docbridge.Source) []*docbridge.Verification {
	out := make([]*docbridge.Verification, 0, len(sources))
	for _, src := range sources {
		out = append(out, v.VerifySource(ctx, src))
	}
	return out
}

// VerifySource queries up to VerifyLimit records of src.
func (v *Verifier) VerifySource(ctx context.Context, src *docbridge.Source) *docbridge.Verification {
	name := src.Name
	records, err := v.Store.Query(ctx, v.collection(), docbridge.Query{
		Text:   name + " documentation",
		Filter: docbridge.RecordFilter{SourceName: &name},
		Limit:  VerifyLimit,
	})
	if err != nil {
		return &docbridge.Verification{
			Source: name,
			Error:  describe(err),
		}
	}
	return &docbridge.Verification{
		Source:        name,
		Available:     len(records) > 0,
		DocumentCount: len(records),
		Collection:    v.collection(),
	}
}
