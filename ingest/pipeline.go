// Package ingest orchestrates loading documentation sources into a store:
// the per-source pipeline, the bulk loader, the verifier and the index
// builder.
package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/docbridge"
)

// State is a stage of ingesting one source.
type State string

// Pipeline states in the order they are entered. A run ends in exactly one
// of StateSucceeded or StateFailed.
const (
	StatePending     State = "PENDING"
	StateAdapting    State = "ADAPTING"
	StateNormalizing State = "NORMALIZING"
	StateStoring     State = "STORING"
	StateSucceeded   State = "SUCCEEDED"
	StateFailed      State = "FAILED"
)

// StateFunc is called on every state transition. It may be called from
// several goroutines at once when the Loader runs sources concurrently.
type StateFunc func(src *docbridge.Source, state State)

// Pipeline ingests a single source: extract, normalize, upsert.
type Pipeline struct {
	Store docbridge.Store

	// Adapters selects the adapter by the source's kind.
	Adapters map[docbridge.SourceKind]docbridge.SourceAdapter

	// Collection defaults to docbridge.DefaultCollection.
	Collection string

	// TokenCounter, if set, sizes the loaded content.
	TokenCounter docbridge.TokenCounter

	// Now defaults to time.Now.
	Now func() time.Time
}

func (p *Pipeline) collection() string {
	if p.Collection == "" {
		return docbridge.DefaultCollection
	}
	return p.Collection
}

func (p *Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// Ingest loads src and reports the outcome. Failures are recorded in the
// result rather than returned; the store is only written once per call.
func (p *Pipeline) Ingest(ctx context.Context, src *docbridge.Source, onState StateFunc) *docbridge.LoadResult {
	enter := func(s State) {
		if onState != nil {
			onState(src, s)
		}
	}
	enter(StatePending)

	result := &docbridge.LoadResult{
		Source:     src.Name,
		Origin:     src.Origin,
		Collection: p.collection(),
	}
	fail := func(err error) *docbridge.LoadResult {
		result.Timestamp = p.now()
		result.Error = describe(err)
		result.Err = err
		enter(StateFailed)
		return result
	}

	if err := src.Validate(); err != nil {
		return fail(err)
	}

	adapter, ok := p.Adapters[src.Kind()]
	if !ok {
		return fail(docbridge.Errorf(docbridge.EUNSUPPORTED, "no adapter for %s source %q", src.Kind(), src.Name))
	}

	enter(StateAdapting)
	units, err := adapter.Extract(ctx, src)
	if err != nil {
		return fail(err)
	}

	enter(StateNormalizing)
	now := p.now()
	records := docbridge.NormalizeAll(units, src, now)
	result.Timestamp = now

	if len(records) > 0 {
		enter(StateStoring)
		if err := p.Store.Upsert(ctx, p.collection(), records); err != nil {
			return fail(err)
		}
	}

	result.DocumentsLoaded = len(records)
	result.Tokens = p.countTokens(ctx, records)
	enter(StateSucceeded)
	return result
}

// countTokens sums token counts, skipping records the counter rejects.
func (p *Pipeline) countTokens(ctx context.Context, records []*docbridge.Record) int {
	if p.TokenCounter == nil {
		return 0
	}
	var total int
	for _, r := range records {
		if n, err := p.TokenCounter.CountTokens(ctx, r.Content); err == nil {
			total += n
		}
	}
	return total
}

// describe renders err for a LoadResult: the application message for
// docbridge errors, the raw text otherwise.
func describe(err error) string {
	var e *docbridge.Error
	if errors.As(err, &e) {
		return docbridge.ErrorMessage(err)
	}
	return err.Error()
}
