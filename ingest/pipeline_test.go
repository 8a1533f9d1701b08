package ingest_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/docbridge"
	"github.com/fwojciec/docbridge/fs"
	"github.com/fwojciec/docbridge/ingest"
	"github.com/fwojciec/docbridge/mock"
	"github.com/fwojciec/docbridge/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// stateRecorder collects state transitions per source.
type stateRecorder struct {
	mu     sync.Mutex
	states map[string][]ingest.State
}

func newStateRecorder() *stateRecorder {
	return &stateRecorder{states: make(map[string][]ingest.State)}
}

func (r *stateRecorder) record(src *docbridge.Source, s ingest.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[src.Name] = append(r.states[src.Name], s)
}

func (r *stateRecorder) get(name string) []ingest.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states[name]
}

func remoteSource(name string) *docbridge.Source {
	return &docbridge.Source{Name: name, Origin: "https://" + name + ".dev/docs", Priority: 1}
}

func unitsAdapter(units ...string) *mock.SourceAdapter {
	return &mock.SourceAdapter{
		ExtractFn: func(context.Context, *docbridge.Source) ([]*docbridge.RawUnit, error) {
			out := make([]*docbridge.RawUnit, len(units))
			for i, u := range units {
				out[i] = &docbridge.RawUnit{Content: u, Mode: docbridge.ModeRemote}
			}
			return out, nil
		},
	}
}

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { _ = db.Close() })
	return sqlite.NewStore(db)
}

func countRecords(t *testing.T, store docbridge.Store, collection string) int {
	t.Helper()
	var n int
	require.NoError(t, store.FetchAll(context.Background(), collection, func(*docbridge.Record) error {
		n++
		return nil
	}))
	return n
}

func TestPipeline_Ingest(t *testing.T) {
	t.Parallel()

	t.Run("loads every unit in one upsert", func(t *testing.T) {
		t.Parallel()

		var upserts int
		var stored []*docbridge.Record
		store := &mock.Store{
			UpsertFn: func(_ context.Context, collection string, records []*docbridge.Record) error {
				upserts++
				assert.Equal(t, "docs", collection)
				stored = records
				return nil
			},
		}
		p := &ingest.Pipeline{
			Store:      store,
			Adapters:   map[docbridge.SourceKind]docbridge.SourceAdapter{docbridge.SourceRemote: unitsAdapter("a", "b", "c")},
			Collection: "docs",
			Now:        fixedClock,
		}
		states := newStateRecorder()

		result := p.Ingest(context.Background(), remoteSource("react"), states.record)

		assert.False(t, result.Failed())
		assert.Equal(t, 3, result.DocumentsLoaded)
		assert.Equal(t, "docs", result.Collection)
		assert.Equal(t, "https://react.dev/docs", result.Origin)
		assert.Equal(t, fixedNow, result.Timestamp)
		assert.Equal(t, 1, upserts)
		require.Len(t, stored, 3)
		for _, r := range stored {
			assert.Equal(t, "react", r.Metadata.SourceName)
			assert.Equal(t, docbridge.DefaultRemoteTrustScore, r.Metadata.TrustScore)
		}
		assert.Equal(t, []ingest.State{
			ingest.StatePending,
			ingest.StateAdapting,
			ingest.StateNormalizing,
			ingest.StateStoring,
			ingest.StateSucceeded,
		}, states.get("react"))
	})

	t.Run("adapter failure skips the store", func(t *testing.T) {
		t.Parallel()

		p := &ingest.Pipeline{
			Store: &mock.Store{},
			Adapters: map[docbridge.SourceKind]docbridge.SourceAdapter{
				docbridge.SourceRemote: &mock.SourceAdapter{
					ExtractFn: func(context.Context, *docbridge.Source) ([]*docbridge.RawUnit, error) {
						return nil, docbridge.Errorf(docbridge.EEXTRACTION, "service timed out")
					},
				},
			},
			Now: fixedClock,
		}
		states := newStateRecorder()

		result := p.Ingest(context.Background(), remoteSource("vue"), states.record)

		assert.True(t, result.Failed())
		assert.Equal(t, "service timed out", result.Error)
		assert.Equal(t, docbridge.EEXTRACTION, docbridge.ErrorCode(result.Err))
		assert.Zero(t, result.DocumentsLoaded)
		assert.Equal(t, []ingest.State{ingest.StatePending, ingest.StateAdapting, ingest.StateFailed}, states.get("vue"))
	})

	t.Run("empty extraction succeeds without writing", func(t *testing.T) {
		t.Parallel()

		p := &ingest.Pipeline{
			Store:    &mock.Store{},
			Adapters: map[docbridge.SourceKind]docbridge.SourceAdapter{docbridge.SourceRemote: unitsAdapter()},
		}
		states := newStateRecorder()

		result := p.Ingest(context.Background(), remoteSource("svelte"), states.record)

		assert.False(t, result.Failed())
		assert.Zero(t, result.DocumentsLoaded)
		assert.Equal(t, docbridge.DefaultCollection, result.Collection)
		assert.NotContains(t, states.get("svelte"), ingest.StateStoring)
		assert.Contains(t, states.get("svelte"), ingest.StateSucceeded)
	})

	t.Run("store failure fails the source", func(t *testing.T) {
		t.Parallel()

		p := &ingest.Pipeline{
			Store: &mock.Store{
				UpsertFn: func(context.Context, string, []*docbridge.Record) error {
					return docbridge.Errorf(docbridge.EUNAVAILABLE, "connection refused")
				},
			},
			Adapters: map[docbridge.SourceKind]docbridge.SourceAdapter{docbridge.SourceRemote: unitsAdapter("a")},
		}
		states := newStateRecorder()

		result := p.Ingest(context.Background(), remoteSource("angular"), states.record)

		assert.True(t, result.Failed())
		assert.Equal(t, docbridge.EUNAVAILABLE, docbridge.ErrorCode(result.Err))
		assert.Zero(t, result.DocumentsLoaded)
		got := states.get("angular")
		assert.Equal(t, []ingest.State{ingest.StateStoring, ingest.StateFailed}, got[len(got)-2:])
	})

	t.Run("unregistered kind is unsupported", func(t *testing.T) {
		t.Parallel()

		p := &ingest.Pipeline{Store: &mock.Store{}}

		result := p.Ingest(context.Background(), &docbridge.Source{Name: "Guide", Origin: "./guide.md"}, nil)

		assert.Equal(t, docbridge.EUNSUPPORTED, docbridge.ErrorCode(result.Err))
	})

	t.Run("invalid source fails", func(t *testing.T) {
		t.Parallel()

		p := &ingest.Pipeline{Store: &mock.Store{}}

		result := p.Ingest(context.Background(), &docbridge.Source{Name: "NoOrigin"}, nil)

		assert.Equal(t, docbridge.EINVALID, docbridge.ErrorCode(result.Err))
	})

	t.Run("counts tokens of loaded records", func(t *testing.T) {
		t.Parallel()

		p := &ingest.Pipeline{
			Store: &mock.Store{
				UpsertFn: func(context.Context, string, []*docbridge.Record) error { return nil },
			},
			Adapters: map[docbridge.SourceKind]docbridge.SourceAdapter{docbridge.SourceRemote: unitsAdapter("abcd", "abcdefgh")},
			TokenCounter: &mock.TokenCounter{
				CountTokensFn: func(_ context.Context, text string) (int, error) {
					return len(text) / 4, nil
				},
			},
		}

		result := p.Ingest(context.Background(), remoteSource("solid"), nil)

		assert.Equal(t, 3, result.Tokens)
	})
}

func TestPipeline_MissingLocalFileNeverNormalizes(t *testing.T) {
	t.Parallel()

	p := &ingest.Pipeline{
		Store:    &mock.Store{},
		Adapters: map[docbridge.SourceKind]docbridge.SourceAdapter{docbridge.SourceLocal: fs.NewAdapter()},
	}
	states := newStateRecorder()
	src := &docbridge.Source{Name: "Guide", Origin: filepath.Join(t.TempDir(), "missing.md")}

	result := p.Ingest(context.Background(), src, states.record)

	assert.Equal(t, docbridge.ESOURCENOTFOUND, docbridge.ErrorCode(result.Err))
	assert.NotContains(t, states.get("Guide"), ingest.StateNormalizing)
}

func TestPipeline_ReingestIsIdempotent(t *testing.T) {
	t.Parallel()

	// Given a local file and a SQLite store
	path := filepath.Join(t.TempDir(), "guide.txt")
	require.NoError(t, os.WriteFile(path, make([]byte, 2500), 0644))
	store := openStore(t)
	_, err := store.EnsureCollection(context.Background(), "docs")
	require.NoError(t, err)

	p := &ingest.Pipeline{
		Store:      store,
		Adapters:   map[docbridge.SourceKind]docbridge.SourceAdapter{docbridge.SourceLocal: fs.NewAdapter()},
		Collection: "docs",
	}
	src := &docbridge.Source{Name: "Guide", Origin: path}

	// When the same source is ingested twice
	first := p.Ingest(context.Background(), src, nil)
	require.False(t, first.Failed(), first.Error)
	second := p.Ingest(context.Background(), src, nil)
	require.False(t, second.Failed(), second.Error)

	// Then the store holds one copy of each chunk
	assert.Equal(t, 3, first.DocumentsLoaded)
	assert.Equal(t, 3, countRecords(t, store, "docs"))
}
