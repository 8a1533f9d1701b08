package ingest_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/docbridge"
	"github.com/fwojciec/docbridge/ingest"
	"github.com/fwojciec/docbridge/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okStore() *mock.Store {
	return &mock.Store{
		EnsureCollectionFn: func(_ context.Context, name string) (*docbridge.Collection, error) {
			return &docbridge.Collection{Name: name}, nil
		},
		UpsertFn: func(context.Context, string, []*docbridge.Record) error { return nil },
	}
}

func noRetry() []time.Duration { return []time.Duration{} }

func TestLoader_Run(t *testing.T) {
	t.Parallel()

	t.Run("isolates a failing source and keeps catalog order", func(t *testing.T) {
		t.Parallel()

		sources := []*docbridge.Source{
			remoteSource("a"), remoteSource("b"), remoteSource("c"), remoteSource("d"), remoteSource("e"),
		}
		adapter := &mock.SourceAdapter{
			ExtractFn: func(_ context.Context, src *docbridge.Source) ([]*docbridge.RawUnit, error) {
				if src.Name == "c" {
					return nil, docbridge.Errorf(docbridge.EINVALID, "bad source")
				}
				return []*docbridge.RawUnit{{Content: src.Name + "1"}, {Content: src.Name + "2"}}, nil
			},
		}
		var written *docbridge.RunReport
		l := &ingest.Loader{
			Pipeline: &ingest.Pipeline{
				Store:    okStore(),
				Adapters: map[docbridge.SourceKind]docbridge.SourceAdapter{docbridge.SourceRemote: adapter},
				Now:      fixedClock,
			},
			Reports: &mock.ReportWriter{
				WriteReportFn: func(_ context.Context, r *docbridge.RunReport) (string, error) {
					written = r
					return "data/loading_results_20260506_070809.json", nil
				},
			},
			Concurrency: 3,
			RetryDelays: noRetry(),
		}

		report, err := l.Run(context.Background(), sources)

		require.NoError(t, err)
		require.Len(t, report.Results, 5)
		for i, r := range report.Results {
			assert.Equal(t, sources[i].Name, r.Source)
		}
		assert.True(t, report.Results[2].Failed())
		assert.Equal(t, 5, report.SourcesAttempted)
		assert.Equal(t, 4, report.Successful)
		assert.Equal(t, 1, report.Failed)
		assert.Equal(t, 8, report.TotalDocuments)
		assert.Equal(t, fixedNow, report.Timestamp)
		assert.Same(t, report, written)
		assert.Equal(t, "data/loading_results_20260506_070809.json", report.Path)
	})

	t.Run("fails before any source when collection cannot be ensured", func(t *testing.T) {
		t.Parallel()

		var extracted atomic.Int32
		l := &ingest.Loader{
			Pipeline: &ingest.Pipeline{
				Store: &mock.Store{
					EnsureCollectionFn: func(context.Context, string) (*docbridge.Collection, error) {
						return nil, docbridge.Errorf(docbridge.EUNAVAILABLE, "connection refused")
					},
				},
				Adapters: map[docbridge.SourceKind]docbridge.SourceAdapter{
					docbridge.SourceRemote: &mock.SourceAdapter{
						ExtractFn: func(context.Context, *docbridge.Source) ([]*docbridge.RawUnit, error) {
							extracted.Add(1)
							return nil, nil
						},
					},
				},
			},
		}

		report, err := l.Run(context.Background(), []*docbridge.Source{remoteSource("a")})

		assert.Nil(t, report)
		assert.Equal(t, docbridge.EUNAVAILABLE, docbridge.ErrorCode(err))
		assert.Zero(t, extracted.Load())
	})

	t.Run("retries transient failures", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		var retries []int
		l := &ingest.Loader{
			Pipeline: &ingest.Pipeline{
				Store: okStore(),
				Adapters: map[docbridge.SourceKind]docbridge.SourceAdapter{
					docbridge.SourceRemote: &mock.SourceAdapter{
						ExtractFn: func(context.Context, *docbridge.Source) ([]*docbridge.RawUnit, error) {
							if calls.Add(1) < 3 {
								return nil, docbridge.Errorf(docbridge.EEXTRACTION, "HTTP 503")
							}
							return []*docbridge.RawUnit{{Content: "x"}}, nil
						},
					},
				},
			},
			RetryDelays: []time.Duration{0, 0, 0},
			OnRetry: func(_ *docbridge.Source, attempt int, _ error) {
				retries = append(retries, attempt)
			},
		}

		report, err := l.Run(context.Background(), []*docbridge.Source{remoteSource("a")})

		require.NoError(t, err)
		assert.Equal(t, 1, report.Successful)
		assert.Equal(t, int32(3), calls.Load())
		assert.Equal(t, []int{2, 3}, retries)
	})

	t.Run("gives up after the last delay", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		l := &ingest.Loader{
			Pipeline: &ingest.Pipeline{
				Store: okStore(),
				Adapters: map[docbridge.SourceKind]docbridge.SourceAdapter{
					docbridge.SourceRemote: &mock.SourceAdapter{
						ExtractFn: func(context.Context, *docbridge.Source) ([]*docbridge.RawUnit, error) {
							calls.Add(1)
							return nil, docbridge.Errorf(docbridge.EEXTRACTION, "HTTP 503")
						},
					},
				},
			},
			RetryDelays: []time.Duration{0, 0},
		}

		report, err := l.Run(context.Background(), []*docbridge.Source{remoteSource("a")})

		require.NoError(t, err)
		assert.Equal(t, 1, report.Failed)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("does not retry permanent failures", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		l := &ingest.Loader{
			Pipeline: &ingest.Pipeline{
				Store: okStore(),
				Adapters: map[docbridge.SourceKind]docbridge.SourceAdapter{
					docbridge.SourceLocal: &mock.SourceAdapter{
						ExtractFn: func(context.Context, *docbridge.Source) ([]*docbridge.RawUnit, error) {
							calls.Add(1)
							return nil, docbridge.Errorf(docbridge.ESOURCENOTFOUND, "source file not found")
						},
					},
				},
			},
			RetryDelays: []time.Duration{0, 0, 0},
		}

		report, err := l.Run(context.Background(), []*docbridge.Source{{Name: "Guide", Origin: "guide.md"}})

		require.NoError(t, err)
		assert.Equal(t, 1, report.Failed)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("returns report with error when persistence fails", func(t *testing.T) {
		t.Parallel()

		l := &ingest.Loader{
			Pipeline: &ingest.Pipeline{
				Store:    okStore(),
				Adapters: map[docbridge.SourceKind]docbridge.SourceAdapter{docbridge.SourceRemote: unitsAdapter("x")},
			},
			Reports: &mock.ReportWriter{
				WriteReportFn: func(context.Context, *docbridge.RunReport) (string, error) {
					return "", errors.New("disk full")
				},
			},
		}

		report, err := l.Run(context.Background(), []*docbridge.Source{remoteSource("a")})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		require.NotNil(t, report)
		assert.Equal(t, 1, report.Successful)
		assert.Empty(t, report.Path)
	})

	t.Run("reports unstarted sources as failed after cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sources := []*docbridge.Source{remoteSource("a"), remoteSource("b"), remoteSource("c")}
		l := &ingest.Loader{
			Pipeline: &ingest.Pipeline{
				Store: okStore(),
				Adapters: map[docbridge.SourceKind]docbridge.SourceAdapter{
					docbridge.SourceRemote: &mock.SourceAdapter{
						ExtractFn: func(_ context.Context, src *docbridge.Source) ([]*docbridge.RawUnit, error) {
							if src.Name == "a" {
								cancel()
							}
							return []*docbridge.RawUnit{{Content: "x"}}, nil
						},
					},
				},
			},
			Concurrency: 1,
			RetryDelays: noRetry(),
		}

		report, err := l.Run(ctx, sources)

		require.NoError(t, err)
		require.Len(t, report.Results, 3)
		assert.False(t, report.Results[0].Failed())
		for _, r := range report.Results[1:] {
			assert.True(t, r.Failed())
			assert.ErrorIs(t, r.Err, context.Canceled)
		}
	})

	t.Run("bounds concurrency", func(t *testing.T) {
		t.Parallel()

		var inFlight, peak atomic.Int32
		adapter := &mock.SourceAdapter{
			ExtractFn: func(context.Context, *docbridge.Source) ([]*docbridge.RawUnit, error) {
				n := inFlight.Add(1)
				defer inFlight.Add(-1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				return nil, nil
			},
		}
		sources := make([]*docbridge.Source, 8)
		for i := range sources {
			sources[i] = remoteSource(string(rune('a' + i)))
		}
		l := &ingest.Loader{
			Pipeline: &ingest.Pipeline{
				Store:    okStore(),
				Adapters: map[docbridge.SourceKind]docbridge.SourceAdapter{docbridge.SourceRemote: adapter},
			},
			Concurrency: 2,
		}

		report, err := l.Run(context.Background(), sources)

		require.NoError(t, err)
		assert.Equal(t, 8, report.Successful)
		assert.LessOrEqual(t, peak.Load(), int32(2))
	})
}

func TestRetryable(t *testing.T) {
	t.Parallel()

	assert.True(t, ingest.Retryable(docbridge.Errorf(docbridge.EEXTRACTION, "x")))
	assert.True(t, ingest.Retryable(docbridge.Errorf(docbridge.EUNAVAILABLE, "x")))
	assert.False(t, ingest.Retryable(docbridge.Errorf(docbridge.ESOURCENOTFOUND, "x")))
	assert.False(t, ingest.Retryable(docbridge.Errorf(docbridge.EINVALID, "x")))
	assert.False(t, ingest.Retryable(context.Canceled))
	assert.False(t, ingest.Retryable(nil))
}
