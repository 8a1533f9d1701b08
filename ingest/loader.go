package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/docbridge"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of sources loaded at once.
const DefaultConcurrency = 4

// Loader runs the pipeline over a catalog of sources with bounded
// concurrency. A failing source never stops the others.
type Loader struct {
	Pipeline *Pipeline

	// Reports persists the run report. Optional.
	Reports docbridge.ReportWriter

	Concurrency int

	// RetryDelays are the waits between attempts of a source that failed
	// with a retryable error. Nil uses DefaultRetryDelays; an empty slice
	// disables retries.
	RetryDelays []time.Duration

	OnState StateFunc
	OnRetry RetryFunc
}

// Run ensures the collection exists, loads every source and persists the
// report. Results are in catalog order regardless of completion order.
//
// An error is returned only when the collection cannot be ensured, in which
// case no source is attempted, or when the report cannot be persisted, in
// which case the report is returned alongside the error.
func (l *Loader) Run(ctx context.Context, sources []*docbridge.Source) (*docbridge.RunReport, error) {
	if _, err := l.Pipeline.Store.EnsureCollection(ctx, l.Pipeline.collection()); err != nil {
		return nil, fmt.Errorf("ensure collection %s: %w", l.Pipeline.collection(), err)
	}

	concurrency := l.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]*docbridge.LoadResult, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, src := range sources {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = l.load(gctx, src)
			return nil
		})
	}
	_ = g.Wait()

	now := l.Pipeline.now()
	for i, r := range results {
		if r != nil {
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		results[i] = &docbridge.LoadResult{
			Source:     sources[i].Name,
			Origin:     sources[i].Origin,
			Collection: l.Pipeline.collection(),
			Timestamp:  now,
			Error:      err.Error(),
			Err:        err,
		}
	}

	report := docbridge.NewRunReport(results, now)
	if l.Reports == nil {
		return report, nil
	}

	path, err := l.Reports.WriteReport(context.WithoutCancel(ctx), report)
	if err != nil {
		return report, fmt.Errorf("write run report: %w", err)
	}
	report.Path = path
	return report, nil
}

func (l *Loader) load(ctx context.Context, src *docbridge.Source) *docbridge.LoadResult {
	if err := ctx.Err(); err != nil {
		return nil
	}

	delays := l.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	var result *docbridge.LoadResult
	_ = retry(ctx, delays, func() error {
		result = l.Pipeline.Ingest(ctx, src, l.OnState)
		return result.Err
	}, func(attempt int, err error) {
		if l.OnRetry != nil {
			l.OnRetry(src, attempt, err)
		}
	})
	return result
}
