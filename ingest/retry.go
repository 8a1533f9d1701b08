package ingest

import (
	"context"
	"time"

	"github.com/fwojciec/docbridge"
)

// RetryFunc is called before each retry with the attempt number about to
// start (2 for the first retry) and the error that caused it.
type RetryFunc func(src *docbridge.Source, attempt int, err error)

// DefaultRetryDelays returns the backoff delays between attempts: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Retryable reports whether err is a transient failure: the extraction
// service or the store was unreachable. Missing files, bad input and
// unsupported formats fail the same way every time.
func Retryable(err error) bool {
	switch docbridge.ErrorCode(err) {
	case docbridge.EEXTRACTION, docbridge.EUNAVAILABLE:
		return true
	}
	return false
}

// retry calls fn until it succeeds, fails with a non-retryable error, the
// delays run out, or ctx is done. It returns fn's last error.
func retry(ctx context.Context, delays []time.Duration, fn func() error, onRetry func(attempt int, err error)) error {
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || !Retryable(err) || attempt >= len(delays) {
			return err
		}

		if onRetry != nil {
			onRetry(attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return err
		case <-time.After(delays[attempt]):
		}
	}
}
