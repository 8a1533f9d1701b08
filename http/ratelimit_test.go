package http_test

import (
	"context"
	"sync"
	"testing"
	"time"

	dbhttp "github.com/fwojciec/docbridge/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter(t *testing.T) {
	t.Parallel()

	t.Run("first request is immediate", func(t *testing.T) {
		t.Parallel()

		limiter := dbhttp.NewDomainLimiter(10)

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "react.dev"))
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("spaces requests to the same host", func(t *testing.T) {
		t.Parallel()

		limiter := dbhttp.NewDomainLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "react.dev"))

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "REACT.dev"))
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("hosts are limited independently", func(t *testing.T) {
		t.Parallel()

		limiter := dbhttp.NewDomainLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "react.dev"))

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "vuejs.org"))
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("non-positive rate disables limiting", func(t *testing.T) {
		t.Parallel()

		limiter := dbhttp.NewDomainLimiter(0)

		start := time.Now()
		for range 5 {
			require.NoError(t, limiter.Wait(context.Background(), "react.dev"))
		}
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("returns error when context expires", func(t *testing.T) {
		t.Parallel()

		limiter := dbhttp.NewDomainLimiter(1)
		require.NoError(t, limiter.Wait(context.Background(), "react.dev"))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, limiter.Wait(ctx, "react.dev"))
	})

	t.Run("is safe for concurrent use", func(t *testing.T) {
		t.Parallel()

		limiter := dbhttp.NewDomainLimiter(100)

		var wg sync.WaitGroup
		errs := make([]error, 5)
		for i := range errs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = limiter.Wait(context.Background(), "react.dev")
			}()
		}
		wg.Wait()

		for _, err := range errs {
			assert.NoError(t, err)
		}
	})
}
