package http

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/docbridge"
	"golang.org/x/time/rate"
)

// DefaultRequestsPerSecond is the extraction rate allowed per documentation host.
const DefaultRequestsPerSecond = 0.5

var _ docbridge.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter keeps one token bucket per host, so sources on different
// hosts proceed in parallel while sources sharing a host are spaced out.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter returns a limiter allowing rps requests per second to each
// host, without bursting. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until a request to domain is allowed.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	key := strings.ToLower(domain)

	d.mu.Lock()
	l, ok := d.limiters[key]
	if !ok {
		l = rate.NewLimiter(d.limit, 1)
		d.limiters[key] = l
	}
	d.mu.Unlock()

	return l.Wait(ctx)
}
