package docbridge

import "context"

// DomainLimiter spaces out requests to the same host.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed or ctx is done.
	Wait(ctx context.Context, domain string) error
}
