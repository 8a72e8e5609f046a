package ipwherelib

import (
	"context"
	"net"
	"net/http"
)

// Provider is a single third-party geolocation service integration. It
// is a pure data mapping: an endpoint URL on one side, a canonical
// record parsed out of the reply body on the other. Providers do no
// I/O themselves; a Service drives them.
type Provider interface {
	Kind() Kind

	// Endpoint builds the URL to request. A nil target means "resolve
	// the address this request originates from".
	Endpoint(target net.IP) string

	// Parse converts a reply body into the canonical record.
	Parse(body []byte) (LookupResponse, error)

	// SupportsTargetLookup tells whether the upstream service can
	// resolve an arbitrary third-party address. Providers which
	// cannot simply ignore the target and resolve the caller.
	SupportsTargetLookup() bool
}

// Factory builds the concrete provider for a kind.
type Factory func(kind Kind) (Provider, error)

// Service executes exactly one provider round trip.
type Service interface {
	Invoke(ctx context.Context, provider Provider, target net.IP) (LookupResponse, error)
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Logger interface {
	LookupError(kind Kind, err error)
	CacheError(err error)
}

type noopLogger struct{}

func (noopLogger) LookupError(Kind, error) {}

func (noopLogger) CacheError(error) {}

// NewNoopLogger returns a logger which discards everything.
func NewNoopLogger() Logger {
	return noopLogger{}
}
