package ipwherelib

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Options control a single lookup run.
type Options struct {
	// Target is the address to look up. Nil means "the address this
	// machine appears from".
	Target net.IP

	// Retries is the number of additional attempts allowed beyond one
	// pass over the provider list. The attempt ceiling is
	// len(providers) + Retries; when the ceiling allows more attempts
	// than the list holds, the walk wraps back to the start of the
	// list. Negative values mean no extra retries.
	Retries int

	// UseCache allows a fresh cached response to be served without
	// any network traffic, and stores a successful live lookup back.
	UseCache bool

	// CacheTTL is the freshness window for cached responses. Zero
	// means DefaultCacheTTL.
	CacheTTL time.Duration

	// RequireTarget makes providers which cannot resolve third-party
	// addresses count as failed attempts. Without it such providers
	// silently resolve the caller's own address instead, and the
	// result does not tell which of the two happened.
	RequireTarget bool
}

func (o Options) cacheTTL() time.Duration {
	if o.CacheTTL > 0 {
		return o.CacheTTL
	}

	return DefaultCacheTTL
}

func (o Options) attemptCeiling(providerCount int) int {
	retries := o.Retries
	if retries < 0 {
		retries = 0
	}

	return providerCount + retries
}

// Resolver drives provider iteration. Providers are visited strictly
// in the caller-supplied order, one at a time; the only shortcut is a
// fresh cache hit which bypasses the iteration entirely. No reordering
// by past success rate or latency ever happens, so identical inputs
// with identical upstream availability visit providers identically.
type Resolver struct {
	factory Factory
	service Service
	cache   *Cache
	logger  Logger
}

// Lookup resolves the caller's public address with the given ordered
// provider kinds. The first successful provider wins; later providers
// are never asked, even if they would return richer data.
func (r *Resolver) Lookup(ctx context.Context, kinds []Kind, opts Options) (LookupResponse, error) {
	if len(kinds) == 0 {
		return LookupResponse{}, ErrNoProviders
	}

	providersToUse, err := r.buildProviders(kinds)
	if err != nil {
		return LookupResponse{}, err
	}

	if opts.UseCache && r.cache != nil {
		entry, err := r.cache.Read()

		switch {
		case err != nil:
			r.logger.CacheError(err)
		case entry.IsFresh(time.Now(), opts.cacheTTL()):
			return entry.Response, nil
		}
	}

	maxAttempts := opts.attemptCeiling(len(providersToUse))
	unsupportedOnly := opts.RequireTarget && opts.Target != nil

	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		provider := providersToUse[attempt%len(providersToUse)]

		response, err := r.lookupOne(ctx, provider, opts)
		if err != nil {
			r.logger.LookupError(provider.Kind(), err)

			lastErr = err
			unsupportedOnly = unsupportedOnly && errors.Is(err, ErrUnsupportedTargetLookup)

			continue
		}

		if opts.UseCache && r.cache != nil {
			entry := CacheEntry{
				Response:    response,
				RetrievedAt: time.Now(),
			}

			if err := r.cache.Write(entry); err != nil {
				r.logger.CacheError(err)
			}
		}

		return response, nil
	}

	if unsupportedOnly {
		return LookupResponse{}, lastErr
	}

	return LookupResponse{}, &ExhaustedError{
		Attempts: maxAttempts,
		Last:     lastErr,
	}
}

// LookupTarget resolves a third-party address instead of the caller's
// own one. Providers which do not support target lookups degrade to a
// self-lookup unless opts.RequireTarget is set.
func (r *Resolver) LookupTarget(ctx context.Context, kinds []Kind, target net.IP, opts Options) (LookupResponse, error) {
	opts.Target = target

	return r.Lookup(ctx, kinds, opts)
}

func (r *Resolver) buildProviders(kinds []Kind) ([]Provider, error) {
	rv := make([]Provider, 0, len(kinds))

	for _, kind := range kinds {
		provider, err := r.factory(kind)
		if err != nil {
			return nil, err
		}

		rv = append(rv, provider)
	}

	return rv, nil
}

func (r *Resolver) lookupOne(ctx context.Context, provider Provider, opts Options) (LookupResponse, error) {
	if opts.Target != nil && opts.RequireTarget && !provider.SupportsTargetLookup() {
		return LookupResponse{}, fmt.Errorf("%w: %s", ErrUnsupportedTargetLookup, provider.Kind())
	}

	return r.service.Invoke(ctx, provider, opts.Target)
}

// NewResolver wires the lookup pipeline together. A nil service gets a
// default HTTP one, a nil logger discards everything, and a nil cache
// disables caching regardless of Options.UseCache.
func NewResolver(factory Factory, service Service, cache *Cache, logger Logger) *Resolver {
	if service == nil {
		client := NewHTTPClient(&http.Client{Timeout: DefaultHTTPTimeout},
			DefaultUserAgent,
			DefaultRateLimitInterval,
			DefaultRateLimitBurst)
		service = NewService(client)
	}

	if logger == nil {
		logger = NewNoopLogger()
	}

	return &Resolver{
		factory: factory,
		service: service,
		cache:   cache,
		logger:  logger,
	}
}
