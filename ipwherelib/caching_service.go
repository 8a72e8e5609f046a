package ipwherelib

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/dgraph-io/ristretto"
)

type cachingService struct {
	Service

	cache *ristretto.Cache
	ttl   time.Duration
}

func (c cachingService) Invoke(ctx context.Context, provider Provider, target net.IP) (LookupResponse, error) {
	cacheKey := provider.Kind().String() + "|" + target.String()

	value, ok := c.cache.Get(cacheKey)
	if ok {
		return value.(LookupResponse), nil
	}

	result, err := c.Service.Invoke(ctx, provider, target)
	if err != nil {
		return LookupResponse{}, err
	}

	c.cache.SetWithTTL(cacheKey, result, 1, c.ttl)
	c.cache.Wait()

	return result, nil
}

// NewCachingService decorates a service with a short-lived in-memory
// memoization of successful replies, keyed by provider kind and target
// address. Failures are never memoized. This is a courtesy towards
// upstream services when many lookups arrive in a burst; the durable
// single-entry Cache is a separate concern.
func NewCachingService(service Service, maxEntries int64, ttl time.Duration) (Service, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxEntries,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot build a cache: %w", err)
	}

	return cachingService{
		Service: service,
		cache:   cache,
		ttl:     ttl,
	}, nil
}
