package ipwherelib_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"

	"github.com/ipwhere/ipwhere/ipwherelib"
)

type fakeProvider struct {
	name     string
	supports bool
}

func (f fakeProvider) Kind() ipwherelib.Kind {
	return ipwherelib.Kind{Name: f.name}
}

func (f fakeProvider) Endpoint(target net.IP) string {
	if target == nil {
		return "https://" + f.name + ".example/json"
	}

	return "https://" + f.name + ".example/json/" + target.String()
}

func (f fakeProvider) SupportsTargetLookup() bool {
	return f.supports
}

func (f fakeProvider) Parse(body []byte) (ipwherelib.LookupResponse, error) {
	return ipwherelib.NewLookupResponse(string(body), f.Kind()), nil
}

type scriptedService struct {
	mu     sync.Mutex
	calls  []string
	script map[string]error
	ip     net.IP
}

func (s *scriptedService) Invoke(_ context.Context, provider ipwherelib.Provider, _ net.IP) (ipwherelib.LookupResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := provider.Kind().Name
	s.calls = append(s.calls, name)

	if err := s.script[name]; err != nil {
		return ipwherelib.LookupResponse{}, err
	}

	return ipwherelib.LookupResponse{
		IP:       s.ip,
		Provider: provider.Kind(),
	}, nil
}

type countingLogger struct {
	mu          sync.Mutex
	lookupFails int
	cacheFails  int
}

func (c *countingLogger) LookupError(ipwherelib.Kind, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lookupFails++
}

func (c *countingLogger) CacheError(error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cacheFails++
}

type ResolverTestSuite struct {
	suite.Suite

	fs      afero.Fs
	cache   *ipwherelib.Cache
	service *scriptedService
	logger  *countingLogger
}

func (suite *ResolverTestSuite) SetupTest() {
	suite.fs = afero.NewMemMapFs()
	suite.cache = ipwherelib.NewCache(suite.fs, "/cache/entry.json")
	suite.logger = &countingLogger{}
	suite.service = &scriptedService{
		script: map[string]error{},
		ip:     net.ParseIP("1.2.3.4"),
	}
}

func (suite *ResolverTestSuite) factory(supportsTarget bool) ipwherelib.Factory {
	return func(kind ipwherelib.Kind) (ipwherelib.Provider, error) {
		if kind.Name == "broken" {
			return nil, fmt.Errorf("%w: %s", ipwherelib.ErrUnknownProvider, kind.Name)
		}

		return fakeProvider{name: kind.Name, supports: supportsTarget}, nil
	}
}

func (suite *ResolverTestSuite) resolver() *ipwherelib.Resolver {
	return ipwherelib.NewResolver(suite.factory(true),
		suite.service, suite.cache, suite.logger)
}

func kindsOf(names ...string) []ipwherelib.Kind {
	rv := make([]ipwherelib.Kind, 0, len(names))

	for _, name := range names {
		rv = append(rv, ipwherelib.Kind{Name: name})
	}

	return rv
}

func (suite *ResolverTestSuite) TestEmptyProviderList() {
	_, err := suite.resolver().Lookup(context.Background(), nil, ipwherelib.Options{})

	suite.ErrorIs(err, ipwherelib.ErrNoProviders)
}

func (suite *ResolverTestSuite) TestFactoryFailure() {
	_, err := suite.resolver().Lookup(context.Background(),
		kindsOf("a", "broken"), ipwherelib.Options{})

	suite.ErrorIs(err, ipwherelib.ErrUnknownProvider)
	suite.Empty(suite.service.calls)
}

func (suite *ResolverTestSuite) TestFirstSuccessWins() {
	response, err := suite.resolver().Lookup(context.Background(),
		kindsOf("a", "b", "c"), ipwherelib.Options{})

	suite.NoError(err)
	suite.True(net.ParseIP("1.2.3.4").Equal(response.IP))
	suite.Equal([]string{"a"}, suite.service.calls)
}

func (suite *ResolverTestSuite) TestFallsThroughToNext() {
	suite.service.script["a"] = errors.New("upstream is down")

	response, err := suite.resolver().Lookup(context.Background(),
		kindsOf("a", "b"), ipwherelib.Options{})

	suite.NoError(err)
	suite.Equal("b", response.Provider.Name)
	suite.Equal([]string{"a", "b"}, suite.service.calls)
	suite.Equal(1, suite.logger.lookupFails)
}

func (suite *ResolverTestSuite) TestExhaustionWithoutRetries() {
	suite.service.script["a"] = errors.New("nope")
	suite.service.script["b"] = errors.New("also nope")

	_, err := suite.resolver().Lookup(context.Background(),
		kindsOf("a", "b"), ipwherelib.Options{})

	exhausted := &ipwherelib.ExhaustedError{}

	suite.ErrorAs(err, &exhausted)
	suite.Equal(2, exhausted.Attempts)
	suite.Contains(exhausted.Last.Error(), "also nope")
	suite.Equal([]string{"a", "b"}, suite.service.calls)
}

func (suite *ResolverTestSuite) TestRetriesWrapAround() {
	suite.service.script["a"] = errors.New("nope")
	suite.service.script["b"] = errors.New("also nope")

	_, err := suite.resolver().Lookup(context.Background(),
		kindsOf("a", "b"), ipwherelib.Options{Retries: 3})

	exhausted := &ipwherelib.ExhaustedError{}

	suite.ErrorAs(err, &exhausted)
	suite.Equal(5, exhausted.Attempts)
	suite.Equal([]string{"a", "b", "a", "b", "a"}, suite.service.calls)
}

func (suite *ResolverTestSuite) TestRetrySucceedsMidWalk() {
	suite.service.script["a"] = errors.New("nope")

	response, err := suite.resolver().Lookup(context.Background(),
		kindsOf("a", "b"), ipwherelib.Options{Retries: 2})

	suite.NoError(err)
	suite.Equal("b", response.Provider.Name)
	suite.Equal([]string{"a", "b"}, suite.service.calls)
}

func (suite *ResolverTestSuite) TestNegativeRetriesMeanSinglePass() {
	suite.service.script["a"] = errors.New("nope")

	_, err := suite.resolver().Lookup(context.Background(),
		kindsOf("a"), ipwherelib.Options{Retries: -5})

	exhausted := &ipwherelib.ExhaustedError{}

	suite.ErrorAs(err, &exhausted)
	suite.Equal(1, exhausted.Attempts)
}

func (suite *ResolverTestSuite) TestFreshCacheShortCircuits() {
	entry := ipwherelib.CacheEntry{
		Response: ipwherelib.LookupResponse{
			IP:       net.ParseIP("9.9.9.9"),
			Provider: ipwherelib.Kind{Name: "cached"},
		},
		RetrievedAt: time.Now(),
	}

	suite.NoError(suite.cache.Write(entry))

	response, err := suite.resolver().Lookup(context.Background(),
		kindsOf("a"), ipwherelib.Options{UseCache: true})

	suite.NoError(err)
	suite.True(net.ParseIP("9.9.9.9").Equal(response.IP))
	suite.Empty(suite.service.calls)
}

func (suite *ResolverTestSuite) TestStaleCacheGoesLive() {
	entry := ipwherelib.CacheEntry{
		Response: ipwherelib.LookupResponse{
			IP:       net.ParseIP("9.9.9.9"),
			Provider: ipwherelib.Kind{Name: "cached"},
		},
		RetrievedAt: time.Now().Add(-time.Hour),
	}

	suite.NoError(suite.cache.Write(entry))

	response, err := suite.resolver().Lookup(context.Background(),
		kindsOf("a"), ipwherelib.Options{UseCache: true})

	suite.NoError(err)
	suite.True(net.ParseIP("1.2.3.4").Equal(response.IP))
	suite.Equal([]string{"a"}, suite.service.calls)
}

func (suite *ResolverTestSuite) TestSuccessRefreshesCache() {
	_, err := suite.resolver().Lookup(context.Background(),
		kindsOf("a"), ipwherelib.Options{UseCache: true})

	suite.NoError(err)

	entry, err := suite.cache.Read()

	suite.NoError(err)
	suite.True(net.ParseIP("1.2.3.4").Equal(entry.Response.IP))
}

func (suite *ResolverTestSuite) TestFailureNeverCached() {
	suite.service.script["a"] = errors.New("nope")

	_, err := suite.resolver().Lookup(context.Background(),
		kindsOf("a"), ipwherelib.Options{UseCache: true})

	suite.Error(err)

	_, err = suite.cache.Read()

	suite.Error(err)
}

func (suite *ResolverTestSuite) TestCacheMissIsNotFatal() {
	response, err := suite.resolver().Lookup(context.Background(),
		kindsOf("a"), ipwherelib.Options{UseCache: true})

	suite.NoError(err)
	suite.True(net.ParseIP("1.2.3.4").Equal(response.IP))
	suite.Equal(1, suite.logger.cacheFails)
}

func (suite *ResolverTestSuite) TestCorruptCacheIsNotFatal() {
	suite.NoError(afero.WriteFile(suite.fs, "/cache/entry.json",
		[]byte("{]"), 0644))

	response, err := suite.resolver().Lookup(context.Background(),
		kindsOf("a"), ipwherelib.Options{UseCache: true})

	suite.NoError(err)
	suite.True(net.ParseIP("1.2.3.4").Equal(response.IP))
	suite.Equal(1, suite.logger.cacheFails)
}

func (suite *ResolverTestSuite) TestCacheWriteFailureIsNotFatal() {
	suite.cache = ipwherelib.NewCache(
		afero.NewReadOnlyFs(afero.NewMemMapFs()), "/cache/entry.json")

	response, err := suite.resolver().Lookup(context.Background(),
		kindsOf("a"), ipwherelib.Options{UseCache: true})

	suite.NoError(err)
	suite.True(net.ParseIP("1.2.3.4").Equal(response.IP))
	// one for the failed read, one for the failed write
	suite.Equal(2, suite.logger.cacheFails)
}

func (suite *ResolverTestSuite) TestNoCacheMeansNoTouch() {
	entry := ipwherelib.CacheEntry{
		Response: ipwherelib.LookupResponse{
			IP:       net.ParseIP("9.9.9.9"),
			Provider: ipwherelib.Kind{Name: "cached"},
		},
		RetrievedAt: time.Now(),
	}

	suite.NoError(suite.cache.Write(entry))

	response, err := suite.resolver().Lookup(context.Background(),
		kindsOf("a"), ipwherelib.Options{})

	suite.NoError(err)
	suite.True(net.ParseIP("1.2.3.4").Equal(response.IP))

	stored, err := suite.cache.Read()

	suite.NoError(err)
	suite.True(net.ParseIP("9.9.9.9").Equal(stored.Response.IP))
}

func (suite *ResolverTestSuite) TestTargetLookup() {
	response, err := suite.resolver().LookupTarget(context.Background(),
		kindsOf("a"), net.ParseIP("8.8.8.8"), ipwherelib.Options{})

	suite.NoError(err)
	suite.Equal([]string{"a"}, suite.service.calls)
	suite.Equal("a", response.Provider.Name)
}

func (suite *ResolverTestSuite) TestRequireTargetAllUnsupported() {
	resolver := ipwherelib.NewResolver(suite.factory(false),
		suite.service, suite.cache, suite.logger)

	_, err := resolver.LookupTarget(context.Background(),
		kindsOf("a", "b"), net.ParseIP("8.8.8.8"),
		ipwherelib.Options{RequireTarget: true})

	suite.ErrorIs(err, ipwherelib.ErrUnsupportedTargetLookup)

	exhausted := &ipwherelib.ExhaustedError{}

	suite.False(errors.As(err, &exhausted))
	suite.Empty(suite.service.calls)
}

func (suite *ResolverTestSuite) TestRequireTargetMixedFailures() {
	suite.service.script["b"] = errors.New("nope")

	factory := func(kind ipwherelib.Kind) (ipwherelib.Provider, error) {
		return fakeProvider{name: kind.Name, supports: kind.Name == "b"}, nil
	}

	resolver := ipwherelib.NewResolver(factory,
		suite.service, suite.cache, suite.logger)

	_, err := resolver.LookupTarget(context.Background(),
		kindsOf("a", "b"), net.ParseIP("8.8.8.8"),
		ipwherelib.Options{RequireTarget: true})

	exhausted := &ipwherelib.ExhaustedError{}

	suite.ErrorAs(err, &exhausted)
	suite.Equal([]string{"b"}, suite.service.calls)
}

func (suite *ResolverTestSuite) TestNilCacheIgnoresUseCache() {
	resolver := ipwherelib.NewResolver(suite.factory(true),
		suite.service, nil, suite.logger)

	response, err := resolver.Lookup(context.Background(),
		kindsOf("a"), ipwherelib.Options{UseCache: true})

	suite.NoError(err)
	suite.True(net.ParseIP("1.2.3.4").Equal(response.IP))
	suite.Equal(0, suite.logger.cacheFails)
}

func TestResolver(t *testing.T) {
	suite.Run(t, &ResolverTestSuite{})
}
