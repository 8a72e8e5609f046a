package providers

import (
	"net"
	"strings"

	"github.com/ipwhere/ipwhere/ipwherelib"
)

// Identifier for the mock provider.
const NameMock = "mock"

// MockEndpoint is the URL prefix mock lookups are issued against. The
// host does not resolve; tests are expected to intercept it.
const MockEndpoint = "https://ipwhere.mock/"

type mockProvider struct {
	ip string
}

func (m mockProvider) Kind() ipwherelib.Kind {
	return ipwherelib.Kind{Name: NameMock, Key: m.ip}
}

func (m mockProvider) Endpoint(net.IP) string {
	return MockEndpoint + m.ip
}

func (m mockProvider) SupportsTargetLookup() bool {
	return false
}

// Parse expects the body to be a bare IP address in text form.
func (m mockProvider) Parse(body []byte) (ipwherelib.LookupResponse, error) {
	return ipwherelib.NewLookupResponse(strings.TrimSpace(string(body)), m.Kind()), nil
}

// NewMock builds a provider which pretends the public address is the
// given one. It exists for tests and for wiring experiments; it never
// reaches any real service.
func NewMock(ip string) ipwherelib.Provider {
	return mockProvider{
		ip: ip,
	}
}
