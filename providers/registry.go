// Package providers contains the concrete lookup service
// integrations. Each provider lives in its own file and is a pure
// mapping from an endpoint URL to the canonical record; the actual
// HTTP round trip is done by ipwherelib.
package providers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ipwhere/ipwhere/ipwherelib"
)

// The registry is a constant table. Nothing is ever registered at
// runtime.
var registry = map[string]func(key string) ipwherelib.Provider{
	NameAbstractAPI:   func(key string) ipwherelib.Provider { return NewAbstractAPI(key) },
	NameFreeIPAPI:     func(string) ipwherelib.Provider { return NewFreeIPAPI() },
	NameIfconfig:      func(string) ipwherelib.Provider { return NewIfconfig() },
	NameIPAPICo:       func(string) ipwherelib.Provider { return NewIPAPICo() },
	NameIPAPICom:      func(string) ipwherelib.Provider { return NewIPAPICom() },
	NameIPAPIIo:       func(string) ipwherelib.Provider { return NewIPAPIIo() },
	NameIPBase:        func(string) ipwherelib.Provider { return NewIPBase() },
	NameIPData:        func(key string) ipwherelib.Provider { return NewIPData(key) },
	NameIPGeolocation: func(key string) ipwherelib.Provider { return NewIPGeolocation(key) },
	NameIPInfo:        func(string) ipwherelib.Provider { return NewIPInfo() },
	NameIPLeak:        func(string) ipwherelib.Provider { return NewIPLeak() },
	NameIPLocateIo:    func(string) ipwherelib.Provider { return NewIPLocateIo() },
	NameIPWhois:       func(string) ipwherelib.Provider { return NewIPWhois() },
	NameMock:          func(key string) ipwherelib.Provider { return NewMock(key) },
	NameMullvad:       func(string) ipwherelib.Provider { return NewMullvad() },
	NameMyIP:          func(string) ipwherelib.Provider { return NewMyIP() },
}

// keyBearing lists providers for which the optional second token of a
// textual reference is meaningful. For the mock provider the token is
// the address to return.
var keyBearing = map[string]bool{
	NameAbstractAPI:   true,
	NameIPData:        true,
	NameIPGeolocation: true,
	NameMock:          true,
}

// ParseKind parses a textual provider reference like "ipinfo" or
// "ipdata secret-key". The first token is a case-insensitive provider
// name; an optional second token becomes the key for key-bearing
// providers and is ignored for the rest.
func ParseKind(input string) (ipwherelib.Kind, error) {
	chunks := strings.Fields(input)
	if len(chunks) == 0 {
		return ipwherelib.Kind{}, fmt.Errorf("%w: empty provider reference", ipwherelib.ErrUnknownProvider)
	}

	name := strings.ToLower(chunks[0])
	if _, ok := registry[name]; !ok {
		return ipwherelib.Kind{}, fmt.Errorf("%w: %s", ipwherelib.ErrUnknownProvider, name)
	}

	kind := ipwherelib.Kind{Name: name}

	if len(chunks) > 1 && keyBearing[name] {
		kind.Key = chunks[1]
	}

	return kind, nil
}

// New builds the adapter for a kind. Pure and total for every known
// kind, no I/O. Satisfies ipwherelib.Factory.
func New(kind ipwherelib.Kind) (ipwherelib.Provider, error) {
	build, ok := registry[kind.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ipwherelib.ErrUnknownProvider, kind.Name)
	}

	return build(kind.Key), nil
}

// Names returns the known provider names, sorted.
func Names() []string {
	rv := make([]string, 0, len(registry))

	for name := range registry {
		rv = append(rv, name)
	}

	sort.Strings(rv)

	return rv
}
