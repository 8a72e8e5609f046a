package main

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	"github.com/ipwhere/ipwhere/ipwherelib"
	"github.com/ipwhere/ipwhere/providers"
)

func makeRootContext() (context.Context, context.CancelFunc) {
	rootCtx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)

	go func() {
		for range sigChan {
			cancel()
		}
	}()

	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	return rootCtx, cancel
}

func makeKinds(refs []string, conf *config) ([]ipwherelib.Kind, error) {
	if len(refs) == 0 {
		refs = conf.GetProviders()
	}

	rv := make([]ipwherelib.Kind, 0, len(refs))

	for _, v := range refs {
		kind, err := providers.ParseKind(v)
		if err != nil {
			return nil, err
		}

		rv = append(rv, kind)
	}

	return rv, nil
}

func makeHTTPClient(conf *config) ipwherelib.HTTPClient {
	jar, err := cookiejar.New(nil)
	if err != nil {
		panic(err)
	}

	httpClient := &http.Client{
		Timeout: conf.GetHTTPTimeout(),
		Jar:     jar,
	}

	return ipwherelib.NewHTTPClient(httpClient,
		conf.GetUserAgent(),
		conf.GetRateLimitInterval(),
		conf.GetRateLimitBurst())
}

func makeService(conf *config) ipwherelib.Service {
	return ipwherelib.NewService(makeHTTPClient(conf))
}

func makeCache(conf *config) *ipwherelib.Cache {
	return ipwherelib.NewCache(afero.NewOsFs(), conf.GetCachePath())
}
