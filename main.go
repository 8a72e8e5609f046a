package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/ipwhere/ipwhere/api"
	"github.com/ipwhere/ipwhere/ipwherelib"
	"github.com/ipwhere/ipwhere/providers"
)

const version = "0.1.0"

const serverShutdownTimeout = 5 * time.Second

var (
	app = kingpin.New(
		"ipwhere",
		"Resolve and geolocate your public IP address.")

	debug = app.Flag("debug", "Run in debug mode.").
		Short('d').
		Envar("IPWHERE_DEBUG").
		Bool()
	configFile = app.Flag("config", "Path to the config.").
			Short('c').
			Envar("IPWHERE_CONFIG").
			String()

	cmdLookup = app.Command("lookup",
		"Resolve a public IP address and print it.").Default()
	lookupProviders = cmdLookup.Flag("provider",
		"Provider to try, in fallback order. Either 'name' or 'name key'. Can be given multiple times.").
		Short('p').
		Strings()
	lookupTarget = cmdLookup.Flag("target",
		"Look up the given IP address instead of your own.").
		Short('t').
		IP()
	lookupRetries = cmdLookup.Flag("retries",
		"Additional passes over the provider list after the first one fails.").
		Short('r').
		Default("0").
		Int()
	lookupNoCache = cmdLookup.Flag("no-cache",
		"Skip the response cache and always do a live lookup.").
		Bool()
	lookupJSON = cmdLookup.Flag("json",
		"Print the response as JSON.").
		Bool()

	cmdServe    = app.Command("serve", "Run an HTTP API.")
	serveListen = cmdServe.Flag("listen", "host:port to listen on.").
			Envar("IPWHERE_LISTEN").
			String()
)

func init() {
	app.Version(version)
	app.HelpFlag.Short('h')
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func main() {
	parsed := kingpin.MustParse(app.Parse(os.Args[1:]))

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	conf, err := parseConfig(*configFile)
	if err != nil {
		crash("cannot parse config", err)
	}

	switch parsed {
	case cmdLookup.FullCommand():
		mainLookup(conf)
	case cmdServe.FullCommand():
		mainServe(conf)
	}
}

func mainLookup(conf *config) {
	kinds, err := makeKinds(*lookupProviders, conf)
	if err != nil {
		crash("cannot build a provider list", err)
	}

	resolver := ipwherelib.NewResolver(providers.New,
		makeService(conf),
		makeCache(conf),
		newLogger())

	opts := ipwherelib.Options{
		Target:   *lookupTarget,
		Retries:  *lookupRetries,
		UseCache: !*lookupNoCache,
		CacheTTL: conf.GetCacheTTL(),
	}

	ctx, cancel := makeRootContext()
	defer cancel()

	response, err := resolver.Lookup(ctx, kinds, opts)
	if err != nil {
		crash("cannot resolve the address", err)
	}

	if *lookupJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		if err := encoder.Encode(response); err != nil {
			crash("cannot encode the response", err)
		}

		return
	}

	fmt.Println(response)
}

func mainServe(conf *config) {
	kinds, err := makeKinds(nil, conf)
	if err != nil {
		crash("cannot build a provider list", err)
	}

	service := makeService(conf)

	service, err = ipwherelib.NewCachingService(service,
		int64(conf.GetServiceCacheLen()),
		conf.GetServiceCacheTTL())
	if err != nil {
		crash("cannot initialize a caching service", err)
	}

	resolver := ipwherelib.NewResolver(providers.New,
		service,
		makeCache(conf),
		newLogger())

	server, err := api.NewServer(resolver, kinds,
		conf.GetRetries(),
		conf.GetWorkerPoolSize())
	if err != nil {
		crash("cannot initialize a server", err)
	}

	defer server.Shutdown()

	var handler http.Handler = server

	if user := conf.GetAuthUser(); user != "" {
		handler = &basicAuthMiddleware{
			handler:  server,
			user:     []byte(user),
			password: []byte(conf.GetAuthPassword()),
		}
	}

	listen := conf.GetListen()
	if *serveListen != "" {
		listen = *serveListen
	}

	srv := &http.Server{
		Addr:    listen,
		Handler: handler,
	}

	ctx, cancel := makeRootContext()
	defer cancel()

	go func() {
		<-ctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(
			context.Background(), serverShutdownTimeout)
		defer shutdownCancel()

		srv.Shutdown(shutdownCtx) // nolint: errcheck
	}()

	rootLog.Info().Str("listen", listen).Msg("Start a server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		crash("server has failed", err)
	}
}

func crash(message string, err error) {
	rootLog.Fatal().Err(err).Msg(message)
}
