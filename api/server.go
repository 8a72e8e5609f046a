// Package api exposes the lookup pipeline as a small JSON HTTP
// service: resolve the requesting client, resolve an arbitrary
// address, or resolve a batch of addresses in one request.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/panjf2000/ants/v2"

	"github.com/ipwhere/ipwhere/ipwherelib"
)

const (
	DefaultWorkerPoolSize = 128

	workerPoolExpireTime = time.Minute

	requestTimeout = 60 * time.Second
)

// Server is an http.Handler around a Resolver. Each incoming request
// maps to one resolver run; batch requests fan out across a worker
// pool, one worker per address. Providers within a single lookup are
// still visited sequentially.
type Server struct {
	resolver   *ipwherelib.Resolver
	kinds      []ipwherelib.Kind
	retries    int
	router     *chi.Mux
	workerPool *ants.PoolWithFunc
}

func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(w, req)
}

// Shutdown releases the batch worker pool.
func (s *Server) Shutdown() {
	s.workerPool.Release()
}

func (s *Server) lookupOptions() ipwherelib.Options {
	return ipwherelib.Options{
		Retries:       s.retries,
		RequireTarget: true,
	}
}

func (s *Server) encodeJSON(w http.ResponseWriter, data interface{}) {
	encoder := json.NewEncoder(w)

	w.Header().Set("Content-Type", "application/json")
	encoder.SetEscapeHTML(false)
	encoder.Encode(data) // nolint: errcheck
}

func (s *Server) sendError(w http.ResponseWriter, err error, message string, statusCode int) {
	e := &httpError{
		message:    message,
		statusCode: statusCode,
		err:        err,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode())

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.Encode(e) // nolint: errcheck
}

// NewServer builds the HTTP facade. The given kinds are the default
// provider order; POST requests may narrow it down per request.
func NewServer(resolver *ipwherelib.Resolver,
	kinds []ipwherelib.Kind,
	retries int,
	workerPoolSize int) (*Server, error) {
	rv := &Server{
		resolver: resolver,
		kinds:    kinds,
		retries:  retries,
	}

	poolSize := workerPoolSize
	if poolSize <= 0 {
		poolSize = DefaultWorkerPoolSize
	}

	pool, err := ants.NewPoolWithFunc(poolSize, rv.resolveBatchTask,
		ants.WithExpiryDuration(workerPoolExpireTime))
	if err != nil {
		return nil, err
	}

	rv.workerPool = pool

	router := chi.NewRouter()

	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(requestTimeout))
	router.Use(middleware.Recoverer)
	router.Use(middleware.RealIP)

	router.Get("/", rv.handleSelf)
	router.Get("/providers", rv.handleProviders)
	router.Post("/resolve", rv.handleResolveBatch)
	router.Get("/{ip}", rv.handleResolveOne)

	rv.router = router

	return rv, nil
}
