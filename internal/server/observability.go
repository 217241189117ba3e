// Diagnostic HTTP server for metrics, profiling and read-only tree views
package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nainya/proptree/internal/logger"
	"github.com/nainya/proptree/internal/metrics"
	"github.com/nainya/proptree/pkg/version"
)

// ObservabilityServer serves the version history of one tree over HTTP
type ObservabilityServer struct {
	server  *http.Server
	store   *version.Store
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewObservabilityServer creates a new HTTP server for observability
func NewObservabilityServer(addr string, store *version.Store, m *metrics.Metrics, log *logger.Logger) *ObservabilityServer {
	o := &ObservabilityServer{
		store:   store,
		metrics: m,
		log:     log,
	}

	o.server = &http.Server{
		Addr:         addr,
		Handler:      o.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return o
}

// Handler exposes the router, mainly for tests
func (o *ObservabilityServer) Handler() http.Handler {
	return o.server.Handler
}

func (o *ObservabilityServer) routes() http.Handler {
	router := mux.NewRouter()
	router.Use(o.instrument)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.HandlerFor(o.metrics.Gatherer(), promhttp.HandlerOpts{}))

	// Health and readiness
	router.HandleFunc("/health", o.health).Methods("GET")
	router.HandleFunc("/ready", o.ready).Methods("GET")

	// Read-only tree views
	router.HandleFunc("/tree", o.getTree).Methods("GET")
	router.HandleFunc("/tree/{path:.+}", o.getProperty).Methods("GET")
	router.HandleFunc("/versions", o.listVersions).Methods("GET")
	router.HandleFunc("/versions/{id}", o.getVersion).Methods("GET")
	router.HandleFunc("/versions/{from}/diff/{to}", o.diffVersions).Methods("GET")

	// pprof endpoints for profiling
	debug := router.PathPrefix("/debug/pprof").Subrouter()
	debug.HandleFunc("/cmdline", pprof.Cmdline)
	debug.HandleFunc("/profile", pprof.Profile)
	debug.HandleFunc("/symbol", pprof.Symbol)
	debug.HandleFunc("/trace", pprof.Trace)
	debug.PathPrefix("/").HandlerFunc(pprof.Index)

	return router
}

// Start starts the HTTP server and blocks until it stops
func (o *ObservabilityServer) Start() error {
	o.log.LogServerStart(o.server.Addr, o.store.Len())

	o.log.Info("Endpoints:").
		Str("metrics", fmt.Sprintf("http://%s/metrics", o.server.Addr)).
		Str("tree", fmt.Sprintf("http://%s/tree", o.server.Addr)).
		Str("pprof", fmt.Sprintf("http://%s/debug/pprof/", o.server.Addr)).
		Send()

	if err := o.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("observability server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the observability server
func (o *ObservabilityServer) Shutdown(ctx context.Context) error {
	o.log.LogServerShutdown()
	return o.server.Shutdown(ctx)
}
