package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lakedeck/lakedeck/form"
	"github.com/lakedeck/lakedeck/store"
	"github.com/lakedeck/lakedeck/utils/logger"
)

// App serves the connection-configuration HTTP API. The store is optional;
// without one the stateless endpoints (derive, validate, frequencies) still
// work and the connection endpoints report service unavailable.
type App struct {
	store     store.Store
	validator *form.Validator
}

func NewApp(connectionStore store.Store) (*App, error) {
	validator, err := form.NewValidator()
	if err != nil {
		return nil, err
	}

	return &App{
		store:     connectionStore,
		validator: validator,
	}, nil
}

func (a *App) NewMux() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", healthHandler)
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/connections", a.listConnectionsHandler)
	mux.HandleFunc("GET /v1/connections/{id}", a.getConnectionHandler)
	mux.HandleFunc("PUT /v1/connections/{id}", a.putConnectionHandler)
	mux.HandleFunc("DELETE /v1/connections/{id}", a.deleteConnectionHandler)

	mux.HandleFunc("POST /v1/catalog/derive", a.deriveCatalogHandler)
	mux.HandleFunc("POST /v1/connections/validate", a.validateHandler)
	mux.HandleFunc("GET /v1/frequencies", a.frequenciesHandler)

	return withRequestLog(mux)
}

// Run blocks serving the API until the context ends or SIGINT/SIGTERM
// arrives, then shuts down gracefully.
func (a *App) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           a.NewMux(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.ListenAndServe()
	}()

	logger.Infof("Serving connection API on %s", addr)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down connection API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

// withRequestLog logs each request and observes its latency.
func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		elapsed := time.Since(start)
		httpRequestLatencySeconds.WithLabelValues(r.Method, routeLabel(r)).Observe(elapsed.Seconds())
		logger.Debugf("%s %s served in %s", r.Method, r.URL.Path, elapsed)
	})
}

// routeLabel keeps the latency metric's cardinality bounded: the matched
// mux pattern stands in for the raw path, so every connection ID lands in
// one series. Unmatched requests share a single bucket.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return "unmatched"
	}
	// method-qualified patterns already carry the verb label
	if _, route, found := strings.Cut(r.Pattern, " "); found {
		return route
	}

	return r.Pattern
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
