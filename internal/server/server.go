// Package server exposes the product store as a REST API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/floware/stockview/internal/config"
	"github.com/floware/stockview/internal/product"
)

// Store is the persistence the API needs. *store.Repository implements it.
type Store interface {
	List(ctx context.Context) ([]product.Product, error)
	Get(ctx context.Context, id int) (product.Product, error)
	Create(ctx context.Context, draft product.Draft) (product.Product, error)
	Update(ctx context.Context, id int, draft product.Draft) (product.Product, error)
	Delete(ctx context.Context, id int) error
	SetStock(ctx context.Context, id int, inStock bool) error
}

// Server serves the products API.
type Server struct {
	store   Store
	log     *zap.Logger
	cfg     config.ServerConfig
	metrics *httpMetrics
	handler http.Handler
}

func New(store Store, cfg config.ServerConfig, log *zap.Logger) *Server {
	registry := prometheus.NewRegistry()

	s := &Server{
		store:   store,
		log:     log.Named("server"),
		cfg:     cfg,
		metrics: newHTTPMetrics(registry),
	}
	s.handler = s.routes(registry)

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes(registry *prometheus.Registry) http.Handler {
	r := mux.NewRouter()
	r.Use(requestID, s.accessLog, s.metrics.middleware)

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := r.PathPrefix("/api/products").Subrouter()
	api.HandleFunc("", s.listProducts).Methods(http.MethodGet)
	api.HandleFunc("", s.createProduct).Methods(http.MethodPost)
	api.HandleFunc("/metrics", s.inventoryMetrics).Methods(http.MethodGet)
	api.HandleFunc("/{id:[0-9]+}", s.getProduct).Methods(http.MethodGet)
	api.HandleFunc("/{id:[0-9]+}", s.updateProduct).Methods(http.MethodPut)
	api.HandleFunc("/{id:[0-9]+}", s.deleteProduct).Methods(http.MethodDelete)
	api.HandleFunc("/{id:[0-9]+}/instock", s.markInStock).Methods(http.MethodPut)
	api.HandleFunc("/{id:[0-9]+}/outofstock", s.markOutOfStock).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no route for %s %s", req.Method, req.URL.Path))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path))
	})

	return r
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.GetReadTimeout(),
		WriteTimeout: s.cfg.GetWriteTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.GetShutdownTimeout())
	defer cancel()

	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}
