// Package server provides the read-only HTTP API over the gap-detection
// engine. It resolves assets, runs scans on demand, and never caches results
// across requests; a scan reflects the data at the moment it was asked for.
package server

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/migratum/gapscan/internal/server/middleware"
	"github.com/migratum/gapscan/pkg/errors"
	"github.com/migratum/gapscan/pkg/fieldcatalog"
	"github.com/migratum/gapscan/pkg/inventory"
	"github.com/migratum/gapscan/pkg/logging"
)

// Config holds the server's tunables.
type Config struct {
	// Workers bounds the per-field pool of each scan.
	Workers int

	// QueryRate caps batch-scan context queries per second. Zero disables.
	QueryRate float64
}

// Backend is the storage surface the server needs: resolve an asset handle,
// then load its scan context.
type Backend interface {
	inventory.AssetResolver
	inventory.ContextLoader
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	backend   Backend
	catalog   *fieldcatalog.Catalog
	logger    *zerolog.Logger
	config    Config
	startTime time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a server instance over a storage backend and a field catalog.
func New(backend Backend, catalog *fieldcatalog.Catalog, cfg Config, opts ...Option) (*Server, error) {
	if backend == nil {
		return nil, errors.NewValidationError("backend", nil, "storage backend must not be nil")
	}
	if catalog == nil {
		return nil, errors.NewValidationError("catalog", nil, "field catalog must not be nil")
	}
	s := &Server{
		backend:   backend,
		catalog:   catalog,
		logger:    logging.Default(),
		config:    cfg,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler returns the configured http.Handler with the middleware chain
// applied.
func (s *Server) Handler() http.Handler {
	return middleware.Chain(
		middleware.Recovery(s.logger),
		middleware.RequestID(),
		middleware.Logger(s.logger),
	)(s.router())
}

// StartTime returns the server start time for uptime reporting.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
