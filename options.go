package gapscan

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/migratum/gapscan/pkg/fieldcatalog"
	"github.com/migratum/gapscan/pkg/inventory"
	"github.com/migratum/gapscan/pkg/scan"
)

// config holds client construction state accumulated from options.
type config struct {
	backend    Backend
	scope      inventory.TenantScope
	catalog    *fieldcatalog.Catalog
	logger     *zerolog.Logger
	workers    int
	batchLimit int
	queryRate  float64
}

func newConfig() *config {
	return &config{}
}

// scanOptions translates the accumulated config into scanner options.
func (c *config) scanOptions() []scan.Option {
	var opts []scan.Option
	if c.logger != nil {
		opts = append(opts, scan.WithLogger(c.logger))
	}
	if c.workers > 0 {
		opts = append(opts, scan.WithWorkers(c.workers))
	}
	if c.batchLimit > 0 {
		opts = append(opts, scan.WithBatchLimit(c.batchLimit))
	}
	if c.queryRate > 0 {
		opts = append(opts, scan.WithQueryRate(c.queryRate))
	}
	return opts
}

// Option configures a Client.
type Option func(*config) error

// WithBackend sets the storage backend assets and context are read from.
func WithBackend(b Backend) Option {
	return func(c *config) error {
		c.backend = b
		return nil
	}
}

// WithScope binds the client to a tenant scope.
func WithScope(tenantID, projectID uuid.UUID) Option {
	return func(c *config) error {
		c.scope = inventory.TenantScope{TenantID: tenantID, ProjectID: projectID}
		return nil
	}
}

// WithCatalog replaces the embedded default field catalog.
func WithCatalog(catalog *fieldcatalog.Catalog) Option {
	return func(c *config) error {
		c.catalog = catalog
		return nil
	}
}

// WithCatalogFile loads the field catalog from a YAML file.
func WithCatalogFile(path string) Option {
	return func(c *config) error {
		catalog, err := fieldcatalog.LoadFile(path)
		if err != nil {
			return err
		}
		c.catalog = catalog
		return nil
	}
}

// WithLogger sets the client's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithWorkers bounds the per-field worker pool of each scan.
func WithWorkers(n int) Option {
	return func(c *config) error {
		c.workers = n
		return nil
	}
}

// WithBatchLimit bounds how many assets a batch scan evaluates at once.
func WithBatchLimit(n int) Option {
	return func(c *config) error {
		c.batchLimit = n
		return nil
	}
}

// WithQueryRate caps context-load queries per second across batch scans.
func WithQueryRate(perSecond float64) Option {
	return func(c *config) error {
		c.queryRate = perSecond
		return nil
	}
}
