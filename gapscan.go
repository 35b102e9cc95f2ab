// Package gapscan detects intelligent gaps in migration-assessment
// inventories. For every field a questionnaire needs answered, it decides
// whether the value is truly missing or merely parked in a secondary data
// source, so discovery teams only chase information nobody has.
//
// The top-level Client binds a storage backend, a tenant scope, and a field
// catalog:
//
//	client, err := gapscan.New(
//		gapscan.WithBackend(store),
//		gapscan.WithScope(tenantID, projectID),
//	)
//	results, err := client.ScanAsset(ctx, assetID)
//
// The underlying packages are usable directly: pkg/scan for the engine,
// pkg/extract for the evidence sources, pkg/fieldcatalog for catalog files,
// and pkg/prefill for questionnaire pre-fill suggestions.
package gapscan

import (
	"context"

	"github.com/google/uuid"

	"github.com/migratum/gapscan/internal/embedded"
	"github.com/migratum/gapscan/pkg/errors"
	"github.com/migratum/gapscan/pkg/fieldcatalog"
	"github.com/migratum/gapscan/pkg/gaps"
	"github.com/migratum/gapscan/pkg/inventory"
	"github.com/migratum/gapscan/pkg/prefill"
	"github.com/migratum/gapscan/pkg/scan"
)

// Backend is the storage surface a Client needs: resolve asset handles and
// load scan context, all tenant-scoped.
type Backend interface {
	inventory.AssetResolver
	inventory.ContextLoader
}

// Client runs gap scans for one tenant scope.
type Client struct {
	backend Backend
	scanner *scan.Scanner
	catalog *fieldcatalog.Catalog
	config  *config
}

// New creates a Client with the given options. A backend and a tenant scope
// are required; the catalog defaults to the embedded one.
func New(opts ...Option) (*Client, error) {
	cfg := newConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.backend == nil {
		return nil, errors.NewValidationError("backend", nil, "a storage backend is required")
	}

	catalog := cfg.catalog
	if catalog == nil {
		var err error
		catalog, err = embedded.DefaultCatalog()
		if err != nil {
			return nil, err
		}
	}

	scanner, err := scan.New(cfg.backend, cfg.scope, cfg.scanOptions()...)
	if err != nil {
		return nil, err
	}

	return &Client{
		backend: cfg.backend,
		scanner: scanner,
		catalog: catalog,
		config:  cfg,
	}, nil
}

// Catalog returns the active field catalog.
func (c *Client) Catalog() *fieldcatalog.Catalog {
	return c.catalog
}

// Scope returns the tenant scope the client is bound to.
func (c *Client) Scope() inventory.TenantScope {
	return c.scanner.Scope()
}

// ScanAsset resolves an asset by id and scans it.
func (c *Client) ScanAsset(ctx context.Context, assetID uuid.UUID, opts ...scan.ScanOption) ([]gaps.IntelligentGap, error) {
	asset, err := c.backend.Asset(ctx, c.Scope(), assetID)
	if err != nil {
		return nil, err
	}
	return c.scanner.Scan(ctx, asset, c.catalog, opts...)
}

// Scan scans an already-resolved asset handle.
func (c *Client) Scan(ctx context.Context, asset inventory.Asset, opts ...scan.ScanOption) ([]gaps.IntelligentGap, error) {
	return c.scanner.Scan(ctx, asset, c.catalog, opts...)
}

// ScanAssets resolves and scans many assets with bounded parallelism.
func (c *Client) ScanAssets(ctx context.Context, assetIDs []uuid.UUID, opts ...scan.ScanOption) (map[uuid.UUID][]gaps.IntelligentGap, error) {
	assets := make([]inventory.Asset, 0, len(assetIDs))
	for _, id := range assetIDs {
		asset, err := c.backend.Asset(ctx, c.Scope(), id)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return c.scanner.ScanAssets(ctx, assets, c.catalog, opts...)
}

// Suggestions scans an asset and converts the findings into questionnaire
// pre-fill suggestions.
func (c *Client) Suggestions(ctx context.Context, assetID uuid.UUID, opts ...prefill.Option) ([]prefill.Suggestion, error) {
	results, err := c.ScanAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return prefill.Suggestions(results, opts...), nil
}
