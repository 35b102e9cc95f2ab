// Package scan orchestrates gap detection for inventory assets: it loads
// the tenant-scoped context exactly once per asset, runs every extractor
// for every catalog field, and aggregates the evidence into an ordered
// IntelligentGap list. The scanner is a pure computation over immutable
// snapshots; it performs no writes and holds no state across scans.
package scan

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/migratum/gapscan/pkg/errors"
	"github.com/migratum/gapscan/pkg/extract"
	"github.com/migratum/gapscan/pkg/fieldcatalog"
	"github.com/migratum/gapscan/pkg/gaps"
	"github.com/migratum/gapscan/pkg/inventory"
	"github.com/migratum/gapscan/pkg/logging"
)

// queriesPerAsset is the fixed number of context reads one asset scan
// issues, independent of catalog size.
const queriesPerAsset = 3

// Default concurrency bounds.
const (
	defaultWorkers    = 8
	defaultBatchLimit = 4
)

// Scanner detects gaps for assets within one tenant scope.
type Scanner struct {
	loader     inventory.ContextLoader
	scope      inventory.TenantScope
	extractors []extract.Extractor
	logger     *zerolog.Logger
	workers    int
	batchLimit int
	limiter    *rate.Limiter
}

// Option configures a Scanner.
type Option func(*Scanner) error

// WithLogger sets the scanner's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Scanner) error {
		if logger == nil {
			return errors.NewValidationError("logger", nil, "must not be nil")
		}
		s.logger = logger
		return nil
	}
}

// WithWorkers bounds the per-field worker pool within one asset scan.
func WithWorkers(n int) Option {
	return func(s *Scanner) error {
		if n < 1 {
			return errors.NewValidationError("workers", n, "must be at least 1")
		}
		s.workers = n
		return nil
	}
}

// WithBatchLimit bounds how many assets a batch scan evaluates at once.
func WithBatchLimit(n int) Option {
	return func(s *Scanner) error {
		if n < 1 {
			return errors.NewValidationError("batch_limit", n, "must be at least 1")
		}
		s.batchLimit = n
		return nil
	}
}

// WithQueryRate caps context-load queries per second across a batch scan so
// 3 × N lookups cannot overwhelm the storage layer. Zero disables the cap.
func WithQueryRate(perSecond float64) Option {
	return func(s *Scanner) error {
		if perSecond < 0 {
			return errors.NewValidationError("query_rate", perSecond, "must not be negative")
		}
		if perSecond == 0 {
			s.limiter = nil
			return nil
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), queriesPerAsset)
		return nil
	}
}

// New creates a Scanner bound to a context loader and a tenant scope.
func New(loader inventory.ContextLoader, scope inventory.TenantScope, opts ...Option) (*Scanner, error) {
	if loader == nil {
		return nil, errors.NewValidationError("loader", nil, "context loader must not be nil")
	}
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	s := &Scanner{
		loader:     loader,
		scope:      scope,
		extractors: extract.Registry(),
		logger:     logging.Default(),
		workers:    defaultWorkers,
		batchLimit: defaultBatchLimit,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Scope returns the tenant scope the scanner is bound to.
func (s *Scanner) Scope() inventory.TenantScope {
	return s.scope
}

// Scan detects gaps for one asset against a field catalog. It loads the
// three external contexts exactly once, evaluates every catalog field
// against the shared snapshot, and returns one IntelligentGap per field in
// catalog order, subject to the scan options' filters.
//
// A nil or unresolvable asset handle is a caller bug and fails immediately,
// before any lookup.
func (s *Scanner) Scan(ctx context.Context, asset inventory.Asset, catalog *fieldcatalog.Catalog, opts ...ScanOption) ([]gaps.IntelligentGap, error) {
	if asset == nil {
		return nil, errors.NewContractError("Scan", "asset handle is nil")
	}
	if asset.ID() == uuid.Nil {
		return nil, errors.NewContractError("Scan", "asset handle does not resolve to an identifier")
	}
	if catalog == nil {
		return nil, errors.NewContractError("Scan", "field catalog is nil")
	}

	options := newScanOptions(opts...)
	fields := catalog.FilterByPriority(options.priorities...)
	if len(fields) == 0 {
		return []gaps.IntelligentGap{}, nil
	}

	start := time.Now()

	sctx, err := LoadContext(ctx, s.loader, s.scope, asset.ID())
	if err != nil {
		return nil, err
	}

	results := make([]gaps.IntelligentGap, len(fields))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, field := range fields {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			gap, err := s.evaluateField(asset, sctx, field)
			if err != nil {
				return err
			}
			results[i] = gap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	filtered := results
	if options.trueGapsOnly {
		filtered = make([]gaps.IntelligentGap, 0, len(results))
		for _, gap := range results {
			if gap.IsTrueGap {
				filtered = append(filtered, gap)
			}
		}
	}

	trueGaps := 0
	for _, gap := range filtered {
		if gap.IsTrueGap {
			trueGaps++
		}
	}
	s.logger.Debug().
		Str("asset_id", asset.ID().String()).
		Int("fields", len(fields)).
		Int("gaps", len(filtered)).
		Int("true_gaps", trueGaps).
		Dur("duration", time.Since(start)).
		Msg("Asset scan complete")

	return filtered, nil
}

// evaluateField runs all eight extractors for one field and aggregates.
// Extractors are not short-circuited on the first hit.
func (s *Scanner) evaluateField(asset inventory.Asset, sctx *inventory.Context, field fieldcatalog.Field) (gaps.IntelligentGap, error) {
	var found []gaps.DataSource
	for _, ex := range s.extractors {
		ds, err := ex.Extract(asset, sctx, field)
		if err != nil {
			return gaps.IntelligentGap{}, err
		}
		if ds != nil {
			found = append(found, *ds)
		}
	}
	return Aggregate(field, found)
}

// ScanAssets scans many assets with bounded parallelism. Asset scans are
// independent of each other; the batch limit and the optional query-rate
// cap protect the storage layer from the 3 × N context loads. The first
// failure cancels the remaining scans.
func (s *Scanner) ScanAssets(ctx context.Context, assets []inventory.Asset, catalog *fieldcatalog.Catalog, opts ...ScanOption) (map[uuid.UUID][]gaps.IntelligentGap, error) {
	for _, asset := range assets {
		if asset == nil {
			return nil, errors.NewContractError("ScanAssets", "asset handle is nil")
		}
	}

	results := make([]([]gaps.IntelligentGap), len(assets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchLimit)
	for i, asset := range assets {
		g.Go(func() error {
			if s.limiter != nil {
				if err := s.limiter.WaitN(gctx, queriesPerAsset); err != nil {
					return err
				}
			}
			list, err := s.Scan(gctx, asset, catalog, opts...)
			if err != nil {
				return err
			}
			results[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID][]gaps.IntelligentGap, len(assets))
	for i, asset := range assets {
		out[asset.ID()] = results[i]
	}
	return out, nil
}
