// Package postgres implements the inventory read contracts against the
// assessment platform's PostgreSQL schema. Every query is tenant-scoped in
// the WHERE clause; there is no session-level tenant state to leak between
// requests. Zero rows is a normal outcome for all three context reads.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/migratum/gapscan/pkg/errors"
	"github.com/migratum/gapscan/pkg/inventory"
	"github.com/migratum/gapscan/pkg/logging"
)

const defaultQueryTimeout = 10 * time.Second

// Store reads assets and their scan context from PostgreSQL.
type Store struct {
	db           *sql.DB
	logger       *zerolog.Logger
	queryTimeout time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithQueryTimeout bounds each individual query.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.queryTimeout = d
		}
	}
}

// New wraps an existing database handle.
func New(db *sql.DB, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, errors.NewValidationError("db", nil, "database handle must not be nil")
	}
	s := &Store{
		db:           db,
		logger:       logging.Default(),
		queryTimeout: defaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	if dsn == "" {
		return nil, errors.NewConfigError("database", "dsn must not be empty", nil)
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", describeErr(err))
	}
	return New(db, opts...)
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// describeErr surfaces the server-side error code when the driver provides
// one, which makes "relation does not exist" vs "connection refused"
// distinguishable in logs.
func describeErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%s (%s): %s", pqErr.Code.Name(), pqErr.Code, pqErr.Message)
	}
	return err
}

const assetQuery = `
SELECT id, name, attributes, custom_attributes, COALESCE(environment, '')
FROM assets
WHERE tenant_id = $1 AND project_id = $2 AND id = $3`

// Asset resolves one asset by id within a tenant scope.
func (s *Store) Asset(ctx context.Context, scope inventory.TenantScope, assetID uuid.UUID) (inventory.Asset, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var (
		rec       inventory.AssetRecord
		attrsRaw  []byte
		customRaw []byte
	)
	row := s.db.QueryRowContext(ctx, assetQuery, scope.TenantID, scope.ProjectID, assetID)
	if err := row.Scan(&rec.AssetID, &rec.AssetName, &attrsRaw, &customRaw, &rec.Env); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("asset", assetID.String())
		}
		return nil, fmt.Errorf("scanning asset row: %w", describeErr(err))
	}
	if err := decodeJSONMap(attrsRaw, &rec.Attributes); err != nil {
		return nil, fmt.Errorf("decoding asset attributes: %w", err)
	}
	if err := decodeJSONMap(customRaw, &rec.Custom); err != nil {
		return nil, fmt.Errorf("decoding custom attributes: %w", err)
	}
	return &rec, nil
}

const linkedApplicationsQuery = `
SELECT a.id, a.display_name, COALESCE(a.category, ''),
       COALESCE(a.technology_stack, ''), COALESCE(a.business_criticality, '')
FROM canonical_applications a
JOIN asset_applications l ON l.application_id = a.id
WHERE l.tenant_id = $1 AND l.project_id = $2 AND l.asset_id = $3
ORDER BY l.position ASC, a.display_name ASC`

// LinkedApplications returns the canonical applications linked to an asset.
// The link table's position column gives the deterministic ordering the
// derivation rules depend on.
func (s *Store) LinkedApplications(ctx context.Context, scope inventory.TenantScope, assetID uuid.UUID) ([]inventory.LinkedApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, linkedApplicationsQuery, scope.TenantID, scope.ProjectID, assetID)
	if err != nil {
		return nil, fmt.Errorf("querying linked applications: %w", describeErr(err))
	}
	defer rows.Close()

	var apps []inventory.LinkedApplication
	for rows.Next() {
		var app inventory.LinkedApplication
		if err := rows.Scan(&app.ID, &app.DisplayName, &app.Category, &app.TechnologyStack, &app.BusinessCriticality); err != nil {
			return nil, fmt.Errorf("scanning application row: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating application rows: %w", describeErr(err))
	}
	return apps, nil
}

const relatedAssetsQuery = `
SELECT a.id, a.name, COALESCE(a.environment, ''), e.direction
FROM (
    SELECT target_asset_id AS other_id, 'downstream' AS direction
    FROM asset_dependencies
    WHERE tenant_id = $1 AND project_id = $2 AND source_asset_id = $3
    UNION ALL
    SELECT source_asset_id AS other_id, 'upstream' AS direction
    FROM asset_dependencies
    WHERE tenant_id = $1 AND project_id = $2 AND target_asset_id = $3
) e
JOIN assets a ON a.id = e.other_id
    AND a.tenant_id = $1 AND a.project_id = $2
ORDER BY a.name ASC, e.direction ASC`

// RelatedAssets returns the assets reachable from the subject via recorded
// dependency edges, either direction. Neighbors outside the tenant scope are
// excluded even when an edge row references them.
func (s *Store) RelatedAssets(ctx context.Context, scope inventory.TenantScope, assetID uuid.UUID) ([]inventory.RelatedAsset, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, relatedAssetsQuery, scope.TenantID, scope.ProjectID, assetID)
	if err != nil {
		return nil, fmt.Errorf("querying related assets: %w", describeErr(err))
	}
	defer rows.Close()

	var related []inventory.RelatedAsset
	for rows.Next() {
		var r inventory.RelatedAsset
		if err := rows.Scan(&r.ID, &r.Name, &r.Environment, &r.Direction); err != nil {
			return nil, fmt.Errorf("scanning related asset row: %w", err)
		}
		related = append(related, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating related asset rows: %w", describeErr(err))
	}
	return related, nil
}

const enrichmentsQuery = `
SELECT category, attributes
FROM asset_enrichments
WHERE tenant_id = $1 AND project_id = $2 AND asset_id = $3
  AND category = ANY($4)`

// Enrichments returns at most one record per enrichment category. Rows
// whose category is not a recognized constant are skipped with a warning
// rather than failing the scan.
func (s *Store) Enrichments(ctx context.Context, scope inventory.TenantScope, assetID uuid.UUID) (map[inventory.Category]*inventory.EnrichmentRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	categories := make([]string, 0, len(inventory.Categories()))
	for _, c := range inventory.Categories() {
		categories = append(categories, c.String())
	}

	rows, err := s.db.QueryContext(ctx, enrichmentsQuery, scope.TenantID, scope.ProjectID, assetID, pq.Array(categories))
	if err != nil {
		return nil, fmt.Errorf("querying enrichments: %w", describeErr(err))
	}
	defer rows.Close()

	out := make(map[inventory.Category]*inventory.EnrichmentRecord)
	for rows.Next() {
		var (
			category string
			attrsRaw []byte
		)
		if err := rows.Scan(&category, &attrsRaw); err != nil {
			return nil, fmt.Errorf("scanning enrichment row: %w", err)
		}
		cat := inventory.Category(category)
		if !cat.IsValid() {
			s.logger.Warn().
				Str("asset_id", assetID.String()).
				Str("category", category).
				Msg("Skipping enrichment row with unknown category")
			continue
		}
		rec := &inventory.EnrichmentRecord{Category: cat}
		if err := decodeJSONMap(attrsRaw, &rec.Attributes); err != nil {
			return nil, fmt.Errorf("decoding %s enrichment attributes: %w", category, err)
		}
		out[cat] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating enrichment rows: %w", describeErr(err))
	}
	return out, nil
}

// decodeJSONMap unmarshals a JSONB column into a map, treating NULL and
// empty payloads as an absent map.
func decodeJSONMap(raw []byte, dst *map[string]any) error {
	if len(raw) == 0 {
		*dst = nil
		return nil
	}
	return json.Unmarshal(raw, dst)
}
