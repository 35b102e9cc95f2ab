package inventory

import (
	"context"
	"slices"

	"github.com/google/uuid"
)

// Category identifies one of the three enrichment record categories.
type Category string

// The enrichment categories. Each asset has at most one record per category.
const (
	CategoryTechDebt    Category = "tech_debt"
	CategoryPerformance Category = "performance"
	CategoryCost        Category = "cost"
)

// Categories returns all enrichment categories.
func Categories() []Category {
	return []Category{CategoryTechDebt, CategoryPerformance, CategoryCost}
}

// IsValid returns true if the category is one of the defined constants.
func (c Category) IsValid() bool {
	return slices.Contains(Categories(), c)
}

// String returns the string representation of a category.
func (c Category) String() string {
	return string(c)
}

// LinkedApplication is a canonical application record linked to an asset.
type LinkedApplication struct {
	ID                  uuid.UUID `json:"id"`
	DisplayName         string    `json:"display_name"`
	Category            string    `json:"category"`
	TechnologyStack     string    `json:"technology_stack"`
	BusinessCriticality string    `json:"business_criticality"`
}

// RelatedAsset is an asset reachable from the subject asset via a recorded
// dependency edge, upstream or downstream.
type RelatedAsset struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Environment string    `json:"environment"`
	Direction   string    `json:"direction"` // "upstream" or "downstream"
}

// EnrichmentRecord is a secondary, category-specific record holding
// attributes not modeled as first-class asset fields.
type EnrichmentRecord struct {
	Category   Category       `json:"category"`
	Attributes map[string]any `json:"attributes"`
}

// Attribute returns the named attribute on this record, or nil.
func (r *EnrichmentRecord) Attribute(name string) any {
	if r == nil || r.Attributes == nil {
		return nil
	}
	return r.Attributes[name]
}

// Context is the per-scan, per-tenant snapshot of the three multi-row
// external contexts, loaded exactly once per asset and then shared by every
// field evaluation. It is immutable once built and is never cached beyond
// the scan that created it, which is what keeps tenant isolation trivial.
type Context struct {
	Scope        TenantScope
	AssetID      uuid.UUID
	Applications []LinkedApplication
	Related      []RelatedAsset
	Enrichments  map[Category]*EnrichmentRecord
}

// Enrichment returns the record for a category, or nil when the category is
// absent for this asset.
func (c *Context) Enrichment(cat Category) *EnrichmentRecord {
	if c == nil || c.Enrichments == nil {
		return nil
	}
	return c.Enrichments[cat]
}

// ContextLoader issues the three tenant-scoped read queries for one asset.
// Zero rows from any of them is a valid "no corroborating data" outcome,
// not an error. Retry and backoff for the underlying reads belong to the
// implementation, not to the scanner.
type ContextLoader interface {
	// LinkedApplications returns the canonical applications linked to the
	// asset, in a deterministic order (the first entry drives the
	// canonical-application derivation rules).
	LinkedApplications(ctx context.Context, scope TenantScope, assetID uuid.UUID) ([]LinkedApplication, error)

	// RelatedAssets returns the assets connected to the subject asset via
	// recorded dependency edges, upstream or downstream.
	RelatedAssets(ctx context.Context, scope TenantScope, assetID uuid.UUID) ([]RelatedAsset, error)

	// Enrichments returns at most one record per enrichment category.
	Enrichments(ctx context.Context, scope TenantScope, assetID uuid.UUID) (map[Category]*EnrichmentRecord, error)
}

// AssetResolver resolves an asset handle by id within a tenant scope.
// Implemented by storage backends so callers that only hold an identifier
// (the HTTP layer, batch jobs) can obtain the accessor the scanner needs.
type AssetResolver interface {
	Asset(ctx context.Context, scope TenantScope, assetID uuid.UUID) (Asset, error)
}
