// Package memory provides an in-memory, tenant-keyed implementation of the
// inventory read contracts. It backs tests with fabricated contexts and the
// CLI's demo fixtures; nothing in it reaches storage.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/migratum/gapscan/pkg/errors"
	"github.com/migratum/gapscan/pkg/inventory"
)

// key scopes every record set by tenant and asset, so colliding asset ids
// across tenants stay separate.
type key struct {
	scope   inventory.TenantScope
	assetID uuid.UUID
}

// Store is an in-memory inventory backend.
type Store struct {
	mu          sync.RWMutex
	assets      map[key]*inventory.AssetRecord
	apps        map[key][]inventory.LinkedApplication
	related     map[key][]inventory.RelatedAsset
	enrichments map[key]map[inventory.Category]*inventory.EnrichmentRecord
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		assets:      make(map[key]*inventory.AssetRecord),
		apps:        make(map[key][]inventory.LinkedApplication),
		related:     make(map[key][]inventory.RelatedAsset),
		enrichments: make(map[key]map[inventory.Category]*inventory.EnrichmentRecord),
	}
}

// SeedAsset stores an asset record under a tenant scope.
func (s *Store) SeedAsset(scope inventory.TenantScope, asset *inventory.AssetRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[key{scope, asset.AssetID}] = asset
}

// LinkApplications records the canonical applications linked to an asset.
// Order is preserved; the first entry drives the first-application
// derivation rules.
func (s *Store) LinkApplications(scope inventory.TenantScope, assetID uuid.UUID, apps ...inventory.LinkedApplication) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apps[key{scope, assetID}] = append(s.apps[key{scope, assetID}], apps...)
}

// RelateAssets records dependency neighbors for an asset.
func (s *Store) RelateAssets(scope inventory.TenantScope, assetID uuid.UUID, related ...inventory.RelatedAsset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.related[key{scope, assetID}] = append(s.related[key{scope, assetID}], related...)
}

// SetEnrichment stores the enrichment record for one category. At most one
// record per category is kept, matching the storage contract.
func (s *Store) SetEnrichment(scope inventory.TenantScope, assetID uuid.UUID, record *inventory.EnrichmentRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{scope, assetID}
	if s.enrichments[k] == nil {
		s.enrichments[k] = make(map[inventory.Category]*inventory.EnrichmentRecord)
	}
	s.enrichments[k][record.Category] = record
}

// Asset implements inventory.AssetResolver.
func (s *Store) Asset(_ context.Context, scope inventory.TenantScope, assetID uuid.UUID) (inventory.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	asset, ok := s.assets[key{scope, assetID}]
	if !ok {
		return nil, errors.NewNotFoundError("asset", assetID.String())
	}
	return asset, nil
}

// Assets returns all assets seeded under a tenant scope.
func (s *Store) Assets(scope inventory.TenantScope) []inventory.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []inventory.Asset
	for k, asset := range s.assets {
		if k.scope == scope {
			out = append(out, asset)
		}
	}
	return out
}

// LinkedApplications implements inventory.ContextLoader.
func (s *Store) LinkedApplications(_ context.Context, scope inventory.TenantScope, assetID uuid.UUID) ([]inventory.LinkedApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	apps := s.apps[key{scope, assetID}]
	out := make([]inventory.LinkedApplication, len(apps))
	copy(out, apps)
	return out, nil
}

// RelatedAssets implements inventory.ContextLoader.
func (s *Store) RelatedAssets(_ context.Context, scope inventory.TenantScope, assetID uuid.UUID) ([]inventory.RelatedAsset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	related := s.related[key{scope, assetID}]
	out := make([]inventory.RelatedAsset, len(related))
	copy(out, related)
	return out, nil
}

// Enrichments implements inventory.ContextLoader.
func (s *Store) Enrichments(_ context.Context, scope inventory.TenantScope, assetID uuid.UUID) (map[inventory.Category]*inventory.EnrichmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.enrichments[key{scope, assetID}]
	out := make(map[inventory.Category]*inventory.EnrichmentRecord, len(records))
	for cat, rec := range records {
		out[cat] = rec
	}
	return out, nil
}
