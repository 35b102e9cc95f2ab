package memory

import (
	"github.com/google/uuid"

	"github.com/migratum/gapscan/pkg/inventory"
)

// Fixture seeds a store with a small demo inventory: one well-documented
// asset, one asset whose data lives only in secondary locations, and one
// nearly blank asset. Used by the CLI when no database is configured.
func Fixture() (*Store, inventory.TenantScope, []uuid.UUID) {
	store := New()
	scope := inventory.TenantScope{TenantID: uuid.New(), ProjectID: uuid.New()}

	documented := uuid.New()
	store.SeedAsset(scope, &inventory.AssetRecord{
		AssetID:   documented,
		AssetName: "billing-api",
		Attributes: map[string]any{
			"application_name": "Billing API",
			"technology_stack": "go",
			"database_type":    "postgres",
			"operating_system": "linux",
		},
		Custom: map[string]any{"owner": "payments-team"},
		Env:    "production",
	})
	store.LinkApplications(scope, documented, inventory.LinkedApplication{
		ID:                  uuid.New(),
		DisplayName:         "Billing Suite",
		Category:            "web",
		TechnologyStack:     "go",
		BusinessCriticality: "high",
	})

	sparse := uuid.New()
	store.SeedAsset(scope, &inventory.AssetRecord{
		AssetID:   sparse,
		AssetName: "legacy-orders",
		Custom: map[string]any{
			"app_name": "Orders (legacy)",
			"metadata": map[string]any{
				"owner": map[string]any{"team": "commerce"},
			},
		},
	})
	store.LinkApplications(scope, sparse,
		inventory.LinkedApplication{ID: uuid.New(), DisplayName: "Orders", Category: "database"},
	)
	store.RelateAssets(scope, sparse,
		inventory.RelatedAsset{ID: documented, Name: "billing-api", Environment: "production", Direction: "downstream"},
		inventory.RelatedAsset{ID: uuid.New(), Name: "orders-db", Environment: "production", Direction: "upstream"},
	)
	store.SetEnrichment(scope, sparse, &inventory.EnrichmentRecord{
		Category:   inventory.CategoryTechDebt,
		Attributes: map[string]any{"tech_debt_score": 8.2},
	})
	store.SetEnrichment(scope, sparse, &inventory.EnrichmentRecord{
		Category:   inventory.CategoryCost,
		Attributes: map[string]any{"monthly_cost": 4100.50},
	})

	blank := uuid.New()
	store.SeedAsset(scope, &inventory.AssetRecord{
		AssetID:   blank,
		AssetName: "unknown-vm-17",
	})

	return store, scope, []uuid.UUID{documented, sparse, blank}
}
