package scan_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/migratum/gapscan/internal/store/memory"
	"github.com/migratum/gapscan/pkg/errors"
	"github.com/migratum/gapscan/pkg/fieldcatalog"
	"github.com/migratum/gapscan/pkg/gaps"
	"github.com/migratum/gapscan/pkg/inventory"
	"github.com/migratum/gapscan/pkg/logging"
	"github.com/migratum/gapscan/pkg/scan"
)

func testScope() inventory.TenantScope {
	return inventory.TenantScope{TenantID: uuid.New(), ProjectID: uuid.New()}
}

func testCatalog(t *testing.T) *fieldcatalog.Catalog {
	t.Helper()
	cat, err := fieldcatalog.New([]fieldcatalog.Field{
		{ID: "application_name", Name: "Application Name", Priority: gaps.PriorityCritical, Section: "Application Profile", CustomPaths: []string{"app_name"}},
		{ID: "technology_stack", Name: "Technology Stack", Priority: gaps.PriorityCritical, Section: "Application Profile"},
		{ID: "database_type", Name: "Database Type", Priority: gaps.PriorityCritical, Section: "Infrastructure"},
		{ID: "environment", Name: "Environment", Priority: gaps.PriorityHigh, Section: "Infrastructure", Related: fieldcatalog.RelatedPropagate, RelatedAttr: "environment"},
		{ID: "dependencies", Name: "Dependencies", Priority: gaps.PriorityHigh, Section: "Topology", Related: fieldcatalog.RelatedAggregate},
		{ID: "monthly_cost", Name: "Monthly Cost", Priority: gaps.PriorityMedium, Section: "Cost"},
	})
	require.NoError(t, err)
	return cat
}

func newScanner(t *testing.T, store *memory.Store, scope inventory.TenantScope, opts ...scan.Option) *scan.Scanner {
	t.Helper()
	opts = append([]scan.Option{scan.WithLogger(&logging.Nop)}, opts...)
	scanner, err := scan.New(store, scope, opts...)
	require.NoError(t, err)
	return scanner
}

func findGap(t *testing.T, list []gaps.IntelligentGap, fieldID string) gaps.IntelligentGap {
	t.Helper()
	for _, g := range list {
		if g.FieldID == fieldID {
			return g
		}
	}
	t.Fatalf("field %s not in gap list", fieldID)
	return gaps.IntelligentGap{}
}

func hasGap(list []gaps.IntelligentGap, fieldID string) bool {
	for _, g := range list {
		if g.FieldID == fieldID {
			return true
		}
	}
	return false
}

func TestScanContractErrors(t *testing.T) {
	store := memory.New()
	scope := testScope()
	scanner := newScanner(t, store, scope)
	cat := testCatalog(t)
	ctx := context.Background()

	_, err := scanner.Scan(ctx, nil, cat)
	require.Error(t, err)
	assert.True(t, errors.IsContract(err))

	_, err = scanner.Scan(ctx, &inventory.AssetRecord{}, cat)
	require.Error(t, err)
	assert.True(t, errors.IsContract(err))

	_, err = scanner.Scan(ctx, &inventory.AssetRecord{AssetID: uuid.New()}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsContract(err))
}

func TestNewScannerValidation(t *testing.T) {
	_, err := scan.New(nil, testScope())
	require.Error(t, err)

	_, err = scan.New(memory.New(), inventory.TenantScope{})
	require.Error(t, err)

	_, err = scan.New(memory.New(), testScope(), scan.WithWorkers(0))
	require.Error(t, err)

	_, err = scan.New(memory.New(), testScope(), scan.WithBatchLimit(0))
	require.Error(t, err)

	_, err = scan.New(memory.New(), testScope(), scan.WithQueryRate(-1))
	require.Error(t, err)
}

func TestScanInvariants(t *testing.T) {
	store := memory.New()
	scope := testScope()
	asset := &inventory.AssetRecord{
		AssetID:    uuid.New(),
		AssetName:  "vm-1",
		Attributes: map[string]any{"application_name": "Billing"},
		Custom:     map[string]any{"app_name": "Billing (tagged)"},
	}
	store.SeedAsset(scope, asset)

	scanner := newScanner(t, store, scope)
	list, err := scanner.Scan(context.Background(), asset, testCatalog(t))
	require.NoError(t, err)

	// Exactly one verdict shape per field: true gap with no evidence, or
	// evidence with a matching score.
	for _, g := range list {
		if g.IsTrueGap {
			assert.Empty(t, g.DataFound, "field %s", g.FieldID)
			assert.Equal(t, 1.0, g.ConfidenceScore, "field %s", g.FieldID)
		} else {
			require.NotEmpty(t, g.DataFound, "field %s", g.FieldID)
			best, _ := g.BestSource()
			assert.InDelta(t, 1.0-best.Confidence, g.ConfidenceScore, 1e-9, "field %s", g.FieldID)
		}
		assert.GreaterOrEqual(t, g.ConfidenceScore, 0.0)
		assert.LessOrEqual(t, g.ConfidenceScore, 1.0)
	}
}

func TestScanResultsInCatalogOrder(t *testing.T) {
	store := memory.New()
	scope := testScope()
	asset := &inventory.AssetRecord{AssetID: uuid.New(), AssetName: "vm-1"}
	store.SeedAsset(scope, asset)

	scanner := newScanner(t, store, scope)
	list, err := scanner.Scan(context.Background(), asset, testCatalog(t))
	require.NoError(t, err)
	require.Len(t, list, 6)

	want := []string{"application_name", "technology_stack", "database_type", "environment", "dependencies", "monthly_cost"}
	for i, g := range list {
		assert.Equal(t, want[i], g.FieldID)
	}
}

func TestScanCustomAttributeOnly(t *testing.T) {
	store := memory.New()
	scope := testScope()
	asset := &inventory.AssetRecord{
		AssetID:   uuid.New(),
		AssetName: "vm-1",
		Custom:    map[string]any{"app_name": "Billing"},
	}
	store.SeedAsset(scope, asset)

	scanner := newScanner(t, store, scope)
	list, err := scanner.Scan(context.Background(), asset, testCatalog(t))
	require.NoError(t, err)

	g := findGap(t, list, "application_name")
	assert.False(t, g.IsTrueGap)

	best, ok := g.BestSource()
	require.True(t, ok)
	assert.Equal(t, gaps.SourceCustomAttributes, best.SourceType)
	assert.Equal(t, 0.95, best.Confidence)
	assert.InDelta(t, 0.05, g.ConfidenceScore, 1e-9)
}

func TestScanStandardColumnWinsButCustomStaysVisible(t *testing.T) {
	store := memory.New()
	scope := testScope()
	asset := &inventory.AssetRecord{
		AssetID:    uuid.New(),
		AssetName:  "vm-1",
		Attributes: map[string]any{"application_name": "Billing"},
		Custom:     map[string]any{"app_name": "Billing (tagged)"},
	}
	store.SeedAsset(scope, asset)

	scanner := newScanner(t, store, scope)
	list, err := scanner.Scan(context.Background(), asset, testCatalog(t))
	require.NoError(t, err)

	g := findGap(t, list, "application_name")
	require.False(t, g.IsTrueGap)
	require.Len(t, g.DataFound, 2)

	best, _ := g.BestSource()
	assert.Equal(t, gaps.SourceStandardColumn, best.SourceType)
	assert.Equal(t, 1.0, best.Confidence)
	assert.Equal(t, gaps.SourceCustomAttributes, g.DataFound[1].SourceType)
	assert.InDelta(t, 0.0, g.ConfidenceScore, 1e-9)
}

func TestScanPopulatedNumericFieldExcludedByTrueGapFilter(t *testing.T) {
	store := memory.New()
	scope := testScope()
	asset := &inventory.AssetRecord{
		AssetID:    uuid.New(),
		AssetName:  "vm-1",
		Attributes: map[string]any{"monthly_cost": 1200.50},
	}
	store.SeedAsset(scope, asset)

	scanner := newScanner(t, store, scope)
	list, err := scanner.Scan(context.Background(), asset, testCatalog(t), scan.TrueGapsOnly())
	require.NoError(t, err)

	assert.False(t, hasGap(list, "monthly_cost"), "populated field must not appear in true-gap list")
	assert.True(t, hasGap(list, "database_type"))
}

func TestScanDatabaseTypeDerivedFromLinkedApplication(t *testing.T) {
	store := memory.New()
	scope := testScope()
	asset := &inventory.AssetRecord{AssetID: uuid.New(), AssetName: "db-vm"}
	store.SeedAsset(scope, asset)
	store.LinkApplications(scope, asset.AssetID,
		inventory.LinkedApplication{ID: uuid.New(), DisplayName: "Orders DB", Category: "database"})

	scanner := newScanner(t, store, scope)

	trueGaps, err := scanner.Scan(context.Background(), asset, testCatalog(t), scan.TrueGapsOnly())
	require.NoError(t, err)
	assert.False(t, hasGap(trueGaps, "database_type"),
		"field derivable from a linked database application is not a true gap")

	all, err := scanner.Scan(context.Background(), asset, testCatalog(t))
	require.NoError(t, err)
	g := findGap(t, all, "database_type")
	best, ok := g.BestSource()
	require.True(t, ok)
	assert.Equal(t, gaps.SourceCanonicalApplications, best.SourceType)
	assert.Equal(t, 0.80, best.Confidence)
	assert.Equal(t, "database", best.Value)
}

func TestScanNoEvidenceAnywhereIsTrueGap(t *testing.T) {
	store := memory.New()
	scope := testScope()
	asset := &inventory.AssetRecord{AssetID: uuid.New(), AssetName: "bare-vm"}
	store.SeedAsset(scope, asset)

	scanner := newScanner(t, store, scope)
	list, err := scanner.Scan(context.Background(), asset, testCatalog(t))
	require.NoError(t, err)

	g := findGap(t, list, "technology_stack")
	assert.True(t, g.IsTrueGap)
	assert.Empty(t, g.DataFound)
	assert.Equal(t, 1.0, g.ConfidenceScore)
}

func TestScanPriorityFilter(t *testing.T) {
	store := memory.New()
	scope := testScope()
	asset := &inventory.AssetRecord{AssetID: uuid.New(), AssetName: "vm-1"}
	store.SeedAsset(scope, asset)

	scanner := newScanner(t, store, scope)
	list, err := scanner.Scan(context.Background(), asset, testCatalog(t),
		scan.WithPriorities(gaps.PriorityCritical, gaps.PriorityHigh))
	require.NoError(t, err)

	require.Len(t, list, 5)
	for _, g := range list {
		assert.Contains(t, []gaps.Priority{gaps.PriorityCritical, gaps.PriorityHigh}, g.Priority)
	}
	assert.False(t, hasGap(list, "monthly_cost"))
}

func TestScanTenantIsolation(t *testing.T) {
	store := memory.New()
	tenantA := testScope()
	tenantB := testScope()

	// The same asset identifier exists under both tenants; only tenant B
	// has linked applications and related assets.
	assetID := uuid.New()
	assetA := &inventory.AssetRecord{AssetID: assetID, AssetName: "shared-id"}
	store.SeedAsset(tenantA, assetA)
	store.SeedAsset(tenantB, &inventory.AssetRecord{AssetID: assetID, AssetName: "shared-id"})

	store.LinkApplications(tenantB, assetID,
		inventory.LinkedApplication{ID: uuid.New(), DisplayName: "Tenant B Secret App", Category: "database"})
	store.RelateAssets(tenantB, assetID,
		inventory.RelatedAsset{ID: uuid.New(), Name: "tenant-b-neighbor", Environment: "production"})

	scanner := newScanner(t, store, tenantA)
	list, err := scanner.Scan(context.Background(), assetA, testCatalog(t))
	require.NoError(t, err)

	for _, g := range list {
		for _, ds := range g.DataFound {
			assert.NotEqual(t, gaps.SourceCanonicalApplications, ds.SourceType,
				"tenant A scan surfaced tenant B's applications for %s", g.FieldID)
			assert.NotEqual(t, gaps.SourceRelatedAssets, ds.SourceType,
				"tenant A scan surfaced tenant B's topology for %s", g.FieldID)
		}
	}
	assert.True(t, findGap(t, list, "database_type").IsTrueGap)
	assert.True(t, findGap(t, list, "environment").IsTrueGap)
}

func TestScanEnvironmentPropagatedFromNeighbors(t *testing.T) {
	store := memory.New()
	scope := testScope()
	asset := &inventory.AssetRecord{AssetID: uuid.New(), AssetName: "vm-1"}
	store.SeedAsset(scope, asset)
	store.RelateAssets(scope, asset.AssetID,
		inventory.RelatedAsset{ID: uuid.New(), Name: "n1", Environment: "staging"},
		inventory.RelatedAsset{ID: uuid.New(), Name: "n2", Environment: "production"},
		inventory.RelatedAsset{ID: uuid.New(), Name: "n3", Environment: "production"},
	)

	scanner := newScanner(t, store, scope)
	list, err := scanner.Scan(context.Background(), asset, testCatalog(t))
	require.NoError(t, err)

	g := findGap(t, list, "environment")
	require.False(t, g.IsTrueGap)
	best, _ := g.BestSource()
	assert.Equal(t, gaps.SourceRelatedAssets, best.SourceType)
	assert.Equal(t, "production", best.Value)
	assert.InDelta(t, 0.30, g.ConfidenceScore, 1e-9)

	deps := findGap(t, list, "dependencies")
	require.False(t, deps.IsTrueGap)
	bestDeps, _ := deps.BestSource()
	assert.Equal(t, []string{"n1", "n2", "n3"}, bestDeps.Value)
}

type failingLoader struct {
	*memory.Store
}

func (f failingLoader) RelatedAssets(context.Context, inventory.TenantScope, uuid.UUID) ([]inventory.RelatedAsset, error) {
	return nil, fmt.Errorf("connection reset")
}

func TestScanSurfacesLoaderFailure(t *testing.T) {
	scope := testScope()
	asset := &inventory.AssetRecord{AssetID: uuid.New(), AssetName: "vm-1"}

	scanner, err := scan.New(failingLoader{memory.New()}, scope, scan.WithLogger(&logging.Nop))
	require.NoError(t, err)

	_, err = scanner.Scan(context.Background(), asset, testCatalog(t))
	require.Error(t, err)
	assert.True(t, errors.IsStorage(err))

	var qe *errors.QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "related_assets", qe.Query)
}

func TestScanCancellation(t *testing.T) {
	store := memory.New()
	scope := testScope()
	asset := &inventory.AssetRecord{AssetID: uuid.New(), AssetName: "vm-1"}
	store.SeedAsset(scope, asset)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scanner := newScanner(t, store, scope)
	_, err := scanner.Scan(ctx, asset, testCatalog(t))
	require.Error(t, err)
}

func TestScanAssetsBatch(t *testing.T) {
	store := memory.New()
	scope := testScope()

	assets := make([]inventory.Asset, 0, 10)
	for i := 0; i < 10; i++ {
		asset := &inventory.AssetRecord{
			AssetID:    uuid.New(),
			AssetName:  fmt.Sprintf("vm-%d", i),
			Attributes: map[string]any{"application_name": fmt.Sprintf("App %d", i)},
		}
		store.SeedAsset(scope, asset)
		assets = append(assets, asset)
	}

	scanner := newScanner(t, store, scope, scan.WithBatchLimit(3), scan.WithQueryRate(10000))
	results, err := scanner.ScanAssets(context.Background(), assets, testCatalog(t))
	require.NoError(t, err)
	require.Len(t, results, 10)

	for _, asset := range assets {
		list, ok := results[asset.ID()]
		require.True(t, ok)
		assert.False(t, findGap(t, list, "application_name").IsTrueGap)
	}
}

func TestScanAssetsNilHandleFailsFast(t *testing.T) {
	store := memory.New()
	scope := testScope()
	scanner := newScanner(t, store, scope)

	_, err := scanner.ScanAssets(context.Background(),
		[]inventory.Asset{nil}, testCatalog(t))
	require.Error(t, err)
	assert.True(t, errors.IsContract(err))
}

func TestScanFiftyFieldCatalogStaysFast(t *testing.T) {
	store := memory.New()
	scope := testScope()
	asset := &inventory.AssetRecord{
		AssetID:    uuid.New(),
		AssetName:  "vm-1",
		Attributes: map[string]any{"field_00": "x"},
		Custom:     map[string]any{"field_01": "y"},
		Env:        "production",
	}
	store.SeedAsset(scope, asset)
	store.RelateAssets(scope, asset.AssetID,
		inventory.RelatedAsset{ID: uuid.New(), Name: "n1", Environment: "production"})

	fields := make([]fieldcatalog.Field, 0, 50)
	for i := 0; i < 50; i++ {
		fields = append(fields, fieldcatalog.Field{
			ID:          fmt.Sprintf("field_%02d", i),
			Priority:    gaps.PriorityHigh,
			Section:     "Synthetic",
			CustomPaths: []string{fmt.Sprintf("field_%02d", i)},
		})
	}
	cat, err := fieldcatalog.New(fields)
	require.NoError(t, err)

	scanner := newScanner(t, store, scope)

	start := time.Now()
	list, err := scanner.Scan(context.Background(), asset, cat)
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.Len(t, list, 50)
	assert.Less(t, elapsed, time.Second, "50-field scan against warmed context must stay sub-second")
}
