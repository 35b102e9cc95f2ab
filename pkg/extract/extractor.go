// Package extract implements the eight evidence extractors the gap-detection
// engine runs per field. Each extractor is stateless and independent: it
// inspects the asset accessor and the already-loaded, tenant-scoped scan
// context and returns zero-or-one DataSource. The fixed registry order is
// also the precedence order used to break confidence ties during
// aggregation.
package extract

import (
	"github.com/migratum/gapscan/pkg/fieldcatalog"
	"github.com/migratum/gapscan/pkg/gaps"
	"github.com/migratum/gapscan/pkg/inventory"
)

// Extractor tries to find evidence for one field in one source.
type Extractor interface {
	// Source returns the source type this extractor produces.
	Source() gaps.SourceType

	// Extract returns evidence for the field, or nil when this source has
	// nothing. A non-nil error is a construction-time contract failure and
	// aborts the whole scan.
	Extract(asset inventory.Asset, sctx *inventory.Context, field fieldcatalog.Field) (*gaps.DataSource, error)
}

// Registry returns the eight extractors in fixed precedence order,
// strongest first. The set is closed: aggregation assumes exactly these
// source types exist.
func Registry() []Extractor {
	return []Extractor{
		StandardColumn{},
		CustomAttribute{},
		Enrichment{Category: inventory.CategoryTechDebt},
		Enrichment{Category: inventory.CategoryPerformance},
		Enrichment{Category: inventory.CategoryCost},
		EnvironmentField{},
		CanonicalApplication{},
		RelatedAssets{},
	}
}

// present reports whether a value counts as populated: non-nil and, for
// strings, non-empty. A blank string is identical to a missing value.
func present(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	return true
}
