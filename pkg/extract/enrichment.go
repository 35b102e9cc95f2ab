package extract

import (
	"github.com/migratum/gapscan/pkg/fieldcatalog"
	"github.com/migratum/gapscan/pkg/gaps"
	"github.com/migratum/gapscan/pkg/inventory"
)

// Enrichment extracts the field as a named attribute on one enrichment
// category's pre-fetched record. Each of the three category variants looks
// at its own record only; categories are never merged.
type Enrichment struct {
	Category inventory.Category
}

// Source returns the source type for this extractor's category, so the
// category stays visible in the evidence for observability.
func (e Enrichment) Source() gaps.SourceType {
	switch e.Category {
	case inventory.CategoryTechDebt:
		return gaps.SourceEnrichmentTechDebt
	case inventory.CategoryPerformance:
		return gaps.SourceEnrichmentPerformance
	case inventory.CategoryCost:
		return gaps.SourceEnrichmentCost
	default:
		return gaps.SourceType("enrichment_" + string(e.Category))
	}
}

// Extract looks up the field id as an attribute on this category's record.
// An absent record or an absent attribute yields nothing.
func (e Enrichment) Extract(_ inventory.Asset, sctx *inventory.Context, field fieldcatalog.Field) (*gaps.DataSource, error) {
	record := sctx.Enrichment(e.Category)
	if record == nil {
		return nil, nil
	}

	value := record.Attribute(field.ID)
	if !present(value) {
		return nil, nil
	}

	path := "enrichment." + e.Category.String() + "." + field.ID
	ds, err := gaps.NewDataSource(e.Source(), path, value, e.Source().Confidence())
	if err != nil {
		return nil, err
	}
	return &ds, nil
}
