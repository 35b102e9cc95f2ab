package extract

import (
	"github.com/migratum/gapscan/pkg/fieldcatalog"
	"github.com/migratum/gapscan/pkg/gaps"
	"github.com/migratum/gapscan/pkg/inventory"
)

// RelatedAssets derives field values from the asset's dependency
// neighborhood. It is the weakest evidence tier: inferred by proximity
// rather than observed directly.
//
// Two modes exist per the field's catalog entry: aggregation fields collect
// the neighbor names into an enumeration, propagation fields adopt a value
// the neighbors report. When neighbors disagree on a propagated value the
// policy is majority vote over non-empty values, with ties broken by the
// lexicographically smallest value, so the outcome never depends on row
// order.
type RelatedAssets struct{}

// Source returns the source type this extractor produces.
func (RelatedAssets) Source() gaps.SourceType {
	return gaps.SourceRelatedAssets
}

// Extract applies the field's related-asset derivation mode.
func (e RelatedAssets) Extract(_ inventory.Asset, sctx *inventory.Context, field fieldcatalog.Field) (*gaps.DataSource, error) {
	related := sctx.Related
	if len(related) == 0 {
		return nil, nil
	}

	switch field.Related {
	case fieldcatalog.RelatedAggregate:
		names := make([]string, 0, len(related))
		for _, ra := range related {
			if ra.Name != "" {
				names = append(names, ra.Name)
			}
		}
		if len(names) == 0 {
			return nil, nil
		}
		ds, err := gaps.NewDataSource(e.Source(), "related_assets.names", names, e.Source().Confidence())
		if err != nil {
			return nil, err
		}
		return &ds, nil

	case fieldcatalog.RelatedPropagate:
		value := propagate(related, field.RelatedAttr)
		if value == "" {
			return nil, nil
		}
		ds, err := gaps.NewDataSource(e.Source(), "related_assets."+field.RelatedAttr, value, e.Source().Confidence())
		if err != nil {
			return nil, err
		}
		return &ds, nil

	default:
		return nil, nil
	}
}

// propagate picks the value the neighborhood agrees on: the most frequent
// non-empty value, ties broken by the lexicographically smallest.
func propagate(related []inventory.RelatedAsset, attr string) string {
	counts := make(map[string]int)
	for _, ra := range related {
		v := neighborAttr(ra, attr)
		if v != "" {
			counts[v]++
		}
	}

	var winner string
	var winnerCount int
	for v, n := range counts {
		if n > winnerCount || (n == winnerCount && (winner == "" || v < winner)) {
			winner = v
			winnerCount = n
		}
	}
	return winner
}

// neighborAttr returns the named attribute a related asset exposes for
// propagation.
func neighborAttr(ra inventory.RelatedAsset, attr string) string {
	switch attr {
	case "environment":
		return ra.Environment
	case "name":
		return ra.Name
	default:
		return ""
	}
}
