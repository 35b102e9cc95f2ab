package extract

import (
	"github.com/migratum/gapscan/pkg/fieldcatalog"
	"github.com/migratum/gapscan/pkg/gaps"
	"github.com/migratum/gapscan/pkg/inventory"
)

// StandardColumn extracts the field's native attribute value from the asset
// itself. This is the authoritative source of truth, so a hit carries full
// confidence.
type StandardColumn struct{}

// Source returns the source type this extractor produces.
func (StandardColumn) Source() gaps.SourceType {
	return gaps.SourceStandardColumn
}

// Extract returns the standard-column value when present, non-null, and
// non-empty.
func (e StandardColumn) Extract(asset inventory.Asset, _ *inventory.Context, field fieldcatalog.Field) (*gaps.DataSource, error) {
	value := asset.Attribute(field.ID)
	if !present(value) {
		return nil, nil
	}

	ds, err := gaps.NewDataSource(e.Source(), "assets."+field.ID, value, e.Source().Confidence())
	if err != nil {
		return nil, err
	}
	return &ds, nil
}
