package extract

import (
	"github.com/migratum/gapscan/pkg/fieldcatalog"
	"github.com/migratum/gapscan/pkg/gaps"
	"github.com/migratum/gapscan/pkg/inventory"
)

// EnvironmentField extracts the asset's scalar environment classification.
// The label is self-reported and less validated than structured columns, so
// it sits below them but above every derived source.
type EnvironmentField struct{}

// Source returns the source type this extractor produces.
func (EnvironmentField) Source() gaps.SourceType {
	return gaps.SourceEnvironmentField
}

// Extract answers only the environment field; for everything else the
// deployment-stage label is not evidence.
func (e EnvironmentField) Extract(asset inventory.Asset, _ *inventory.Context, field fieldcatalog.Field) (*gaps.DataSource, error) {
	if field.ID != "environment" {
		return nil, nil
	}

	env := asset.Environment()
	if env == "" {
		return nil, nil
	}

	ds, err := gaps.NewDataSource(e.Source(), "assets.environment", env, e.Source().Confidence())
	if err != nil {
		return nil, err
	}
	return &ds, nil
}
