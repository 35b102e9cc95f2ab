package extract

import (
	"strings"

	"github.com/migratum/gapscan/pkg/fieldcatalog"
	"github.com/migratum/gapscan/pkg/gaps"
	"github.com/migratum/gapscan/pkg/inventory"
)

// Canonical-application derivation fields. These ids are fixed by the
// platform's assessment model.
const (
	fieldApplicationName     = "application_name"
	fieldTechnologyStack     = "technology_stack"
	fieldBusinessCriticality = "business_criticality"
	fieldDatabaseType        = "database_type"
)

// databaseCategory is the canonical-application category that implies a
// database_type of "database".
const databaseCategory = "database"

// CanonicalApplication derives field values from the tenant-scoped list of
// canonical applications linked to the asset.
type CanonicalApplication struct{}

// Source returns the source type this extractor produces.
func (CanonicalApplication) Source() gaps.SourceType {
	return gaps.SourceCanonicalApplications
}

// Extract applies the per-field derivation rules: name, stack, and
// criticality come from the first linked application; database_type is the
// literal "database" when any linked application is categorized as one.
func (e CanonicalApplication) Extract(_ inventory.Asset, sctx *inventory.Context, field fieldcatalog.Field) (*gaps.DataSource, error) {
	apps := sctx.Applications
	if len(apps) == 0 {
		return nil, nil
	}

	var value any
	var path string

	switch field.ID {
	case fieldApplicationName:
		if apps[0].DisplayName != "" {
			value = apps[0].DisplayName
			path = "canonical_applications[0].display_name"
		}
	case fieldTechnologyStack:
		if apps[0].TechnologyStack != "" {
			value = apps[0].TechnologyStack
			path = "canonical_applications[0].technology_stack"
		}
	case fieldBusinessCriticality:
		if apps[0].BusinessCriticality != "" {
			value = apps[0].BusinessCriticality
			path = "canonical_applications[0].business_criticality"
		}
	case fieldDatabaseType:
		for _, app := range apps {
			if strings.EqualFold(app.Category, databaseCategory) {
				value = databaseCategory
				path = "canonical_applications.category"
				break
			}
		}
	}

	if value == nil {
		return nil, nil
	}

	ds, err := gaps.NewDataSource(e.Source(), path, value, e.Source().Confidence())
	if err != nil {
		return nil, err
	}
	return &ds, nil
}
