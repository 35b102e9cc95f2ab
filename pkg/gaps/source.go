// Package gaps defines the value objects produced by the gap-detection
// engine: the evidence found for a field (DataSource) and the per-field
// verdict (IntelligentGap). Both are validated at construction so that a
// defect in extraction or aggregation logic can never silently produce a
// misleading gap.
package gaps

import (
	"slices"

	"github.com/migratum/gapscan/pkg/errors"
)

// SourceType identifies which of the eight recognized extraction paths
// produced a piece of evidence.
type SourceType string

// String returns the string representation of a source type.
func (st SourceType) String() string {
	return string(st)
}

// The eight recognized source types, strongest first.
const (
	SourceStandardColumn        SourceType = "standard_column"
	SourceCustomAttributes      SourceType = "custom_attributes"
	SourceEnrichmentTechDebt    SourceType = "enrichment_tech_debt"
	SourceEnrichmentPerformance SourceType = "enrichment_performance"
	SourceEnrichmentCost        SourceType = "enrichment_cost"
	SourceEnvironmentField      SourceType = "environment_field"
	SourceCanonicalApplications SourceType = "canonical_applications"
	SourceRelatedAssets         SourceType = "related_assets"
)

// SourceTypes returns all source types in precedence order, strongest first.
func SourceTypes() []SourceType {
	return []SourceType{
		SourceStandardColumn,
		SourceCustomAttributes,
		SourceEnrichmentTechDebt,
		SourceEnrichmentPerformance,
		SourceEnrichmentCost,
		SourceEnvironmentField,
		SourceCanonicalApplications,
		SourceRelatedAssets,
	}
}

// IsValid returns true if the source type is one of the defined constants.
func (st SourceType) IsValid() bool {
	return slices.Contains(SourceTypes(), st)
}

// Confidence returns how authoritative this source is for concluding that a
// field is populated. Standard columns are the source of truth; everything
// below them is progressively less trusted, with topology-inferred values
// the weakest tier.
func (st SourceType) Confidence() float64 {
	switch st {
	case SourceStandardColumn:
		return 1.0
	case SourceCustomAttributes:
		return 0.95
	case SourceEnrichmentTechDebt, SourceEnrichmentPerformance, SourceEnrichmentCost:
		return 0.90
	case SourceEnvironmentField:
		return 0.85
	case SourceCanonicalApplications:
		return 0.80
	case SourceRelatedAssets:
		return 0.70
	default:
		return 0
	}
}

// Precedence returns the fixed tie-break rank for this source type.
// Higher wins when two sources report the same confidence.
func (st SourceType) Precedence() int {
	order := SourceTypes()
	for i, s := range order {
		if s == st {
			return len(order) - i
		}
	}
	return 0
}

// Validate returns an error if the source type is not one of the defined
// constants.
func (st SourceType) Validate() error {
	if !st.IsValid() {
		return errors.NewValidationError("source_type", st, "unknown source type")
	}
	return nil
}
