// Package fieldcatalog defines the catalog of attributes the assessment
// pipeline needs answered per asset: each field's priority, questionnaire
// section, the ordered candidate lookup paths for custom-attribute
// extraction, and the derivation hints the topology extractor uses.
// The catalog is caller-supplied configuration; a default catalog ships
// embedded in the binary.
package fieldcatalog

import (
	"github.com/migratum/gapscan/pkg/errors"
	"github.com/migratum/gapscan/pkg/gaps"
)

// RelatedMode selects how the related-asset extractor treats a field.
type RelatedMode string

// Related-asset derivation modes.
const (
	// RelatedNone means the field cannot be derived from topology.
	RelatedNone RelatedMode = ""
	// RelatedAggregate builds an enumeration of related-asset names.
	RelatedAggregate RelatedMode = "aggregate"
	// RelatedPropagate infers the field's value from the neighbors'
	// corresponding attribute.
	RelatedPropagate RelatedMode = "propagate"
)

// IsValid returns true for a recognized mode.
func (m RelatedMode) IsValid() bool {
	switch m {
	case RelatedNone, RelatedAggregate, RelatedPropagate:
		return true
	}
	return false
}

// Field describes one catalog entry.
type Field struct {
	// ID is the field identifier, matching the standard-column name.
	ID string `json:"id" yaml:"id"`

	// Name is the human-readable field name.
	Name string `json:"name" yaml:"name"`

	// Priority classifies how badly downstream analysis needs the field.
	Priority gaps.Priority `json:"priority" yaml:"priority"`

	// Section is the questionnaire section label the field belongs to.
	Section string `json:"section" yaml:"section"`

	// CustomPaths are the ordered candidate lookup paths for
	// custom-attribute extraction. A path is a direct key or a dotted
	// nested path; the first match wins.
	CustomPaths []string `json:"custom_paths,omitempty" yaml:"custom_paths,omitempty"`

	// Related selects the related-asset derivation mode for this field.
	Related RelatedMode `json:"related,omitempty" yaml:"related,omitempty"`

	// RelatedAttr names the neighbor attribute propagated when Related is
	// "propagate". Currently "environment" is the only attribute related
	// assets expose for propagation.
	RelatedAttr string `json:"related_attr,omitempty" yaml:"related_attr,omitempty"`
}

// Validate checks a single field definition.
func (f Field) Validate() error {
	if f.ID == "" {
		return errors.NewValidationError("id", f.ID, "field id must not be empty")
	}
	if !f.Priority.IsValid() {
		return errors.NewValidationError("priority", f.Priority,
			"field "+f.ID+" priority must be one of critical, high, medium, low")
	}
	if !f.Related.IsValid() {
		return errors.NewValidationError("related", f.Related,
			"field "+f.ID+" related mode must be aggregate, propagate, or empty")
	}
	if f.Related == RelatedPropagate && f.RelatedAttr == "" {
		return errors.NewValidationError("related_attr", f.RelatedAttr,
			"field "+f.ID+" with propagate mode must name a related attribute")
	}
	return nil
}

// DisplayName returns the human-readable name, falling back to the id.
func (f Field) DisplayName() string {
	if f.Name != "" {
		return f.Name
	}
	return f.ID
}
