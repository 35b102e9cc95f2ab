// Package inventory defines the read contracts the gap-detection engine
// consumes: a narrow asset accessor, the tenant scope every lookup is bound
// to, and the per-scan context snapshot holding the three pre-fetched,
// tenant-scoped record sets. The engine never reaches into the storage
// representation directly; anything that can satisfy these interfaces can
// be scanned.
package inventory

import (
	"github.com/google/uuid"

	"github.com/migratum/gapscan/pkg/errors"
)

// Asset is the read-only view of an inventory asset the engine needs.
// It exposes exactly the standard columns, the free-form custom attribute
// map, and the scalar environment classification.
type Asset interface {
	// ID returns the asset identifier.
	ID() uuid.UUID

	// Name returns the asset's display name.
	Name() string

	// Attribute returns the standard-column value for a field id, or nil
	// when the column is absent.
	Attribute(fieldID string) any

	// CustomAttributes returns the free-form key/value map attached to the
	// asset. May be nil.
	CustomAttributes() map[string]any

	// Environment returns the asset's deployment-stage label, or "".
	Environment() string
}

// AssetRecord is a plain struct implementation of Asset, used by the
// storage backends and by tests fabricating assets.
type AssetRecord struct {
	AssetID    uuid.UUID      `json:"id"`
	AssetName  string         `json:"name"`
	Attributes map[string]any `json:"attributes"`
	Custom     map[string]any `json:"custom_attributes"`
	Env        string         `json:"environment"`
}

// ID returns the asset identifier.
func (a *AssetRecord) ID() uuid.UUID { return a.AssetID }

// Name returns the asset's display name.
func (a *AssetRecord) Name() string { return a.AssetName }

// Attribute returns the standard-column value for a field id.
func (a *AssetRecord) Attribute(fieldID string) any {
	if a.Attributes == nil {
		return nil
	}
	return a.Attributes[fieldID]
}

// CustomAttributes returns the free-form key/value map.
func (a *AssetRecord) CustomAttributes() map[string]any { return a.Custom }

// Environment returns the deployment-stage label.
func (a *AssetRecord) Environment() string { return a.Env }

// TenantScope identifies whose data every lookup must be confined to.
// Both identifiers are required; a zero scope never matches any rows.
type TenantScope struct {
	TenantID  uuid.UUID `json:"tenant_id"`
	ProjectID uuid.UUID `json:"project_id"`
}

// Validate returns an error if either identifier is the zero UUID.
func (s TenantScope) Validate() error {
	if s.TenantID == uuid.Nil {
		return errors.NewValidationError("tenant_id", s.TenantID, "must not be the zero UUID")
	}
	if s.ProjectID == uuid.Nil {
		return errors.NewValidationError("project_id", s.ProjectID, "must not be the zero UUID")
	}
	return nil
}
