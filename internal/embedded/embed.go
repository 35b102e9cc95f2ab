// Package embedded carries the default field catalog compiled into the
// binary, so the engine works without any external configuration.
package embedded

import (
	"embed"

	"github.com/migratum/gapscan/pkg/fieldcatalog"
)

// FS embeds the default field catalog at build time.
//
//go:embed catalog/*
var FS embed.FS

// DefaultCatalog loads the embedded default field catalog.
func DefaultCatalog() (*fieldcatalog.Catalog, error) {
	return fieldcatalog.LoadFS(FS, "catalog/fields.yaml")
}
