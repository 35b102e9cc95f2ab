package fieldcatalog

import (
	"io/fs"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/migratum/gapscan/pkg/errors"
)

// fileSchema is the on-disk shape of a field catalog document.
type fileSchema struct {
	Fields []Field `yaml:"fields"`
}

// sectionCaser title-cases section labels so catalogs authored with
// inconsistent casing produce one section, not several.
var sectionCaser = cases.Title(language.English)

// LoadFile reads a field catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads a field catalog from a filesystem, used for the embedded
// default catalog.
func LoadFS(fsys fs.FS, path string) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return Parse(data, path)
}

// Parse builds a catalog from YAML bytes. The name is used in parse errors.
func Parse(data []byte, name string) (*Catalog, error) {
	var doc fileSchema
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapParse("yaml", name, err)
	}
	if len(doc.Fields) == 0 {
		return nil, errors.NewParseError("yaml", name, "catalog defines no fields", nil)
	}

	for i := range doc.Fields {
		doc.Fields[i].Section = NormalizeSection(doc.Fields[i].Section)
	}

	return New(doc.Fields)
}

// NormalizeSection canonicalizes a section label: trimmed, title-cased.
func NormalizeSection(section string) string {
	section = strings.TrimSpace(section)
	if section == "" {
		return ""
	}
	return sectionCaser.String(strings.ToLower(section))
}
