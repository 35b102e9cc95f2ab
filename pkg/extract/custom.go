package extract

import (
	"strings"

	"github.com/migratum/gapscan/pkg/fieldcatalog"
	"github.com/migratum/gapscan/pkg/gaps"
	"github.com/migratum/gapscan/pkg/inventory"
)

// CustomAttribute extracts the field from the free-form key/value map
// attached to the asset, probing the field's candidate lookup paths in
// their fixed order and returning the first match.
type CustomAttribute struct{}

// Source returns the source type this extractor produces.
func (CustomAttribute) Source() gaps.SourceType {
	return gaps.SourceCustomAttributes
}

// Extract probes each candidate path in order. A path is a direct key or a
// dotted path into nested maps.
func (e CustomAttribute) Extract(asset inventory.Asset, _ *inventory.Context, field fieldcatalog.Field) (*gaps.DataSource, error) {
	attrs := asset.CustomAttributes()
	if len(attrs) == 0 || len(field.CustomPaths) == 0 {
		return nil, nil
	}

	for _, path := range field.CustomPaths {
		value, ok := lookupPath(attrs, path)
		if !ok || !present(value) {
			continue
		}

		ds, err := gaps.NewDataSource(e.Source(), "custom_attributes."+path, value, e.Source().Confidence())
		if err != nil {
			return nil, err
		}
		return &ds, nil
	}

	return nil, nil
}

// lookupPath resolves a direct key or a dotted nested path in a key/value
// map. Intermediate segments must be maps themselves.
func lookupPath(attrs map[string]any, path string) (any, bool) {
	// Direct key first: keys are allowed to contain dots.
	if v, ok := attrs[path]; ok {
		return v, true
	}

	segments := strings.Split(path, ".")
	if len(segments) == 1 {
		return nil, false
	}

	current := attrs
	for i, segment := range segments {
		v, ok := current[segment]
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return v, true
		}
		nested, ok := toStringMap(v)
		if !ok {
			return nil, false
		}
		current = nested
	}
	return nil, false
}

// toStringMap normalizes the map shapes YAML and JSON decoders produce.
func toStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[key] = val
		}
		return out, true
	default:
		return nil, false
	}
}
