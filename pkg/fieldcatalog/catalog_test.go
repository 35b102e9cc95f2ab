package fieldcatalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/migratum/gapscan/pkg/errors"
	"github.com/migratum/gapscan/pkg/gaps"
)

func testFields() []Field {
	return []Field{
		{ID: "application_name", Name: "Application Name", Priority: gaps.PriorityCritical, Section: "Application Profile", CustomPaths: []string{"app_name", "metadata.application.name"}},
		{ID: "database_type", Name: "Database Type", Priority: gaps.PriorityCritical, Section: "Infrastructure"},
		{ID: "environment", Name: "Environment", Priority: gaps.PriorityHigh, Section: "Infrastructure", Related: RelatedPropagate, RelatedAttr: "environment"},
		{ID: "dependencies", Name: "Dependencies", Priority: gaps.PriorityMedium, Section: "Topology", Related: RelatedAggregate},
	}
}

func TestNewPreservesOrder(t *testing.T) {
	cat, err := New(testFields())
	require.NoError(t, err)
	require.Equal(t, 4, cat.Len())

	ids := make([]string, 0, cat.Len())
	for _, f := range cat.Fields() {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []string{"application_name", "database_type", "environment", "dependencies"}, ids)
}

func TestNewRejectsDuplicates(t *testing.T) {
	fields := testFields()
	fields = append(fields, Field{ID: "database_type", Priority: gaps.PriorityLow})

	_, err := New(fields)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestFieldValidation(t *testing.T) {
	tests := []struct {
		name  string
		field Field
	}{
		{"empty id", Field{Priority: gaps.PriorityHigh}},
		{"bad priority", Field{ID: "x", Priority: gaps.Priority("urgent")}},
		{"bad related mode", Field{ID: "x", Priority: gaps.PriorityHigh, Related: RelatedMode("merge")}},
		{"propagate without attr", Field{ID: "x", Priority: gaps.PriorityHigh, Related: RelatedPropagate}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.field.Validate())
		})
	}
}

func TestFieldLookup(t *testing.T) {
	cat, err := New(testFields())
	require.NoError(t, err)

	f, ok := cat.Field("environment")
	require.True(t, ok)
	assert.Equal(t, RelatedPropagate, f.Related)

	_, ok = cat.Field("nonexistent")
	assert.False(t, ok)
}

func TestFilterByPriority(t *testing.T) {
	cat, err := New(testFields())
	require.NoError(t, err)

	critical := cat.FilterByPriority(gaps.PriorityCritical)
	require.Len(t, critical, 2)

	criticalHigh := cat.FilterByPriority(gaps.PriorityCritical, gaps.PriorityHigh)
	require.Len(t, criticalHigh, 3)
	assert.Equal(t, "application_name", criticalHigh[0].ID)

	// Empty filter returns everything.
	assert.Len(t, cat.FilterByPriority(), 4)
}

func TestSections(t *testing.T) {
	cat, err := New(testFields())
	require.NoError(t, err)
	assert.Equal(t, []string{"Application Profile", "Infrastructure", "Topology"}, cat.Sections())
}

func TestParseYAML(t *testing.T) {
	doc := []byte(`
fields:
  - id: application_name
    name: Application Name
    priority: critical
    section: application profile
    custom_paths:
      - app_name
      - metadata.application.name
  - id: environment
    name: Environment
    priority: high
    section: INFRASTRUCTURE
    related: propagate
    related_attr: environment
`)

	cat, err := Parse(doc, "test.yaml")
	require.NoError(t, err)
	require.Equal(t, 2, cat.Len())

	f, ok := cat.Field("application_name")
	require.True(t, ok)
	assert.Equal(t, []string{"app_name", "metadata.application.name"}, f.CustomPaths)
	// Section labels are normalized regardless of authored casing.
	assert.Equal(t, "Application Profile", f.Section)

	env, _ := cat.Field("environment")
	assert.Equal(t, "Infrastructure", env.Section)
}

func TestParseRejectsEmptyAndMalformed(t *testing.T) {
	_, err := Parse([]byte("fields: []"), "empty.yaml")
	require.Error(t, err)

	_, err = Parse([]byte("fields: {not a list"), "broken.yaml")
	require.Error(t, err)

	_, err = Parse([]byte("fields:\n  - id: x\n    priority: urgent\n"), "badprio.yaml")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestNormalizeSection(t *testing.T) {
	assert.Equal(t, "Application Profile", NormalizeSection("  application PROFILE "))
	assert.Equal(t, "", NormalizeSection("   "))
}
