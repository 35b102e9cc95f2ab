package fieldcatalog

import (
	"github.com/migratum/gapscan/pkg/errors"
	"github.com/migratum/gapscan/pkg/gaps"
)

// Catalog is an ordered collection of field definitions. Order is
// significant: the scanner returns gaps in catalog order.
type Catalog struct {
	fields []Field
	byID   map[string]int
}

// New builds a validated catalog from an ordered field list. Duplicate ids
// and invalid field definitions fail construction.
func New(fields []Field) (*Catalog, error) {
	cat := &Catalog{
		fields: make([]Field, 0, len(fields)),
		byID:   make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if err := cat.add(f); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

func (c *Catalog) add(f Field) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if _, exists := c.byID[f.ID]; exists {
		return errors.NewValidationError("id", f.ID, "duplicate field id")
	}
	c.byID[f.ID] = len(c.fields)
	c.fields = append(c.fields, f)
	return nil
}

// Fields returns the fields in catalog order.
func (c *Catalog) Fields() []Field {
	out := make([]Field, len(c.fields))
	copy(out, c.fields)
	return out
}

// Len returns the number of fields.
func (c *Catalog) Len() int {
	return len(c.fields)
}

// Field looks up a field definition by id.
func (c *Catalog) Field(id string) (Field, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Field{}, false
	}
	return c.fields[i], true
}

// FilterByPriority returns the fields matching any of the given priorities,
// preserving catalog order. An empty priority set returns all fields.
func (c *Catalog) FilterByPriority(priorities ...gaps.Priority) []Field {
	if len(priorities) == 0 {
		return c.Fields()
	}
	wanted := make(map[gaps.Priority]bool, len(priorities))
	for _, p := range priorities {
		wanted[p] = true
	}
	var out []Field
	for _, f := range c.fields {
		if wanted[f.Priority] {
			out = append(out, f)
		}
	}
	return out
}

// Sections returns the distinct section labels in first-appearance order.
func (c *Catalog) Sections() []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range c.fields {
		if f.Section == "" || seen[f.Section] {
			continue
		}
		seen[f.Section] = true
		out = append(out, f.Section)
	}
	return out
}
