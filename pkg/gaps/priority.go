package gaps

import (
	"slices"
	"strings"

	"github.com/migratum/gapscan/pkg/errors"
)

// Priority classifies how badly downstream analysis needs a field answered.
type Priority string

// The closed set of field priorities.
const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Priorities returns all priorities, most urgent first.
func Priorities() []Priority {
	return []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}
}

// String returns the string representation of a priority.
func (p Priority) String() string {
	return string(p)
}

// IsValid returns true if the priority is one of the defined constants.
func (p Priority) IsValid() bool {
	return slices.Contains(Priorities(), p)
}

// Rank returns a sortable rank for the priority. Lower is more urgent.
func (p Priority) Rank() int {
	for i, pr := range Priorities() {
		if pr == p {
			return i
		}
	}
	return len(Priorities())
}

// ParsePriority parses a priority from its string form, case-insensitively.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", errors.NewValidationError("priority", s, "must be one of critical, high, medium, low")
	}
	return p, nil
}
