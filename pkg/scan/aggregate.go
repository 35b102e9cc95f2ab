package scan

import (
	"sort"

	"github.com/migratum/gapscan/pkg/fieldcatalog"
	"github.com/migratum/gapscan/pkg/gaps"
)

// Aggregate combines the outputs of all eight extractors for one field into
// a single IntelligentGap. Extractors are never short-circuited upstream,
// so every piece of corroborating or conflicting evidence stays visible
// here for debugging and pre-fill selection.
//
// No evidence means a TRUE gap with full confidence that the field is
// missing. Otherwise the residual uncertainty is 1 − max(confidence): one
// strong source collapses the score toward zero, a lone topology-inferred
// source leaves it at 0.30 so callers can still choose to prompt.
func Aggregate(field fieldcatalog.Field, found []gaps.DataSource) (gaps.IntelligentGap, error) {
	if len(found) == 0 {
		return gaps.NewIntelligentGap(field.ID, field.DisplayName(), field.Priority, field.Section,
			true, 1.0, nil)
	}

	ordered := make([]gaps.DataSource, len(found))
	copy(ordered, found)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Stronger(ordered[j])
	})

	score := 1.0 - ordered[0].Confidence

	return gaps.NewIntelligentGap(field.ID, field.DisplayName(), field.Priority, field.Section,
		false, score, ordered)
}
