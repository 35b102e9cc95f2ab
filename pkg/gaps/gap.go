package gaps

import (
	"github.com/migratum/gapscan/pkg/errors"
)

// IntelligentGap is the per-field verdict: either the field is a TRUE gap
// (no evidence anywhere) or it is populated in at least one secondary
// location, with the full evidence list retained for pre-fill and debugging.
//
// ConfidenceScore answers "how confident are we this field is truly
// missing": 1.0 for a true gap, 1 - max(source confidence) otherwise, so a
// single strong source collapses it toward zero while a weak
// topology-inferred source leaves meaningful residual uncertainty.
type IntelligentGap struct {
	FieldID         string       `json:"field_id"`
	FieldName       string       `json:"field_name"`
	Priority        Priority     `json:"priority"`
	Section         string       `json:"section"`
	IsTrueGap       bool         `json:"is_true_gap"`
	ConfidenceScore float64      `json:"confidence_score"`
	DataFound       []DataSource `json:"data_found"`
}

// NewIntelligentGap constructs a validated IntelligentGap. The boolean flag
// must agree with the emptiness of the evidence list, the score must be in
// [0,1], and the priority must be one of the closed set. Violations abort
// construction; they are never coerced.
func NewIntelligentGap(fieldID, fieldName string, priority Priority, section string, isTrueGap bool, score float64, dataFound []DataSource) (IntelligentGap, error) {
	if fieldID == "" {
		return IntelligentGap{}, errors.NewValidationError("field_id", fieldID, "must not be empty")
	}
	if !priority.IsValid() {
		return IntelligentGap{}, errors.NewValidationError("priority", priority, "must be one of critical, high, medium, low")
	}
	if score < 0 || score > 1 {
		return IntelligentGap{}, errors.NewValidationError("confidence_score", score, "must be in [0,1]")
	}
	if isTrueGap != (len(dataFound) == 0) {
		return IntelligentGap{}, errors.NewValidationError("is_true_gap", isTrueGap,
			"must agree with emptiness of data_found")
	}
	for _, ds := range dataFound {
		if err := ds.SourceType.Validate(); err != nil {
			return IntelligentGap{}, err
		}
	}
	return IntelligentGap{
		FieldID:         fieldID,
		FieldName:       fieldName,
		Priority:        priority,
		Section:         section,
		IsTrueGap:       isTrueGap,
		ConfidenceScore: score,
		DataFound:       dataFound,
	}, nil
}

// BestSource returns the strongest piece of evidence for this field, used by
// the pre-fill collaborator. The second return is false for a true gap.
func (g IntelligentGap) BestSource() (DataSource, bool) {
	if len(g.DataFound) == 0 {
		return DataSource{}, false
	}
	best := g.DataFound[0]
	for _, ds := range g.DataFound[1:] {
		if ds.Stronger(best) {
			best = ds
		}
	}
	return best, true
}
