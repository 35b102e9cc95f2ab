package gaps

import (
	"github.com/migratum/gapscan/pkg/errors"
)

// DataSource is one piece of evidence that a field is populated somewhere:
// which extraction path found it, where, the raw value, and how much that
// path is trusted.
type DataSource struct {
	SourceType SourceType `json:"source_type"`
	FieldPath  string     `json:"field_path"`
	Value      any        `json:"value"`
	Confidence float64    `json:"confidence"`
}

// NewDataSource constructs a validated DataSource. The source type must be
// one of the eight recognized kinds and confidence must be in [0,1].
func NewDataSource(st SourceType, fieldPath string, value any, confidence float64) (DataSource, error) {
	if err := st.Validate(); err != nil {
		return DataSource{}, err
	}
	if confidence < 0 || confidence > 1 {
		return DataSource{}, errors.NewValidationError("confidence", confidence, "must be in [0,1]")
	}
	return DataSource{
		SourceType: st,
		FieldPath:  fieldPath,
		Value:      value,
		Confidence: confidence,
	}, nil
}

// Stronger reports whether this source outranks other: higher confidence
// wins, with the fixed source-type precedence breaking ties.
func (ds DataSource) Stronger(other DataSource) bool {
	if ds.Confidence != other.Confidence {
		return ds.Confidence > other.Confidence
	}
	return ds.SourceType.Precedence() > other.SourceType.Precedence()
}
