// Package prefill turns scan results into questionnaire pre-fill
// suggestions. A field whose value was found in a secondary source does not
// need to be asked again; it needs to be confirmed. Each suggestion carries
// the winning source and its confidence so the review UI can rank how much
// scrutiny an answer deserves.
package prefill

import (
	"github.com/migratum/gapscan/pkg/gaps"
)

// Suggestion is one pre-filled questionnaire answer awaiting confirmation.
type Suggestion struct {
	FieldID    string          `json:"field_id"`
	FieldName  string          `json:"field_name"`
	Section    string          `json:"section"`
	Priority   gaps.Priority   `json:"priority"`
	Value      any             `json:"value"`
	SourceType gaps.SourceType `json:"source_type"`
	Confidence float64         `json:"confidence"`
}

// Option configures suggestion building.
type Option func(*options)

type options struct {
	minConfidence float64
}

// WithMinConfidence drops suggestions whose winning source falls below the
// threshold. The caller decides where "worth pre-filling" starts; topology
// inference at 0.70 is a common cutoff candidate.
func WithMinConfidence(min float64) Option {
	return func(o *options) {
		o.minConfidence = min
	}
}

// Suggestions builds pre-fill suggestions from a scan result, preserving the
// result's field order. True gaps produce nothing; they still have to be
// asked.
func Suggestions(results []gaps.IntelligentGap, opts ...Option) []Suggestion {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	suggestions := make([]Suggestion, 0, len(results))
	for _, gap := range results {
		if gap.IsTrueGap {
			continue
		}
		best, ok := gap.BestSource()
		if !ok || best.Confidence < o.minConfidence {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			FieldID:    gap.FieldID,
			FieldName:  gap.FieldName,
			Section:    gap.Section,
			Priority:   gap.Priority,
			Value:      best.Value,
			SourceType: best.SourceType,
			Confidence: best.Confidence,
		})
	}
	return suggestions
}
