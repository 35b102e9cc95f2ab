package scan

import (
	"github.com/migratum/gapscan/pkg/gaps"
)

// scanOptions holds per-call filters.
type scanOptions struct {
	trueGapsOnly bool
	priorities   []gaps.Priority
}

// ScanOption configures one Scan or ScanAssets call.
type ScanOption func(*scanOptions)

// TrueGapsOnly restricts the result to fields with no evidence anywhere.
func TrueGapsOnly() ScanOption {
	return func(o *scanOptions) {
		o.trueGapsOnly = true
	}
}

// WithPriorities restricts the scan to fields with any of the given
// priorities. The typical caller asks for critical and high only.
func WithPriorities(priorities ...gaps.Priority) ScanOption {
	return func(o *scanOptions) {
		o.priorities = append(o.priorities, priorities...)
	}
}

func newScanOptions(opts ...ScanOption) scanOptions {
	var o scanOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
