// Package metric normalizes the free-text magnitude strings found in the
// market-research fixtures ("$2.5 billion", "150-300", "248,243 (Stellantis)")
// into numbers, and renders numbers back into abbreviated display strings.
package metric

import "strings"

// Kind selects the currency and label behavior of a metric.
type Kind string

const (
	KindRevenue   Kind = "revenue"
	KindVolume    Kind = "volume"
	KindEmployees Kind = "employees"
)

// Kinds lists every metric kind in display order.
var Kinds = []Kind{KindRevenue, KindVolume, KindEmployees}

// SourceKind tells whether a figure was quoted from a source or estimated.
type SourceKind string

const (
	SourceDirect    SourceKind = "direct"
	SourceEstimated SourceKind = "estimated"
)

// NotAvailable is what the dashboard shows for a missing figure.
const NotAvailable = "N/A"

// Record is a single (entity, metric-kind) figure with its provenance.
type Record struct {
	Display     string     `json:"display"`
	Value       *float64   `json:"value,omitempty"`
	Source      string     `json:"source,omitempty"`
	SourceKind  SourceKind `json:"source_kind"`
	Methodology string     `json:"methodology,omitempty"`
	Note        string     `json:"note,omitempty"`
}

// Number returns the known numeric value, or the parsed display text when the
// fixture did not carry one.
func (r Record) Number() float64 {
	if r.Value != nil {
		return *r.Value
	}
	return ParseMagnitude(r.Display)
}

var estimateMarkers = []string{"estimate", "based on", "no specific", "likely"}

// IsEstimate reports whether a partner metric should be presented as an
// estimate rather than an official figure. Without a rationale there is
// nothing to qualify, so the figure is never flagged.
func IsEstimate(rationale, source string) bool {
	if rationale == "" {
		return false
	}
	if !strings.HasPrefix(source, "http") {
		return true
	}
	lower := strings.ToLower(rationale)
	for _, marker := range estimateMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
