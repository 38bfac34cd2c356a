package models

import "time"

// Interval is a half-open time range [Start, End). Intervals are always
// derived values, normalized within a query window.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsEmpty reports whether the interval covers no time.
func (iv Interval) IsEmpty() bool {
	return !iv.End.After(iv.Start)
}

// Overlaps reports whether two half-open intervals share any time.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}
