package availability

import (
	"sort"
	"time"

	"slotengine/models"
)

// MergeIntervals sorts by start then end and coalesces overlapping or
// adjacent intervals into a minimal sorted, non-overlapping list.
func MergeIntervals(ivs []models.Interval) []models.Interval {
	in := make([]models.Interval, 0, len(ivs))
	for _, iv := range ivs {
		if !iv.IsEmpty() {
			in = append(in, iv)
		}
	}
	if len(in) == 0 {
		return nil
	}
	sort.Slice(in, func(i, j int) bool {
		if in[i].Start.Equal(in[j].Start) {
			return in[i].End.Before(in[j].End)
		}
		return in[i].Start.Before(in[j].Start)
	})
	merged := []models.Interval{in[0]}
	for _, iv := range in[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// IntersectIntervals returns the overlap of two sorted, non-overlapping
// lists using a two-pointer sweep.
func IntersectIntervals(a, b []models.Interval) []models.Interval {
	var out []models.Interval
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		start := a[i].Start
		if b[j].Start.After(start) {
			start = b[j].Start
		}
		end := a[i].End
		if b[j].End.Before(end) {
			end = b[j].End
		}
		if end.After(start) {
			out = append(out, models.Interval{Start: start, End: end})
		}
		// Advance whichever list ends first.
		if a[i].End.Before(b[j].End) {
			i++
		} else {
			j++
		}
	}
	return out
}

// SubtractIntervals removes the remove list from the source list, emitting
// the gaps between overlapping removals. Both lists must be sorted and
// non-overlapping.
func SubtractIntervals(source, remove []models.Interval) []models.Interval {
	if len(remove) == 0 {
		return source
	}
	var out []models.Interval
	for _, src := range source {
		cursor := src.Start
		for _, rem := range remove {
			if !rem.End.After(cursor) {
				continue
			}
			if !rem.Start.Before(src.End) {
				break
			}
			if rem.Start.After(cursor) {
				out = append(out, models.Interval{Start: cursor, End: rem.Start})
			}
			if rem.End.After(cursor) {
				cursor = rem.End
			}
			if !cursor.Before(src.End) {
				break
			}
		}
		if cursor.Before(src.End) {
			out = append(out, models.Interval{Start: cursor, End: src.End})
		}
	}
	return out
}

// ClampIntervals truncates intervals to [from, to) and drops empty results.
func ClampIntervals(ivs []models.Interval, from, to time.Time) []models.Interval {
	var out []models.Interval
	for _, iv := range ivs {
		start, end := iv.Start, iv.End
		if start.Before(from) {
			start = from
		}
		if end.After(to) {
			end = to
		}
		if end.After(start) {
			out = append(out, models.Interval{Start: start, End: end})
		}
	}
	return out
}

// IsRangeWithin reports whether some interval fully contains [start, end).
// This is the feasibility check for every proposed step and buffer window.
func IsRangeWithin(ivs []models.Interval, start, end time.Time) bool {
	for _, iv := range ivs {
		if !iv.Start.After(start) && !iv.End.Before(end) {
			return true
		}
		if iv.Start.After(start) {
			break
		}
	}
	return false
}

// AlignToGrid rounds t up to the next multiple of step measured from origin.
// A t already on the grid is returned unchanged.
func AlignToGrid(t, origin time.Time, step time.Duration) time.Time {
	if step <= 0 {
		return t
	}
	d := t.Sub(origin)
	n := d / step
	if d%step != 0 && d > 0 {
		n++
	}
	return origin.Add(n * step)
}
