package core

import (
	"fmt"
	"sort"
	"time"
)

// TimeInterval is a half-open time window [Start, End). Invariant: Start is
// strictly before End. Construct via NewTimeInterval to enforce the invariant;
// a TimeInterval is immutable once constructed.
type TimeInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewTimeInterval validates and constructs a half-open interval.
func NewTimeInterval(start, end time.Time) (TimeInterval, error) {
	if !start.Before(end) {
		return TimeInterval{}, fmt.Errorf("%w: start %s is not before end %s", ErrInvalidInterval, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return TimeInterval{Start: start, End: end}, nil
}

// Duration returns the length of the interval.
func (iv TimeInterval) Duration() time.Duration { return iv.End.Sub(iv.Start) }

// IsZero reports whether the interval is the zero value.
func (iv TimeInterval) IsZero() bool { return iv.Start.IsZero() && iv.End.IsZero() }

// Overlaps reports whether two half-open intervals share any instant:
// [a,b) overlaps [c,d) iff a < d && c < b. This predicate is the single
// correctness-critical test behind double-booking prevention.
func (iv TimeInterval) Overlaps(other TimeInterval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Intersect returns the common sub-interval of two intervals. The boolean is
// false when the intervals do not overlap.
func (iv TimeInterval) Intersect(other TimeInterval) (TimeInterval, bool) {
	start := iv.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := iv.End
	if other.End.Before(end) {
		end = other.End
	}
	if !start.Before(end) {
		return TimeInterval{}, false
	}
	return TimeInterval{Start: start, End: end}, true
}

// Contains reports whether other lies fully inside iv.
func (iv TimeInterval) Contains(other TimeInterval) bool {
	return !other.Start.Before(iv.Start) && !other.End.After(iv.End)
}

// Equal reports instant-level equality of both endpoints.
func (iv TimeInterval) Equal(other TimeInterval) bool {
	return iv.Start.Equal(other.Start) && iv.End.Equal(other.End)
}

// String renders the interval in RFC3339 for logs and error messages.
func (iv TimeInterval) String() string {
	return fmt.Sprintf("[%s, %s)", iv.Start.Format(time.RFC3339), iv.End.Format(time.RFC3339))
}

// Normalize returns a canonical form of a set of intervals: sorted by start
// with overlapping and adjacent intervals merged. The input slice is not
// modified. Intervals violating the Start < End invariant are dropped.
func Normalize(intervals []TimeInterval) []TimeInterval {
	valid := make([]TimeInterval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.Start.Before(iv.End) {
			valid = append(valid, iv)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sort.Slice(valid, func(i, j int) bool {
		if valid[i].Start.Equal(valid[j].Start) {
			return valid[i].End.Before(valid[j].End)
		}
		return valid[i].Start.Before(valid[j].Start)
	})

	merged := []TimeInterval{valid[0]}
	for _, iv := range valid[1:] {
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

// IntersectSets computes the intersection of two normalized interval sets.
// The result is itself normalized. The operation is commutative, so the order
// in which participant results arrive never changes the outcome.
func IntersectSets(a, b []TimeInterval) []TimeInterval {
	var out []TimeInterval
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if iv, ok := a[i].Intersect(b[j]); ok {
			out = append(out, iv)
		}
		if a[i].End.Before(b[j].End) {
			i++
		} else {
			j++
		}
	}
	return out
}

// Subtract removes iv from every interval in the normalized set, splitting
// intervals that straddle it. Used to exclude a conflicted candidate before
// re-selection.
func Subtract(set []TimeInterval, iv TimeInterval) []TimeInterval {
	var out []TimeInterval
	for _, s := range set {
		if !s.Overlaps(iv) {
			out = append(out, s)
			continue
		}
		if s.Start.Before(iv.Start) {
			out = append(out, TimeInterval{Start: s.Start, End: iv.Start})
		}
		if iv.End.Before(s.End) {
			out = append(out, TimeInterval{Start: iv.End, End: s.End})
		}
	}
	return out
}
