package participant

import (
	"time"

	"github.com/tidwall/gjson"

	"github.com/hupe1980/courtmesh/core"
)

// Participant payloads are duck-typed: any response declaring a mapping from
// dates to free intervals is accepted, with per-entry tolerance. gjson lets us
// probe the untrusted document without committing to a struct shape.
//
// Canonical form:
//
//	{"availability": {"2026-03-14": [{"start": "09:00", "end": "12:00"}]}}
//
// Interval bounds may be "HH:MM" (interpreted on the entry's date, UTC) or
// full RFC3339 timestamps. Entries that do not parse, or whose start is not
// before their end, are dropped; overlapping and unsorted intervals are merged
// and sorted. Only a structurally unusable document (not JSON, or no
// availability object) is malformed.

// decodeAvailability extracts and normalizes free intervals from a raw
// participant response. ok is false when the payload is malformed.
func decodeAvailability(body []byte) (intervals []core.TimeInterval, ok bool) {
	if !gjson.ValidBytes(body) {
		return nil, false
	}

	availability := gjson.GetBytes(body, "availability")
	if !availability.IsObject() {
		return nil, false
	}

	availability.ForEach(func(key, value gjson.Result) bool {
		date, err := time.Parse(time.DateOnly, key.String())
		if err != nil || !value.IsArray() {
			return true // skip entry, keep scanning
		}
		for _, entry := range value.Array() {
			start, okStart := parseBound(entry.Get("start").String(), date)
			end, okEnd := parseBound(entry.Get("end").String(), date)
			if !okStart || !okEnd || !start.Before(end) {
				continue
			}
			intervals = append(intervals, core.TimeInterval{Start: start, End: end})
		}
		return true
	})

	return core.Normalize(intervals), true
}

// parseBound parses one interval bound: a clock time on the entry's date or a
// full timestamp.
func parseBound(raw string, date time.Time) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if clock, err := time.Parse("15:04", raw); err == nil {
		return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC), true
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, true
	}
	return time.Time{}, false
}
