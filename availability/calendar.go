// Package availability implements the participant side of the protocol: a
// free/busy calendar and an HTTP provider serving availability queries. The
// coordinator core never imports this package directly; it exists so
// participants can be run as real processes in demos and tests.
package availability

import (
	"sync"
	"time"

	"github.com/hupe1980/courtmesh/core"
)

// Calendar holds one participant's free intervals. It is safe for concurrent
// use; the stored set is kept normalized at all times.
type Calendar struct {
	mu   sync.RWMutex
	name string
	free []core.TimeInterval
}

// NewCalendar creates an empty calendar for the named participant.
func NewCalendar(name string) *Calendar {
	return &Calendar{name: name}
}

// Name returns the participant name the calendar belongs to.
func (c *Calendar) Name() string { return c.name }

// AddFree marks an interval as free, merging with existing free time.
func (c *Calendar) AddFree(interval core.TimeInterval) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.free = core.Normalize(append(c.free, interval))
}

// MarkBusy removes an interval from the free set.
func (c *Calendar) MarkBusy(interval core.TimeInterval) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.free = core.Subtract(c.free, interval)
}

// Free returns the free intervals clipped to the requested range.
func (c *Calendar) Free(dateRange core.TimeInterval) []core.TimeInterval {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return core.IntersectSets(c.free, []core.TimeInterval{dateRange})
}

// dayAt builds an instant on base+days at hh:mm UTC.
func dayAt(base time.Time, days, hour, min int) time.Time {
	d := base.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, time.UTC)
}

// block is a free window on a relative demo day.
type block struct {
	day        int
	start, end [2]int // hour, minute
}

func demoCalendar(name string, base time.Time, blocks []block) *Calendar {
	cal := NewCalendar(name)
	for _, b := range blocks {
		cal.AddFree(core.TimeInterval{
			Start: dayAt(base, b.day, b.start[0], b.start[1]),
			End:   dayAt(base, b.day, b.end[0], b.end[1]),
		})
	}
	return cal
}

// NewDemoCalendarEarly builds a demo calendar favoring mornings: a late free
// block tomorrow, late-morning blocks after that, one fully free day and one
// day with no availability at all.
func NewDemoCalendarEarly(name string, base time.Time) *Calendar {
	return demoCalendar(name, base, []block{
		{day: 1, start: [2]int{16, 0}, end: [2]int{18, 0}},
		{day: 2, start: [2]int{10, 0}, end: [2]int{12, 0}},
		{day: 3, start: [2]int{11, 0}, end: [2]int{12, 0}},
		{day: 5, start: [2]int{8, 0}, end: [2]int{22, 0}},
	})
}

// NewDemoCalendarLate builds the counterpart demo calendar: busy tomorrow,
// midday blocks on the following days and a fully free fourth day.
func NewDemoCalendarLate(name string, base time.Time) *Calendar {
	return demoCalendar(name, base, []block{
		{day: 2, start: [2]int{11, 0}, end: [2]int{15, 0}},
		{day: 3, start: [2]int{11, 0}, end: [2]int{15, 0}},
		{day: 4, start: [2]int{8, 0}, end: [2]int{22, 0}},
	})
}
