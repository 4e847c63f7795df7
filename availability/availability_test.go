package availability

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/courtmesh/core"
	"github.com/hupe1980/courtmesh/participant"
)

var day = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

func iv(t *testing.T, startHour, endHour int) core.TimeInterval {
	t.Helper()
	interval, err := core.NewTimeInterval(day.Add(time.Duration(startHour)*time.Hour), day.Add(time.Duration(endHour)*time.Hour))
	require.NoError(t, err)
	return interval
}

func TestCalendar_FreeClipsToRange(t *testing.T) {
	cal := NewCalendar("jeff")
	cal.AddFree(iv(t, 9, 12))
	cal.AddFree(iv(t, 14, 16))

	free := cal.Free(iv(t, 10, 15))
	require.Len(t, free, 2)
	assert.True(t, free[0].Equal(iv(t, 10, 12)))
	assert.True(t, free[1].Equal(iv(t, 14, 15)))
}

func TestCalendar_MarkBusySplitsFreeTime(t *testing.T) {
	cal := NewCalendar("jeff")
	cal.AddFree(iv(t, 9, 17))
	cal.MarkBusy(iv(t, 12, 13))

	free := cal.Free(iv(t, 0, 24))
	require.Len(t, free, 2)
	assert.True(t, free[0].Equal(iv(t, 9, 12)))
	assert.True(t, free[1].Equal(iv(t, 13, 17)))
}

func TestCalendar_AddFreeMerges(t *testing.T) {
	cal := NewCalendar("jeff")
	cal.AddFree(iv(t, 9, 11))
	cal.AddFree(iv(t, 10, 12))

	free := cal.Free(iv(t, 0, 24))
	require.Len(t, free, 1)
	assert.True(t, free[0].Equal(iv(t, 9, 12)))
}

func TestDemoCalendars_HaveACommonMiddayBlock(t *testing.T) {
	early := NewDemoCalendarEarly("jeff", day)
	late := NewDemoCalendarLate("mark", day)

	week, err := core.NewTimeInterval(day, day.AddDate(0, 0, 7))
	require.NoError(t, err)

	common := core.IntersectSets(early.Free(week), late.Free(week))
	require.NotEmpty(t, common)
	// Two days out both are free 11:00-12:00.
	assert.Equal(t, day.AddDate(0, 0, 2).Add(11*time.Hour), common[0].Start)
	assert.Equal(t, day.AddDate(0, 0, 2).Add(12*time.Hour), common[0].End)
}

// The provider handler and the participant client speak the same wire
// contract end to end.
func TestHandler_RoundTripWithClient(t *testing.T) {
	cal := NewCalendar("jeff")
	cal.AddFree(iv(t, 9, 12))

	srv := httptest.NewServer(NewHandler(cal, nil))
	t.Cleanup(srv.Close)

	c := participant.NewClient()
	res := c.QueryAvailability(context.Background(), core.Participant{ID: "jeff", Endpoint: srv.URL}, iv(t, 0, 24))

	require.Equal(t, core.QueryOk, res.Status)
	require.Len(t, res.Window.Intervals, 1)
	assert.True(t, res.Window.Intervals[0].Equal(iv(t, 9, 12)))
}

func TestHandler_RejectsInvalidRange(t *testing.T) {
	cal := NewCalendar("jeff")
	srv := httptest.NewServer(NewHandler(cal, nil))
	t.Cleanup(srv.Close)

	c := participant.NewClient()
	// Inverted range: the provider answers 400, which the client classifies
	// as unreachable rather than guessing at intent.
	res := c.QueryAvailability(context.Background(), core.Participant{ID: "jeff", Endpoint: srv.URL}, core.TimeInterval{Start: day.Add(12 * time.Hour), End: day})
	assert.Equal(t, core.QueryUnreachable, res.Status)
}
