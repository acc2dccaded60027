package service_test

import (
	"testing"
	"time"

	resModel "wsb/internal/domains/reservation/model"
	"wsb/internal/domains/slot/model"
	"wsb/internal/domains/slot/service"
	"wsb/shared/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 1, 10, hour, minute, 0, 0, time.UTC)
}

var day = at(0, 0)

func newCalendar(t *testing.T, now time.Time) *calendar.Calendar {
	t.Helper()

	cal, err := calendar.NewWithOptions(calendar.Options{
		Location: time.UTC,
		Now:      calendar.NewManualClock(now).Now,
	})
	require.NoError(t, err)

	return cal
}

func active(id int64, start, end time.Time) resModel.Reservation {
	return resModel.Reservation{ID: id, ResourceID: 1, OwnerID: "A", Start: start, End: end, State: resModel.StateActive}
}

func finished(id int64, start, end, finishedAt time.Time) resModel.Reservation {
	res := active(id, start, end)
	res.State = resModel.StateFinished
	res.FinishedAt = &finishedAt

	return res
}

func cancelled(id int64, start, end time.Time) resModel.Reservation {
	res := active(id, start, end)
	res.State = resModel.StateCancelled

	return res
}

func slotMap(slots []model.Slot) map[time.Time]int {
	m := make(map[time.Time]int, len(slots))
	for _, s := range slots {
		m[s.Start] = s.MaxDurationMinutes
	}

	return m
}

func TestProjector_FreeSlots_UnbookedDay(t *testing.T) {
	cal := newCalendar(t, at(6, 0))

	slots := service.NewProjector(cal).FreeSlots(day, nil, at(6, 0))
	require.Len(t, slots, 30)

	got := slotMap(slots)
	assert.Equal(t, 480, got[at(7, 0)])
	assert.Equal(t, 480, got[at(14, 30)])
	assert.Equal(t, 450, got[at(15, 0)])
	assert.Equal(t, 60, got[at(21, 30)])

	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i-1].Start.Before(slots[i].Start))
	}
}

func TestProjector_FreeSlots_HappyCreate(t *testing.T) {
	cal := newCalendar(t, at(8, 0))

	slots := slotMap(service.NewProjector(cal).FreeSlots(day, []resModel.Reservation{active(1, at(9, 0), at(10, 30))}, at(8, 0)))

	assert.NotContains(t, slots, at(7, 0))
	assert.NotContains(t, slots, at(7, 30))
	assert.Equal(t, 60, slots[at(8, 0)])
	assert.Equal(t, 30, slots[at(8, 30)])
	assert.NotContains(t, slots, at(9, 0))
	assert.NotContains(t, slots, at(9, 30))
	assert.NotContains(t, slots, at(10, 0))
	assert.Equal(t, 480, slots[at(10, 30)])
}

func TestProjector_FreeSlots_FinishedTailReappears(t *testing.T) {
	cal := newCalendar(t, at(9, 45))
	projector := service.NewProjector(cal)

	before := slotMap(projector.FreeSlots(day, []resModel.Reservation{active(1, at(9, 0), at(10, 30))}, at(9, 45)))
	assert.NotContains(t, before, at(10, 0))

	after := slotMap(projector.FreeSlots(day, []resModel.Reservation{finished(1, at(9, 0), at(10, 30), at(9, 45))}, at(9, 45)))
	assert.Equal(t, 480, after[at(10, 0)])
	assert.NotContains(t, after, at(9, 30))
}

func TestProjector_FreeSlots_IgnoresCancelled(t *testing.T) {
	cal := newCalendar(t, at(6, 0))

	slots := slotMap(service.NewProjector(cal).FreeSlots(day, []resModel.Reservation{cancelled(1, at(9, 0), at(10, 30))}, at(6, 0)))

	assert.Len(t, slots, 30)
	assert.Equal(t, 480, slots[at(9, 0)])
}

func TestProjector_FreeSlots_FullyBookedDay(t *testing.T) {
	cal := newCalendar(t, at(6, 0))

	reservations := []resModel.Reservation{
		active(1, at(7, 0), at(15, 0)),
		active(2, at(15, 0), at(22, 30)),
	}

	assert.Empty(t, service.NewProjector(cal).FreeSlots(day, reservations, at(6, 0)))
}

func TestProjector_FreeSlots_PastDay(t *testing.T) {
	cal := newCalendar(t, at(6, 0))

	assert.Empty(t, service.NewProjector(cal).FreeSlots(day.AddDate(0, 0, -1), nil, at(6, 0)))
}

// Every listed (t, k) must be bookable for each multiple of the step up to k,
// and k must be maximal; every unlisted future grid point must be blocked.
func TestProjector_FreeSlots_GreatestFeasibleSet(t *testing.T) {
	now := at(8, 10)
	cal := newCalendar(t, now)

	reservations := []resModel.Reservation{
		active(1, at(9, 0), at(10, 30)),
		finished(2, at(11, 0), at(13, 0), at(11, 45)),
		cancelled(3, at(12, 0), at(14, 0)),
		active(4, at(13, 30), at(14, 0)),
		active(5, at(20, 0), at(21, 0)),
	}

	fits := func(start, end time.Time) bool {
		if end.After(cal.DayLimit(start)) || end.Sub(start) > cal.MaxDuration() {
			return false
		}

		for _, res := range reservations {
			if res.Overlaps(start, end) {
				return false
			}
		}

		return true
	}

	slots := slotMap(service.NewProjector(cal).FreeSlots(day, reservations, now))

	for _, start := range cal.SlotGrid(day) {
		maxMinutes, listed := slots[start]

		if start.Before(now) {
			assert.False(t, listed, "past slot %s listed", start)

			continue
		}

		if !listed {
			assert.False(t, fits(start, start.Add(cal.Step())), "bookable slot %s missing", start)

			continue
		}

		for k := cal.StepMinutes(); k <= maxMinutes; k += cal.StepMinutes() {
			assert.True(t, fits(start, start.Add(time.Duration(k)*time.Minute)), "slot %s not bookable for %d minutes", start, k)
		}

		longer := start.Add(time.Duration(maxMinutes+cal.StepMinutes()) * time.Minute)
		assert.False(t, fits(start, longer), "slot %s could be longer than %d minutes", start, maxMinutes)
	}

	assert.NotContains(t, slots, at(11, 30))
	assert.Equal(t, 90, slots[at(12, 0)])
}

func TestProjector_Cells(t *testing.T) {
	now := at(9, 45)
	cal := newCalendar(t, now)

	reservations := []resModel.Reservation{
		active(1, at(7, 0), at(8, 0)),
		finished(2, at(8, 0), at(9, 0), at(8, 15)),
		active(3, at(9, 0), at(10, 30)),
		active(4, at(11, 0), at(12, 0)),
		cancelled(5, at(13, 0), at(14, 0)),
	}

	cells := service.NewProjector(cal).Cells(day, reservations, now)
	require.Len(t, cells, 30)

	status := make(map[time.Time]model.Status, len(cells))
	for _, c := range cells {
		status[c.Start] = c.Status
	}

	assert.Equal(t, model.StatusFinished, status[at(7, 0)])
	assert.Equal(t, model.StatusFinished, status[at(7, 30)])
	assert.Equal(t, model.StatusFinished, status[at(8, 0)])
	assert.Equal(t, model.StatusFree, status[at(8, 30)])
	assert.Equal(t, model.StatusInUse, status[at(9, 0)])
	// not begun yet, but it belongs to the in-progress booking
	assert.Equal(t, model.StatusInUse, status[at(10, 0)])
	assert.Equal(t, model.StatusFree, status[at(10, 30)])
	assert.Equal(t, model.StatusBookedFuture, status[at(11, 30)])
	assert.Equal(t, model.StatusFree, status[at(13, 0)])

	assert.Equal(t, int64(3), cells[4].ReservationID)
	assert.Equal(t, "A", cells[4].OwnerID)
}
