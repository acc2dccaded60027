package service

import (
	"time"

	resModel "wsb/internal/domains/reservation/model"
	"wsb/internal/domains/slot/model"
	"wsb/shared/calendar"
)

// Projector derives slot views from stored reservations. It reads no clock;
// callers pass the instant the view is computed for.
type Projector struct {
	cal *calendar.Calendar
}

func NewProjector(cal *calendar.Calendar) *Projector {
	return &Projector{cal: cal}
}

// FreeSlots lists every grid start on date that is not in the past and the
// longest run of free steps from it, capped by the maximum duration and the
// day limit. Reservations are expected to belong to a single resource.
func (p *Projector) FreeSlots(date time.Time, reservations []resModel.Reservation, now time.Time) []model.Slot {
	occupied := occupying(reservations)
	step := p.cal.Step()
	limit := p.cal.DayLimit(date)

	slots := make([]model.Slot, 0)

	for _, t := range p.cal.SlotGrid(date) {
		if t.Before(now) || coveredAt(occupied, t) {
			continue
		}

		maxEnd := t.Add(p.cal.MaxDuration())
		if maxEnd.After(limit) {
			maxEnd = limit
		}

		end := t
		for next := t.Add(step); !next.After(maxEnd); next = next.Add(step) {
			if overlapsAny(occupied, end, next) {
				break
			}

			end = next
		}

		if minutes := calendar.Minutes(end.Sub(t)); minutes >= p.cal.StepMinutes() {
			slots = append(slots, model.Slot{Start: t, MaxDurationMinutes: minutes})
		}
	}

	return slots
}

// Cells returns the heat-map row of one resource: a status for every grid
// slot [t, t+step) on date.
func (p *Projector) Cells(date time.Time, reservations []resModel.Reservation, now time.Time) []model.Cell {
	occupied := occupying(reservations)
	step := p.cal.Step()
	grid := p.cal.SlotGrid(date)

	cells := make([]model.Cell, len(grid))

	for i, t := range grid {
		cells[i] = model.Cell{Start: t, Status: model.StatusFree}

		for _, res := range occupied {
			if !res.Overlaps(t, t.Add(step)) {
				continue
			}

			cells[i].Status = statusOf(res, now)
			cells[i].ReservationID = res.ID
			cells[i].OwnerID = res.OwnerID

			break
		}
	}

	return cells
}

func statusOf(res resModel.Reservation, now time.Time) model.Status {
	switch {
	case res.State == resModel.StateFinished || !res.EffectiveEnd().After(now):
		return model.StatusFinished
	case !res.Start.After(now):
		return model.StatusInUse
	default:
		return model.StatusBookedFuture
	}
}

func occupying(reservations []resModel.Reservation) []resModel.Reservation {
	occupied := make([]resModel.Reservation, 0, len(reservations))

	for _, res := range reservations {
		if res.Occupies() {
			occupied = append(occupied, res)
		}
	}

	return occupied
}

func coveredAt(occupied []resModel.Reservation, t time.Time) bool {
	for _, res := range occupied {
		if !res.Start.After(t) && res.EffectiveEnd().After(t) {
			return true
		}
	}

	return false
}

func overlapsAny(occupied []resModel.Reservation, start, end time.Time) bool {
	for _, res := range occupied {
		if res.Overlaps(start, end) {
			return true
		}
	}

	return false
}
