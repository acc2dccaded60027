package dto

import (
	"time"

	"wsb/internal/domains/reservation/model"
	"wsb/shared"
	"wsb/shared/calendar"
)

// CreateReservationRequest is checked for shape here. Grid, working hours and
// duration rules are left to the calendar so they surface their own reasons.
type CreateReservationRequest struct {
	ResourceID      int64  `json:"resource_id"      validate:"required"`
	Date            string `json:"date"             validate:"required,datetime=2006-01-02"`
	Start           string `json:"start"            validate:"required,hhmm"`
	DurationMinutes int    `json:"duration_minutes"`
}

type ExtendReservationRequest struct {
	AddedMinutes int `json:"added_minutes"`
}

type ReservationResponse struct {
	ID              int64      `json:"id"`
	ResourceID      int64      `json:"resource_id"`
	OwnerID         string     `json:"owner_id"`
	Date            string     `json:"date"`
	Start           string     `json:"start"`
	End             string     `json:"end"`
	DurationMinutes int        `json:"duration_minutes"`
	StartAt         time.Time  `json:"start_at"`
	EndAt           time.Time  `json:"end_at"`
	State           string     `json:"state"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (r *ReservationResponse) FromModel(m model.Reservation, cal *calendar.Calendar) {
	r.ID = m.ID
	r.ResourceID = m.ResourceID
	r.OwnerID = m.OwnerID
	r.Date = cal.FormatDate(m.Start)
	r.Start = cal.FormatTime(m.Start)
	r.End = cal.FormatTime(m.End)
	r.DurationMinutes = calendar.Minutes(m.End.Sub(m.Start))
	r.StartAt = cal.In(m.Start)
	r.EndAt = cal.In(m.End)
	r.State = string(m.State)
	r.CreatedAt = cal.In(m.CreatedAt)

	if m.FinishedAt != nil {
		finishedAt := cal.In(*m.FinishedAt)
		r.FinishedAt = &finishedAt
	}
}

func FromModels(models []model.Reservation, cal *calendar.Calendar) []ReservationResponse {
	res := make([]ReservationResponse, len(models))
	for i, m := range models {
		res[i].FromModel(m, cal)
	}

	return res
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, cal *calendar.Calendar, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)
	r.Reservations = FromModels(models, cal)
}
