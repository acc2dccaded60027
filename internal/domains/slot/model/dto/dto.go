package dto

import (
	"time"

	"wsb/internal/domains/slot/model"
	"wsb/shared/calendar"
)

type SlotResponse struct {
	Start              string    `json:"start"`
	StartAt            time.Time `json:"start_at"`
	MaxDurationMinutes int       `json:"max_duration_minutes"`
}

type SlotsResponse struct {
	ResourceID int64          `json:"resource_id"`
	Date       string         `json:"date"`
	Slots      []SlotResponse `json:"slots"`
}

func (r *SlotsResponse) FromModels(resourceID int64, date string, slots []model.Slot, cal *calendar.Calendar) {
	r.ResourceID = resourceID
	r.Date = date
	r.Slots = make([]SlotResponse, len(slots))

	for i, s := range slots {
		r.Slots[i] = SlotResponse{
			Start:              cal.FormatTime(s.Start),
			StartAt:            s.Start,
			MaxDurationMinutes: s.MaxDurationMinutes,
		}
	}
}

type CellResponse struct {
	Start         string       `json:"start"`
	Status        model.Status `json:"status"`
	ReservationID int64        `json:"reservation_id,omitempty"`
	OwnerID       string       `json:"owner_id,omitempty"`
}

type HeatmapRow struct {
	ResourceID   int64          `json:"resource_id"`
	ResourceName string         `json:"resource_name"`
	CategoryName string         `json:"category_name"`
	Cells        []CellResponse `json:"cells"`
}

type HeatmapResponse struct {
	Date  string       `json:"date"`
	Times []string     `json:"times"`
	Rows  []HeatmapRow `json:"rows"`
}

func CellsFromModels(cells []model.Cell, cal *calendar.Calendar) []CellResponse {
	res := make([]CellResponse, len(cells))
	for i, c := range cells {
		res[i] = CellResponse{
			Start:         cal.FormatTime(c.Start),
			Status:        c.Status,
			ReservationID: c.ReservationID,
			OwnerID:       c.OwnerID,
		}
	}

	return res
}
