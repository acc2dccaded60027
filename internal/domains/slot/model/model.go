package model

import "time"

// Status of a grid slot as shown on the daily heat-map.
type Status string

const (
	StatusFree         Status = "FREE"
	StatusBookedFuture Status = "BOOKED_FUTURE"
	StatusInUse        Status = "IN_USE"
	StatusFinished     Status = "FINISHED"
)

// Slot is a feasible start on the grid and the longest reservation that can
// begin there.
type Slot struct {
	Start              time.Time
	MaxDurationMinutes int
}

// Cell is one step-sized column of a heat-map row.
type Cell struct {
	Start         time.Time
	Status        Status
	ReservationID int64
	OwnerID       string
}
