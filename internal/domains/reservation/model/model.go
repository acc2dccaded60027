package model

import "time"

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID         = "id"
	FieldResourceID = "resource_id"
	FieldOwnerID    = "owner_id"
	FieldStartAt    = "start_at"
	FieldEndAt      = "end_at"
	FieldState      = "state"
	FieldFinishedAt = "finished_at"
	FieldCreatedAt  = "created_at"
)

type State string

const (
	StateActive    State = "ACTIVE"
	StateCancelled State = "CANCELLED"
	StateFinished  State = "FINISHED"
)

// Reservation is a hold on a resource over the half-open interval [Start, End).
type Reservation struct {
	ID         int64      `db:"id"`
	ResourceID int64      `db:"resource_id"`
	OwnerID    string     `db:"owner_id"`
	Start      time.Time  `db:"start_at"`
	End        time.Time  `db:"end_at"`
	State      State      `db:"state"`
	FinishedAt *time.Time `db:"finished_at"`
	CreatedAt  time.Time  `db:"created_at"`
}

// EffectiveEnd is the instant after which the resource is free again.
func (r Reservation) EffectiveEnd() time.Time {
	if r.State == StateFinished && r.FinishedAt != nil {
		return *r.FinishedAt
	}

	return r.End
}

func (r Reservation) IsActive() bool {
	return r.State == StateActive
}

// Occupies reports whether the reservation holds its resource at all.
func (r Reservation) Occupies() bool {
	return r.State != StateCancelled && r.EffectiveEnd().After(r.Start)
}

// Overlaps reports whether the occupied interval intersects [start, end).
func (r Reservation) Overlaps(start, end time.Time) bool {
	return r.Occupies() && r.Start.Before(end) && r.EffectiveEnd().After(start)
}

func (r Reservation) CanBeManagedBy(actorID string, isAdmin bool) bool {
	return isAdmin || (actorID != "" && actorID == r.OwnerID)
}

func (r Reservation) Interval() Interval {
	return Interval{
		ReservationID: r.ID,
		OwnerID:       r.OwnerID,
		Start:         r.Start,
		End:           r.EffectiveEnd(),
	}
}

// Interval is a conflicting occupied span reported with a CONFLICT outcome.
type Interval struct {
	ReservationID int64     `db:"id"            json:"reservation_id"`
	OwnerID       string    `db:"owner_id"      json:"owner_id"`
	Start         time.Time `db:"start_at"      json:"start"`
	End           time.Time `db:"effective_end" json:"end"`
}
