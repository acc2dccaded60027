package model

import "time"

const (
	TableName  = "notification_events"
	EntityName = "notification_event"

	FieldID            = "id"
	FieldReservationID = "reservation_id"
	FieldEventType     = "event_type"
	FieldChannel       = "channel"
	FieldFireAt        = "fire_at"
	FieldStatus        = "status"
)

type EventType string

const (
	EventStart EventType = "START"
	EventEnd   EventType = "END"
)

type Channel string

const (
	ChannelEmail Channel = "EMAIL"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusDone       Status = "DONE"
	StatusFailed     Status = "FAILED"
)

var Statuses = []Status{StatusPending, StatusProcessing, StatusDone, StatusFailed}

// Event is one scheduled notification, unique per (reservation, type, channel).
type Event struct {
	ID            int64     `db:"id"`
	ReservationID int64     `db:"reservation_id"`
	EventType     EventType `db:"event_type"`
	Channel       Channel   `db:"channel"`
	FireAt        time.Time `db:"fire_at"`
	Status        Status    `db:"status"`
	LastError     *string   `db:"last_error"`
	Attempts      int       `db:"attempts"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// Outcome is the terminal result of dispatching one claimed event.
type Outcome struct {
	Status    Status
	Error     string
	Attempted bool
}

func Done() Outcome {
	return Outcome{Status: StatusDone}
}

func Sent() Outcome {
	return Outcome{Status: StatusDone, Attempted: true}
}

func Failed(reason string, attempted bool) Outcome {
	return Outcome{Status: StatusFailed, Error: reason, Attempted: attempted}
}
