package channel

//go:generate go run go.uber.org/mock/mockgen -source=./channel.go -destination=../mocks/channel_mock.go -package=mocks

import (
	"context"
	"time"

	catalogModel "wsb/internal/domains/catalog/model"
	"wsb/internal/domains/notification/model"
	resModel "wsb/internal/domains/reservation/model"
)

// Notice is everything a channel needs to tell the owner about one event.
type Notice struct {
	EventID      int64
	EventType    model.EventType
	Reservation  resModel.Reservation
	ResourceName string
	Recipient    catalogModel.Principal
	// ExtendBy is the extension currently on offer; zero when none is possible.
	ExtendBy time.Duration
}

// Channel delivers notices over one outbound medium. Send must honour the
// context deadline.
type Channel interface {
	Kind() model.Channel
	// Address returns the recipient's address on this channel, or "" when
	// the owner has none.
	Address(principal catalogModel.Principal) string
	// Enabled reports whether the owner opted in to this channel.
	Enabled(principal catalogModel.Principal) bool
	Send(ctx context.Context, notice Notice) error
}
