package channel

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"text/template"

	"wsb/config"
	"wsb/infras/kafka"
	catalogModel "wsb/internal/domains/catalog/model"
	"wsb/internal/domains/notification/model"
	"wsb/shared/calendar"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	HeaderMessageID = "message_id"
	HeaderEventID   = "event_id"
)

// EmailMessage is the payload consumed by the mail gateway.
type EmailMessage struct {
	To            string          `json:"to"`
	Subject       string          `json:"subject"`
	Text          string          `json:"text"`
	ReservationID int64           `json:"reservation_id"`
	EventType     model.EventType `json:"event_type"`
}

var (
	subjects = map[model.EventType]string{
		model.EventStart: "Your reservation of {{.Resource}} starts at {{.Start}}",
		model.EventEnd:   "Your reservation of {{.Resource}} ends at {{.End}}",
	}

	bodies = map[model.EventType]string{
		model.EventStart: `Hello {{.Name}},

your reservation of {{.Resource}} on {{.Date}} from {{.Start}} to {{.End}} is starting.
Please finish it early if you no longer need the slot.
`,
		model.EventEnd: `Hello {{.Name}},

your reservation of {{.Resource}} on {{.Date}} from {{.Start}} to {{.End}} is ending.
{{if .ExtendMinutes}}The resource is free afterwards, you can extend by {{.ExtendMinutes}} minutes until {{.ExtendUntil}}.
{{else}}It cannot be extended, the next slot is taken or the working day is over.
{{end}}`,
	}
)

type emailView struct {
	Name          string
	Resource      string
	Date          string
	Start         string
	End           string
	ExtendMinutes int
	ExtendUntil   string
}

type emailChannel struct {
	client   kafka.Client
	topic    string
	cal      *calendar.Calendar
	subjects map[model.EventType]*template.Template
	bodies   map[model.EventType]*template.Template
}

// NewEmail publishes rendered mail to the gateway topic.
func NewEmail(cfg *config.Config, client kafka.Client, cal *calendar.Calendar) Channel {
	ch := &emailChannel{
		client:   client,
		topic:    cfg.Notification.EmailTopic,
		cal:      cal,
		subjects: make(map[model.EventType]*template.Template, len(subjects)),
		bodies:   make(map[model.EventType]*template.Template, len(bodies)),
	}

	for eventType, text := range subjects {
		ch.subjects[eventType] = template.Must(template.New("subject_" + string(eventType)).Parse(text))
	}

	for eventType, text := range bodies {
		ch.bodies[eventType] = template.Must(template.New("body_" + string(eventType)).Parse(text))
	}

	return ch
}

func (e *emailChannel) Kind() model.Channel {
	return model.ChannelEmail
}

func (e *emailChannel) Address(principal catalogModel.Principal) string {
	return principal.Email
}

func (e *emailChannel) Enabled(principal catalogModel.Principal) bool {
	return principal.NotifyEmail
}

func (e *emailChannel) Send(ctx context.Context, notice Notice) error {
	message, err := e.render(notice)
	if err != nil {
		return err
	}

	err = e.client.SendMessages(ctx, e.topic, kafka.Message{
		Key:   strconv.FormatInt(notice.Reservation.ID, 10),
		Value: message,
		Headers: map[string]string{
			HeaderMessageID: uuid.NewString(),
			HeaderEventID:   strconv.FormatInt(notice.EventID, 10),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish email: %w", err)
	}

	log.Debug().
		Int64("event_id", notice.EventID).
		Int64("reservation_id", notice.Reservation.ID).
		Str("event_type", string(notice.EventType)).
		Msg("email notification published")

	return nil
}

// render builds the mail for a notice without sending it.
func (e *emailChannel) render(notice Notice) (EmailMessage, error) {
	subject, okSubject := e.subjects[notice.EventType]
	body, okBody := e.bodies[notice.EventType]

	if !okSubject || !okBody {
		return EmailMessage{}, fmt.Errorf("no email template for event type %q", notice.EventType)
	}

	res := notice.Reservation
	view := emailView{
		Name:     notice.Recipient.FullName,
		Resource: notice.ResourceName,
		Date:     e.cal.FormatDate(res.Start),
		Start:    e.cal.FormatTime(res.Start),
		End:      e.cal.FormatTime(res.End),
	}

	if notice.ExtendBy > 0 {
		view.ExtendMinutes = calendar.Minutes(notice.ExtendBy)
		view.ExtendUntil = e.cal.FormatTime(res.End.Add(notice.ExtendBy))
	}

	var subjectBuf, bodyBuf bytes.Buffer

	if err := subject.Execute(&subjectBuf, view); err != nil {
		return EmailMessage{}, fmt.Errorf("failed to render email subject: %w", err)
	}

	if err := body.Execute(&bodyBuf, view); err != nil {
		return EmailMessage{}, fmt.Errorf("failed to render email body: %w", err)
	}

	return EmailMessage{
		To:            e.Address(notice.Recipient),
		Subject:       subjectBuf.String(),
		Text:          bodyBuf.String(),
		ReservationID: res.ID,
		EventType:     notice.EventType,
	}, nil
}

// NewChannels returns every outbound channel the dispatcher routes to.
func NewChannels(cfg *config.Config, client kafka.Client, cal *calendar.Calendar) []Channel {
	return []Channel{NewEmail(cfg, client, cal)}
}
