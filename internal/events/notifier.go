package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Alijeyrad/clinicdesk_backend/internal/service/booking"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/email"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/phone"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/sms"
)

const (
	notifyTimeout = 30 * time.Second
	dateLayout    = "Mon 2 Jan 2006, 15:04"
)

type SMSSender interface {
	SendBookingStatus(ctx context.Context, msg sms.BookingStatus) error
}

type NotifierConfig struct {
	ClinicName  string
	NotifyEmail string
	Location    *time.Location
}

// Notifier tells patients about confirmed or rejected bookings and tells the
// clinic inbox about new online requests.
type Notifier struct {
	sms    SMSSender
	mail   email.Sender
	phones *phone.Normalizer
	cfg    NotifierConfig

	subs []*nats.Subscription
}

func NewNotifier(smsCli SMSSender, mail email.Sender, phones *phone.Normalizer, cfg NotifierConfig) *Notifier {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if phones == nil {
		phones = phone.NewNormalizer("")
	}
	return &Notifier{sms: smsCli, mail: mail, phones: phones, cfg: cfg}
}

// Subscribe attaches the notifier to the booking subjects on nc.
func (n *Notifier) Subscribe(nc *nats.Conn) error {
	statusSub, err := nc.Subscribe(SubjectBookingStatus+".*", n.dispatch(n.HandleStatusChanged))
	if err != nil {
		return err
	}
	createdSub, err := nc.Subscribe(SubjectBookingCreated+".*", n.dispatch(n.HandleCreated))
	if err != nil {
		_ = statusSub.Unsubscribe()
		return err
	}
	n.subs = append(n.subs, statusSub, createdSub)
	slog.Info("notification_worker: started")
	return nil
}

func (n *Notifier) Unsubscribe() {
	for _, s := range n.subs {
		if err := s.Unsubscribe(); err != nil {
			slog.Debug("notification_worker: unsubscribe failed", "subject", s.Subject, "error", err)
		}
	}
	n.subs = nil
}

func (n *Notifier) dispatch(handle func(context.Context, BookingEvent)) nats.MsgHandler {
	return func(msg *nats.Msg) {
		var ev BookingEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			slog.Warn("notification_worker: malformed event", "subject", msg.Subject, "error", err)
			return
		}
		if ev.BookingID == "" {
			ev.BookingID = bookingIDFromSubject(msg.Subject)
		}
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		handle(ctx, ev)
	}
}

// HandleStatusChanged notifies the patient when a booking becomes confirmed
// or rejected. Other transitions are ignored.
func (n *Notifier) HandleStatusChanged(ctx context.Context, ev BookingEvent) {
	if ev.Status != booking.StatusConfirmed && ev.Status != booking.StatusRejected {
		return
	}
	if ev.Status == ev.PreviousStatus {
		return
	}
	date := ev.AppointmentDate.In(n.cfg.Location).Format(dateLayout)

	if n.sms != nil {
		err := n.sms.SendBookingStatus(ctx, sms.BookingStatus{
			Phone:  n.phones.Display(ev.CustomerPhone),
			Name:   ev.CustomerName,
			Date:   date,
			Status: string(ev.Status),
		})
		if err != nil {
			slog.WarnContext(ctx, "notification_worker: sms failed", "booking_id", ev.BookingID, "error", err)
		}
	}

	if ev.Email == "" || n.mail == nil || !n.mail.Enabled() {
		return
	}
	msg, err := email.BuildBookingStatusEmail(ev.Email, email.BookingEmailData{
		BookingID:    ev.BookingID,
		ClinicName:   n.cfg.ClinicName,
		CustomerName: ev.CustomerName,
		Date:         date,
		Status:       string(ev.Status),
	})
	if err != nil {
		slog.ErrorContext(ctx, "notification_worker: render status email", "booking_id", ev.BookingID, "error", err)
		return
	}
	if err := n.mail.Send(ctx, msg); err != nil {
		slog.WarnContext(ctx, "notification_worker: email failed", "booking_id", ev.BookingID, "error", err)
	}
}

// HandleCreated forwards new online requests to the clinic inbox.
func (n *Notifier) HandleCreated(ctx context.Context, ev BookingEvent) {
	if ev.BookingType != booking.TypeOnline || n.cfg.NotifyEmail == "" {
		return
	}
	if n.mail == nil || !n.mail.Enabled() {
		return
	}
	msg, err := email.BuildNewRequestEmail(n.cfg.NotifyEmail, email.BookingEmailData{
		BookingID:    ev.BookingID,
		Email:        ev.Email,
		ClinicName:   n.cfg.ClinicName,
		CustomerName: ev.CustomerName,
		Phone:        ev.CustomerPhone,
		Date:         ev.AppointmentDate.In(n.cfg.Location).Format(dateLayout),
		Notes:        ev.Notes,
	})
	if err != nil {
		slog.ErrorContext(ctx, "notification_worker: render request email", "booking_id", ev.BookingID, "error", err)
		return
	}
	if err := n.mail.Send(ctx, msg); err != nil {
		slog.WarnContext(ctx, "notification_worker: clinic email failed", "booking_id", ev.BookingID, "error", err)
	}
}
