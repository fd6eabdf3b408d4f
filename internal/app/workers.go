package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/Alijeyrad/clinicdesk_backend/config"
	"github.com/Alijeyrad/clinicdesk_backend/internal/events"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/email"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/phone"
	svcsms "github.com/Alijeyrad/clinicdesk_backend/pkg/sms"
)

// WorkerModule registers all NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc       fx.Lifecycle
	Cfg      *config.Config
	NC       *nats.Conn
	SMS      *svcsms.Client
	Email    *email.Client
	Phones   *phone.Normalizer
	Location *time.Location
}

func RegisterWorkers(p WorkerParams) {
	if p.NC == nil {
		slog.Info("notification_worker: disabled, no NATS connection")
		return
	}

	notifier := events.NewNotifier(p.SMS, p.Email, p.Phones, events.NotifierConfig{
		ClinicName:  p.Cfg.Clinic.Name,
		NotifyEmail: p.Cfg.Clinic.NotifyEmail,
		Location:    p.Location,
	})

	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return notifier.Subscribe(p.NC)
		},
		OnStop: func(ctx context.Context) error {
			// The connection itself is drained by ProvideNatsClient.
			notifier.Unsubscribe()
			return nil
		},
	})
}
