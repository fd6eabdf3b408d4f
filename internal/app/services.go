package app

import (
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/nats-io/nats.go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"

	"github.com/Alijeyrad/clinicdesk_backend/config"
	"github.com/Alijeyrad/clinicdesk_backend/internal/events"
	"github.com/Alijeyrad/clinicdesk_backend/internal/service/accounting"
	"github.com/Alijeyrad/clinicdesk_backend/internal/service/auth"
	"github.com/Alijeyrad/clinicdesk_backend/internal/service/booking"
	"github.com/Alijeyrad/clinicdesk_backend/internal/service/staff"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/authorize"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/observability"
	pasetotoken "github.com/Alijeyrad/clinicdesk_backend/pkg/paseto"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/phone"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/util/password"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		fx.Annotate(
			auth.NewRedisSessions,
			fx.As(new(auth.SessionStore)),
			fx.As(new(staff.SessionRevoker)),
		),
		ProvideEventPublisher,
		ProvideBookingStore,
		ProvideBookingService,
		ProvideLedger,
		ProvideAccountingService,
		ProvideStaffStore,
		ProvideStaffService,
		ProvideAuthService,
		ProvidePasetoManager,
	),
)

func ProvideEventPublisher(nc *nats.Conn) *events.Publisher {
	return events.NewPublisher(nc)
}

func ProvideBookingStore(db *mongo.Database) booking.Store {
	return booking.NewMongoStore(db)
}

func ProvideBookingService(
	store booking.Store,
	gate *authorize.Gate,
	pub *events.Publisher,
	metrics *observability.BookingMetrics,
	phones *phone.Normalizer,
	loc *time.Location,
) booking.Service {
	return booking.New(booking.Deps{
		Store:     store,
		Gate:      gate,
		Publisher: pub,
		Metrics:   metrics,
		Phones:    phones,
		Location:  loc,
	})
}

func ProvideLedger(drv *entsql.Driver) accounting.Ledger {
	return accounting.NewPostgresLedger(drv)
}

func ProvideAccountingService(ledger accounting.Ledger, bookings booking.Service, gate *authorize.Gate, loc *time.Location) accounting.Service {
	return accounting.New(ledger, bookings, gate, loc)
}

func ProvideStaffStore(drv *entsql.Driver) staff.Store {
	return staff.NewPostgresStore(drv)
}

func ProvideStaffService(
	store staff.Store,
	gate *authorize.Gate,
	hasher *password.Hasher,
	revoker staff.SessionRevoker,
	cfg *config.Config,
) staff.Service {
	return staff.New(staff.Deps{
		Store:             store,
		Gate:              gate,
		Hasher:            hasher,
		Revoker:           revoker,
		GeneratedPwLength: cfg.Authentication.GeneratedPasswordLength,
	})
}

func ProvideAuthService(
	staffSvc staff.Service,
	sessions auth.SessionStore,
	paseto *pasetotoken.Manager,
	cfg *config.Config,
) auth.Service {
	return auth.New(staffSvc, sessions, paseto, auth.Options{
		MaxLoginAttempts: cfg.Authentication.MaxLoginAttempts,
		LockDuration:     time.Duration(cfg.Authentication.LockMinutes) * time.Minute,
	})
}

func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	return pasetotoken.NewPasetoManager(cfg)
}
