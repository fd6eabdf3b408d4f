package app

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"

	"github.com/Alijeyrad/clinicdesk_backend/config"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/authorize"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/database"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/email"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/mongodb"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/observability"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/phone"
	redispkg "github.com/Alijeyrad/clinicdesk_backend/pkg/redis"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/sms"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/util/password"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvidePostgres),
	fx.Provide(ProvideSQLDriver),
	fx.Provide(ProvideMongo),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideAuthorization),
	fx.Provide(ProvideGate),
	fx.Provide(ProvideEmailClient),
	fx.Provide(ProvideSMSClient),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideBookingMetrics),
	fx.Provide(ProvideNatsClient),
	fx.Provide(ProvideClinicLocation),
	fx.Provide(ProvidePhoneNormalizer),
	fx.Provide(ProvidePasswordHasher),
)

func ProvidePostgres(lc fx.Lifecycle, cfg *config.Config) (*sql.DB, error) {
	db, err := database.Open(context.Background(), cfg.Database)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing main database connection")
			return db.Close()
		},
	})
	return db, nil
}

func ProvideSQLDriver(db *sql.DB) *entsql.Driver {
	return database.NewDriver(db)
}

func ProvideMongo(lc fx.Lifecycle, cfg *config.Config) (*mongo.Database, error) {
	client, db, err := mongodb.Connect(context.Background(), cfg.Mongo)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("disconnecting MongoDB")
			return client.Disconnect(ctx)
		},
	})
	return db, nil
}

func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	rdb, err := redispkg.NewRedis(context.Background(), cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

// ProvideAuthorization builds the casbin enforcer. With authorization.policy_file
// set the policy is read from CSV and the defaults are seeded in memory;
// otherwise policies live in the casbin database and are seeded by
// `system migrate`.
func ProvideAuthorization(lc fx.Lifecycle, cfg *config.Config) (authorize.IAuthorization, error) {
	var (
		baseAuth authorize.IAuthorization
		cleanup  = func(context.Context) {}
	)

	if cfg.Authorization.PolicyFile != "" {
		enforcer, err := authorize.NewFileEnforcer(cfg.Authorization.CasbinModelPath, cfg.Authorization.PolicyFile)
		if err != nil {
			return nil, err
		}
		if baseAuth, err = authorize.NewAuthorization(enforcer); err != nil {
			return nil, err
		}
		if err := authorize.SeedDefaultPolicies(context.Background(), baseAuth); err != nil {
			return nil, err
		}
	} else {
		enforcer, stop, err := authorize.NewEnforcer(cfg.Authorization.CasbinModelPath, database.DSN(cfg.CasbinDatabase))
		if err != nil {
			return nil, err
		}
		if baseAuth, err = authorize.NewAuthorization(enforcer); err != nil {
			stop(context.Background())
			return nil, err
		}
		cleanup = stop
	}

	auth := baseAuth
	if cfg.Authorization.EnableAudit {
		auth = authorize.NewAuditedAuthorization(baseAuth, slog.Default())
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("cleaning up Casbin enforcer")
			cleanup(ctx)
			return nil
		},
	})
	return auth, nil
}

func ProvideGate(auth authorize.IAuthorization) *authorize.Gate {
	return authorize.NewGate(auth)
}

func ProvideEmailClient(cfg *config.Config) (*email.Client, error) {
	return email.NewFromCentral(cfg)
}

func ProvideSMSClient(cfg *config.Config) (*sms.Client, error) {
	return sms.NewFromConfig(cfg.SMS)
}

// ProvideNatsClient returns a nil connection when nats.url is empty; booking
// events and the notification worker are then disabled.
func ProvideNatsClient(lc fx.Lifecycle, cfg *config.Config) (*nats.Conn, error) {
	if cfg.Nats.URL == "" {
		slog.Info("nats url not set, booking events disabled")
		return nil, nil
	}
	nc, err := nats.Connect(cfg.Nats.URL,
		nats.Name("clinicdesk"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("draining NATS connection")
			return nc.Drain()
		},
	})
	return nc, nil
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.FromCentralConfig(cfg))
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}

// ProvideBookingMetrics depends on the provider so instruments bind to the
// installed meter when telemetry is on.
func ProvideBookingMetrics(_ *observability.Provider) (*observability.BookingMetrics, error) {
	return observability.NewBookingMetrics()
}

func ProvideClinicLocation(cfg *config.Config) (*time.Location, error) {
	return cfg.Clinic.Location()
}

func ProvidePhoneNormalizer(cfg *config.Config) *phone.Normalizer {
	return phone.NewNormalizer(cfg.Clinic.PhoneRegion)
}

func ProvidePasswordHasher(cfg *config.Config) *password.Hasher {
	return password.NewHasher(password.ParamsFromConfig(cfg.Password))
}
