package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	fiberredis "github.com/gofiber/storage/redis/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/clinicdesk_backend/config"
	"github.com/Alijeyrad/clinicdesk_backend/internal/api/http/handler"
	"github.com/Alijeyrad/clinicdesk_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/clinicdesk_backend/internal/service/accounting"
	"github.com/Alijeyrad/clinicdesk_backend/internal/service/auth"
	"github.com/Alijeyrad/clinicdesk_backend/internal/service/booking"
	"github.com/Alijeyrad/clinicdesk_backend/internal/service/staff"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/authorize"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg           *config.Config
	Redis         *redis.Client `optional:"true"`
	Gate          *authorize.Gate
	AuthSvc       auth.Service
	BookingSvc    booking.Service
	AccountingSvc accounting.Service
	StaffSvc      staff.Service
}

type Router struct {
	p       Params
	storage fiber.Storage
}

func NewRouter(p Params) *Router {
	r := &Router{p: p}
	if p.Redis != nil {
		r.storage = fiberredis.NewFromConnection(p.Redis)
	}
	return r
}

// Storage is the shared rate-limit storage, nil when Redis is absent.
func (r *Router) Storage() fiber.Storage { return r.storage }

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Initialize Middlewares
	authRequired := middleware.AuthRequired(r.p.AuthSvc, r.p.Cfg.Authentication.Cookie.Name)
	publicBookingLimit := middleware.NewPublicBookingLimiter(r.storage, r.p.Cfg.Server.PublicBookingLimit)

	// Permission helper
	requirePerm := func(res authorize.Resource, act authorize.Action) fiber.Handler {
		return middleware.RequirePermission(r.p.Gate, res, act)
	}

	// 3. Initialize Handlers
	authH := handler.NewAuthHandler(r.p.AuthSvc, r.p.Cfg.Authentication.Cookie)
	bookingH := handler.NewBookingHandler(r.p.BookingSvc)
	accountingH := handler.NewAccountingHandler(r.p.AccountingSvc)
	staffH := handler.NewStaffHandler(r.p.StaffSvc)

	api := app.Group("/api")

	// 4. Delegate to sub-files
	r.registerAuthRoutes(api, authH, authRequired)
	r.registerBookingRoutes(api, bookingH, authRequired, publicBookingLimit, requirePerm)
	r.registerAccountingRoutes(api, accountingH, authRequired, requirePerm)
	r.registerStaffRoutes(api, staffH, authRequired, requirePerm)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool { return authorize.IsPolicyHealthy() },
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
