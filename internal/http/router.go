package http

import (
	"log/slog"
	"time"

	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/http/handlers"
	"github.com/geocoder89/userhub/internal/http/middlewares"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RouterDeps carries everything the router wires together. Store and
// Ping are required; Cache and JWT may be nil (redis-less runs, and
// the authenticated /api/user route disabled respectively).
type RouterDeps struct {
	Log     *slog.Logger
	Cfg     config.Config
	Store   handlers.UsersStore
	Cache   handlers.ListCache
	JWT     middlewares.TokenVerifier
	Metrics *observability.Prom
	Ping    func() error
}

func NewRouter(d RouterDeps) *gin.Engine {
	if d.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(d.Log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.Cfg.CORSOrigins))
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(otelgin.Middleware("userhub"))

	if d.Metrics != nil {
		r.Use(d.Metrics.GinHandleMiddleware())
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{})))
	}

	// health
	h := handlers.NewHealthHandler(d.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	// wire up handlers
	usersHandler := handlers.NewUsersHandlerWithCache(d.Store, d.Cache)

	api := r.Group("/api")
	api.Use(middlewares.RequireJSON())

	createLimiter := middlewares.NewRateLimiter(20, time.Minute)

	api.GET("/users", usersHandler.ListUsers)
	api.GET("/users/:id", usersHandler.GetUserByID)
	api.POST("/addnew", createLimiter.ByIP(), usersHandler.CreateUser)
	api.PUT("/usersupdate/:id", usersHandler.UpdateUser)
	api.DELETE("/usersdelete/:id", usersHandler.DeleteUser)

	// session-authenticated principal route; separate from the CRUD flow
	if d.JWT != nil {
		authMw := middlewares.NewAuthMiddleware(d.JWT)
		meHandler := handlers.NewMeHandler(d.Store)
		api.GET("/user", authMw.RequireAuth(), meHandler.CurrentUser)
	}

	return r
}
