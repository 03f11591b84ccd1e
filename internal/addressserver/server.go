// Package addressserver is the HTTP front of the address service. It owns the
// addresses table and is called by the blog API to enrich users and to remove
// a deleted user's address.
package addressserver

import (
	"context"

	"blogmesh/internal/bootstrap"
	"blogmesh/internal/cache"
	"blogmesh/internal/config"
	"blogmesh/internal/database"
	"blogmesh/internal/health"
	"blogmesh/internal/httputil"
	"blogmesh/internal/middleware"
	"blogmesh/internal/repository"
	"blogmesh/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds the address service dependencies.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	health         *health.Checker
	addressService *service.AddressService
}

// NewServer connects to the address database and Redis described by cfg.
func NewServer(cfg *config.Config) (*Server, error) {
	rt, err := bootstrap.InitRuntime(cfg, bootstrap.Options{Schema: database.AddressSchema})
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, rt.DB, rt.Redis, repository.WithReadReplica(rt.ReadDB)), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, opts ...repository.Option) *Server {
	opts = append([]repository.Option{repository.WithCache(cache.NewStore(redisClient))}, opts...)
	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("blogmesh-address"),
		health:         health.NewChecker("blogmesh-address", db, redisClient),
		addressService: service.NewAddressService(repository.NewAddressRepository(db, opts...)),
	}
}

// App builds the fully wired fiber app without starting a listener.
func (s *Server) App() *fiber.App {
	if s.app == nil {
		app := httputil.NewApp("Address Service", 0)
		s.SetupMiddleware(app)
		s.SetupRoutes(app)
		s.app = app
	}
	return s.app
}

// SetupMiddleware installs the global middleware chain. The service is only
// reachable by the blog API, so it carries no CORS or rate limiting.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}
	app.Use(middleware.StructuredLogger())
}

// SetupRoutes registers the address routes under /address/api.
func (s *Server) SetupRoutes(app *fiber.App) {
	s.health.Register(app)
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/address/api")
	api.Get("/userId/:userId", s.GetAddressByUser)
	api.Post("/userId/:userId", s.CreateAddress)
	api.Delete("/userId/:userId", s.DeleteAddressByUser)
	api.Get("/", s.GetAddresses)
	api.Get("/:id", s.GetAddress)
	api.Put("/:id", s.UpdateAddress)
	api.Delete("/:id", s.DeleteAddress)
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("address service starting", "port", s.config.AddressPort, "env", s.config.Env)
	return app.Listen(":" + s.config.AddressPort)
}

// Shutdown gracefully shuts down the server and closes its stores.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}
	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing database", "error", err)
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", "error", err)
		}
	}
	middleware.Logger.Info("address service shutdown complete")
	return nil
}
