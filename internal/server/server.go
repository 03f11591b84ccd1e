// Package server contains the HTTP handlers and routing of the blog API.
package server

import (
	"context"
	"time"

	_ "blogmesh/docs" // swagger docs
	"blogmesh/internal/addressclient"
	"blogmesh/internal/auth"
	"blogmesh/internal/bootstrap"
	"blogmesh/internal/cache"
	"blogmesh/internal/config"
	"blogmesh/internal/database"
	"blogmesh/internal/featureflags"
	"blogmesh/internal/health"
	"blogmesh/internal/httputil"
	"blogmesh/internal/middleware"
	"blogmesh/internal/models"
	"blogmesh/internal/notifications"
	"blogmesh/internal/repository"
	"blogmesh/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	db              *gorm.DB
	redis           *redis.Client
	app             *fiber.App
	promMiddleware  *fiberprometheus.FiberPrometheus
	rateLimiter     *middleware.RateLimiter
	featureFlags    *featureflags.Manager
	health          *health.Checker
	notifier        *notifications.Notifier
	userRepo        repository.UserRepository
	authService     *service.AuthService
	userService     *service.UserService
	postService     *service.PostService
	categoryService *service.CategoryService
	commentService  *service.CommentService
}

// NewServer connects to the database, the read replica, Redis and the
// address service described by cfg, then builds the server.
func NewServer(cfg *config.Config) (*Server, error) {
	rt, err := bootstrap.InitRuntime(cfg, bootstrap.Options{Schema: database.BlogSchema, EnsureDevAdmin: true})
	if err != nil {
		return nil, err
	}

	addresses := addressclient.NewHTTPClient(cfg.AddressServiceURL, cfg.AddressClientTimeout())
	srv, err := NewServerWithDeps(cfg, rt.DB, rt.Redis, addresses, repository.WithReadReplica(rt.ReadDB))
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	return srv, nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
// redisClient may be nil; caching and token revocation are then disabled.
func NewServerWithDeps(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	addresses addressclient.Client,
	opts ...repository.Option,
) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, auth.ErrMissingSecret
	}

	store := cache.NewStore(redisClient)
	opts = append([]repository.Option{repository.WithCache(store)}, opts...)

	userRepo := repository.NewUserRepository(db, opts...)
	postRepo := repository.NewPostRepository(db, opts...)
	categoryRepo := repository.NewCategoryRepository(db, opts...)
	commentRepo := repository.NewCommentRepository(db, opts...)

	flags := featureflags.NewManager(cfg.FeatureFlags)
	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL(), cfg.RefreshTTL())
	enricher := service.NewEnricher(addresses, flags, cfg.EnrichConcurrency)

	s := &Server{
		config:          cfg,
		db:              db,
		redis:           redisClient,
		promMiddleware:  middleware.InitMetrics("blogmesh-api"),
		rateLimiter:     middleware.NewRateLimiter(redisClient, cfg.Env),
		featureFlags:    flags,
		health:          health.NewChecker("blogmesh-api", db, redisClient),
		notifier:        notifications.NewNotifier(redisClient),
		userRepo:        userRepo,
		authService:     service.NewAuthService(userRepo, tokens, auth.NewRevoker(store)),
		userService:     service.NewUserService(userRepo, addresses, enricher),
		postService:     service.NewPostService(postRepo, userRepo, categoryRepo, enricher, service.NewImageStore(cfg)),
		categoryService: service.NewCategoryService(categoryRepo),
		commentService:  service.NewCommentService(commentRepo, postRepo, userRepo),
	}
	return s, nil
}

// App builds the fully wired fiber app without starting a listener.
func (s *Server) App() *fiber.App {
	if s.app == nil {
		limit := s.config.MaxUploadBytes()
		if limit <= 0 {
			limit = service.DefaultImageMaxUploadSizeMB << 20
		}
		// Room for a maximum size image plus multipart framing.
		app := httputil.NewApp("Blog API", int(limit)+1<<20)
		s.SetupMiddleware(app)
		s.SetupRoutes(app)
		s.app = app
	}
	return s.app
}

// SetupMiddleware installs the global middleware chain.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Message: "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes registers every blog API route.
func (s *Server) SetupRoutes(app *fiber.App) {
	s.health.Register(app)
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/api/swagger/*", swagger.HandlerDefault)

	v1 := app.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	authRoutes.Post("/signUp", s.rateLimiter.Limit(5, 10*time.Minute, "signup"), s.SignUp)
	authRoutes.Post("/signIn", s.rateLimiter.Limit(10, 5*time.Minute, "signin"), s.SignIn)
	authRoutes.Post("/refresh", s.Refresh)
	authRoutes.Post("/logout", s.AuthRequired(), s.Logout)

	// Static segments are registered before the matching /:userId routes.
	users := v1.Group("/user", s.AuthRequired())
	users.Get("/userRole", s.GetUsersByRole)
	users.Get("/", s.GetUsers)
	users.Get("/:userId", s.GetUser)
	users.Put("/:userId", s.SelfOrAdminRequired("userId"), s.UpdateUser)
	users.Delete("/:userId", s.SelfOrAdminRequired("userId"), s.DeleteUser)

	admin := v1.Group("/admin", s.AuthRequired())
	admin.Get("/adminRole", s.GetAdminUser)
	admin.Get("/feature-flags", s.AdminRequired(), s.GetFeatureFlags)

	posts := v1.Group("/post")
	posts.Post("/user/:userId/category/:categoryId/posts", s.AuthRequired(), s.CreatePost)
	posts.Get("/user/:userId/posts", s.GetPostsByUser)
	posts.Get("/category/:categoryId/posts", s.GetPostsByCategory)
	posts.Get("/posts/search/:keyword", s.rateLimiter.Limit(30, time.Minute, "search"), s.SearchPosts)
	posts.Get("/posts", s.GetPosts)
	posts.Get("/posts/:postId", s.GetPost)
	posts.Put("/posts/:postId", s.AuthRequired(), s.UpdatePost)
	posts.Delete("/posts/:postId", s.AuthRequired(), s.DeletePost)
	posts.Get("/postId/:postId/commenters", s.GetPostCommenters)
	posts.Post("/image/upload/:postId", s.AuthRequired(), s.UploadPostImage)
	posts.Get("/image/:imageName", s.ServePostImage)

	categories := v1.Group("/category")
	categories.Get("/", s.GetCategories)
	categories.Get("/:categoryId", s.GetCategory)
	categories.Post("/", s.AuthRequired(), s.AdminRequired(), s.CreateCategory)
	categories.Put("/:categoryId", s.AuthRequired(), s.AdminRequired(), s.UpdateCategory)
	categories.Delete("/:categoryId", s.AuthRequired(), s.AdminRequired(), s.DeleteCategory)

	comments := v1.Group("/comment")
	comments.Post("/user/:userId/post/:postId/comments", s.AuthRequired(), s.CreateComment)
	comments.Get("/comments", s.GetComments)
	comments.Get("/:commentId", s.GetComment)
	comments.Put("/:commentId", s.AuthRequired(), s.UpdateComment)
	comments.Delete("/:commentId", s.AuthRequired(), s.DeleteComment)
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("blog API starting", "port", s.config.Port, "env", s.config.Env)
	return app.Listen(":" + s.config.Port)
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

	middleware.Logger.Info("blog API shutdown complete")
	return nil
}
