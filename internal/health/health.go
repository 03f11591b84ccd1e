// Package health serves the liveness and readiness probes shared by the blog
// API and the address service.
package health

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDisabled  = "disabled"
)

// Checker reports the state of a service's backing stores.
type Checker struct {
	service string
	db      *gorm.DB
	redis   *redis.Client
}

// NewChecker returns a checker for service. A nil redis client is reported as
// disabled and does not affect readiness.
func NewChecker(service string, db *gorm.DB, rdb *redis.Client) *Checker {
	return &Checker{service: service, db: db, redis: rdb}
}

// Register mounts /health/live and /health/ready on app.
func (h *Checker) Register(app fiber.Router) {
	app.Get("/health/live", h.Live)
	app.Get("/health/ready", h.Ready)
}

// Live handles liveness probe requests.
func (h *Checker) Live(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"service": h.service,
		"status":  "up",
		"time":    time.Now(),
	})
}

// Ready handles readiness probe requests. Only the database gates readiness;
// the cache is optional.
func (h *Checker) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := h.databaseStatus(ctx)
	redisStatus := statusDisabled
	if h.redis != nil {
		redisStatus = statusHealthy
		if err := h.redis.Ping(ctx).Err(); err != nil {
			redisStatus = statusUnhealthy
		}
	}

	status := fiber.StatusOK
	overall := statusHealthy
	if dbStatus != statusHealthy {
		status = fiber.StatusServiceUnavailable
		overall = statusUnhealthy
	}

	return c.Status(status).JSON(fiber.Map{
		"service": h.service,
		"status":  overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

func (h *Checker) databaseStatus(ctx context.Context) string {
	if h.db == nil {
		return statusUnhealthy
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return statusUnhealthy
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return statusUnhealthy
	}
	return statusHealthy
}
