// Package bootstrap opens the stores a service needs before it starts serving.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"blogmesh/internal/cache"
	"blogmesh/internal/config"
	"blogmesh/internal/database"
	"blogmesh/internal/middleware"
	"blogmesh/internal/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	Schema database.Schema
	// EnsureDevAdmin creates or promotes the development admin account.
	// Only the blog schema has a users table.
	EnsureDevAdmin bool
}

// Runtime holds the connections opened by InitRuntime.
type Runtime struct {
	DB *gorm.DB
	// ReadDB is nil when no replica is configured.
	ReadDB *gorm.DB
	// Redis is nil when REDIS_URL is unset or unreachable.
	Redis *redis.Client
}

// InitRuntime connects to the database, applies the schema and opens Redis.
func InitRuntime(cfg *config.Config, opts Options) (*Runtime, error) {
	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{Schema: opts.Schema, ApplySchema: true})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	rdb := cache.NewClient(cfg.RedisURL)
	if opts.EnsureDevAdmin {
		if err := ensureDevAdmin(cfg, db, cache.NewStore(rdb)); err != nil {
			if rdb != nil {
				_ = rdb.Close()
			}
			_ = database.Close(db)
			return nil, fmt.Errorf("failed to bootstrap development admin: %w", err)
		}
	}

	return &Runtime{
		DB:     db,
		ReadDB: database.ConnectReadReplica(cfg),
		Redis:  rdb,
	}, nil
}

// Close releases every connection held by the runtime.
func (r *Runtime) Close() error {
	var errs []error
	if r.Redis != nil {
		errs = append(errs, r.Redis.Close())
	}
	errs = append(errs, database.Close(r.ReadDB), database.Close(r.DB))
	return errors.Join(errs...)
}

// ensureDevAdmin creates the development admin, or promotes and resets the
// existing account and evicts its cached copy.
func ensureDevAdmin(cfg *config.Config, db *gorm.DB, users *cache.Store) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapAdmin {
		return nil
	}

	email := models.NormalizeEmail(cfg.DevAdminEmail)
	if email == "" {
		return fmt.Errorf("DEV_ADMIN_EMAIL must be set when DEV_BOOTSTRAP_ADMIN is enabled")
	}
	if cfg.DevAdminPassword == "" {
		return fmt.Errorf("DEV_ADMIN_PASSWORD must be set when DEV_BOOTSTRAP_ADMIN is enabled")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.DevAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	created := false
	var adminID uint
	err = db.Transaction(func(tx *gorm.DB) error {
		var admin models.User
		findErr := tx.Where("email = ?", email).First(&admin).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			admin = models.User{
				FirstName: "Dev",
				LastName:  "Admin",
				Contact:   1000000000,
				About:     "Development administrator",
				Email:     email,
				Password:  string(hashed),
				Role:      models.RoleAdmin,
			}
			created = true
			if err := tx.Create(&admin).Error; err != nil {
				return err
			}
			adminID = admin.ID
			return nil
		case findErr != nil:
			return findErr
		default:
			adminID = admin.ID
			return tx.Model(&models.User{}).Where("id = ?", admin.ID).
				Updates(map[string]any{"role": models.RoleAdmin, "password": string(hashed)}).Error
		}
	})
	if err != nil {
		return err
	}
	users.Invalidate(context.Background(), cache.UserKey(adminID))

	middleware.Logger.Info("development admin ensured", slog.String("email", email), slog.Bool("created", created))
	return nil
}
