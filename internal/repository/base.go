// Package repository implements the data access layer for the application.
package repository

import (
	"errors"
	"fmt"
	"strings"

	"blogmesh/internal/cache"
	"blogmesh/internal/models"
	"blogmesh/internal/pagination"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Option configures a repository.
type Option func(*base)

// WithReadReplica routes reads to db when it is non-nil.
func WithReadReplica(db *gorm.DB) Option {
	return func(b *base) {
		if db != nil {
			b.read = db
		}
	}
}

// WithCache enables cache-aside reads through store.
func WithCache(store *cache.Store) Option {
	return func(b *base) {
		b.cache = store
	}
}

type base struct {
	db    *gorm.DB
	read  *gorm.DB
	cache *cache.Store
}

func newBase(db *gorm.DB, opts []Option) base {
	b := base{db: db, read: db}
	for _, opt := range opts {
		opt(&b)
	}
	if b.cache == nil {
		b.cache = cache.NewStore(nil)
	}
	return b
}

func (b base) reader() *gorm.DB {
	return b.read
}

// lookupError translates a single-row lookup failure.
func lookupError(err error, resource, field string, value any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, field, value)
	}
	return models.NewInternalError(err)
}

// pageError translates a pagination failure; unknown sort fields are client errors.
func pageError(err error) error {
	if errors.Is(err, pagination.ErrUnknownSortField) {
		return models.NewFieldValidationError(map[string]string{
			"sortBy": fmt.Sprintf("unsupported sort field: %s", strings.TrimPrefix(err.Error(), pagination.ErrUnknownSortField.Error()+": ")),
		})
	}
	return models.NewInternalError(err)
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}
