package auth

import (
	"context"
	"time"

	"blogmesh/internal/cache"
	"blogmesh/internal/middleware"
)

// Revoker keeps revoked token ids in redis until the token would have expired.
type Revoker struct {
	store *cache.Store
}

func NewRevoker(store *cache.Store) *Revoker {
	return &Revoker{store: store}
}

// Revoke blacklists the token's jti. Without redis the call is a logged no-op.
func (r *Revoker) Revoke(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" {
		return ErrInvalidToken
	}
	if r == nil || !r.store.Enabled() {
		middleware.Logger.WarnContext(ctx, "token revocation skipped: redis unavailable", "jti", claims.ID)
		return nil
	}

	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.store.Client().Set(ctx, cache.BlacklistKey(claims.ID), "1", ttl).Err()
}

// IsRevoked reports whether jti has been blacklisted. Lookup errors are
// logged and treated as not revoked.
func (r *Revoker) IsRevoked(ctx context.Context, jti string) bool {
	if r == nil || jti == "" || !r.store.Enabled() {
		return false
	}
	n, err := r.store.Client().Exists(ctx, cache.BlacklistKey(jti)).Result()
	if err != nil {
		middleware.Logger.WarnContext(ctx, "token blacklist lookup failed", "jti", jti, "error", err)
		return false
	}
	return n > 0
}
