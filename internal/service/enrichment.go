package service

import (
	"context"
	"errors"
	"sync"

	"blogmesh/internal/addressclient"
	"blogmesh/internal/dto"
	"blogmesh/internal/featureflags"
	"blogmesh/internal/middleware"
	"blogmesh/internal/models"
	"blogmesh/internal/observability"
)

// DefaultEnrichConcurrency bounds parallel address lookups when no limit is configured.
const DefaultEnrichConcurrency = 8

// Enricher attaches addresses from the address service to user-bearing DTOs.
// A lookup failure never fails the read: the address is left null.
type Enricher struct {
	addresses   addressclient.Client
	flags       *featureflags.Manager
	concurrency int
}

func NewEnricher(addresses addressclient.Client, flags *featureflags.Manager, concurrency int) *Enricher {
	if concurrency <= 0 {
		concurrency = DefaultEnrichConcurrency
	}
	return &Enricher{
		addresses:   addresses,
		flags:       flags,
		concurrency: concurrency,
	}
}

// Address returns the address of userID, or nil when it is missing or the
// address service cannot answer.
func (e *Enricher) Address(ctx context.Context, userID uint) *dto.Address {
	if e == nil || e.addresses == nil || userID == 0 {
		return nil
	}

	addr, err := e.addresses.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		return addr
	case errors.Is(err, addressclient.ErrNotFound):
		observability.EnrichmentMisses.WithLabelValues("not_found").Inc()
		middleware.Logger.InfoContext(ctx, "no address for user", "target_user_id", userID)
	default:
		observability.EnrichmentMisses.WithLabelValues("unavailable").Inc()
		middleware.Logger.WarnContext(ctx, "address lookup failed, returning user without address",
			"target_user_id", userID, "error", err)
	}
	return nil
}

// User maps u with its address.
func (e *Enricher) User(ctx context.Context, u *models.User) dto.User {
	return dto.UserFromModelWithAddress(u, e.Address(ctx, u.ID))
}

// Post maps p and attaches the author's address.
func (e *Enricher) Post(ctx context.Context, p *models.Post) dto.Post {
	out := dto.PostFromModel(p)
	out.User.Address = e.Address(ctx, p.UserID)
	return out
}

// Users maps and enriches users, keeping their order.
func (e *Enricher) Users(ctx context.Context, users []models.User) []dto.User {
	return enrichEach(ctx, e, users, e.User)
}

// Posts maps and enriches posts, keeping their order.
func (e *Enricher) Posts(ctx context.Context, posts []models.Post) []dto.Post {
	return enrichEach(ctx, e, posts, e.Post)
}

// parallel evaluates the rollout for the authenticated caller, if any.
func (e *Enricher) parallel(ctx context.Context) bool {
	if e == nil {
		return false
	}
	callerID, _ := ctx.Value(middleware.UserIDKey).(uint)
	return e.flags.Enabled(featureflags.ParallelEnrichment, callerID)
}

// enrichEach applies fn to every element. With parallel enrichment on, at
// most e.concurrency lookups run at once; each worker writes only its own
// slot of the result.
func enrichEach[E, D any](ctx context.Context, e *Enricher, in []E, fn func(context.Context, *E) D) []D {
	out := make([]D, len(in))
	if len(in) < 2 || !e.parallel(ctx) {
		for i := range in {
			out[i] = fn(ctx, &in[i])
		}
		return out
	}

	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup
	for i := range in {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			out[i] = fn(ctx, &in[i])
		}(i)
	}
	wg.Wait()
	return out
}
