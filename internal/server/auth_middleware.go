package server

import (
	"context"
	"errors"

	"blogmesh/internal/httputil"
	"blogmesh/internal/middleware"
	"blogmesh/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired returns the authentication middleware. It accepts only access
// tokens that have not been revoked.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := middleware.ExtractBearerToken(c)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		claims, err := s.authService.Authenticate(c.UserContext(), raw)
		if err != nil {
			return httputil.ServiceError(c, err)
		}

		c.Locals("userID", claims.UserID)
		c.Locals("token", raw)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, claims.UserID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
// The role is read from the store so a demotion takes effect immediately.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		admin, err := s.isAdmin(c, currentUserID(c))
		if err != nil {
			return httputil.ServiceError(c, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// SelfOrAdminRequired lets a request through when the caller is the user
// named by the route param or an admin.
func (s *Server) SelfOrAdminRequired(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		targetID, err := httputil.ParseID(c, param)
		if err != nil {
			return httputil.IgnoreWritten(err)
		}
		userID := currentUserID(c)
		if userID == targetID {
			return c.Next()
		}

		admin, err := s.isAdmin(c, userID)
		if err != nil {
			return httputil.ServiceError(c, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("You can only modify your own account"))
		}
		return c.Next()
	}
}

func (s *Server) isAdmin(c *fiber.Ctx, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin(), nil
}
