package server

import (
	"blogmesh/internal/dto"
	"blogmesh/internal/httputil"

	"github.com/gofiber/fiber/v2"
)

// GetUser handles GET /api/v1/user/:userId
// @Summary Get user
// @Description Get a user with the address held by the address service. The address is null when it cannot be fetched.
// @Tags users
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} dto.User
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /user/{userId} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := httputil.ParseID(c, "userId")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}

	user, err := s.userService.Get(c.UserContext(), id)
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.JSON(user)
}

// GetUsers handles GET /api/v1/user/
// @Summary List users
// @Tags users
// @Produce json
// @Param pageNo query int false "Zero-based page number"
// @Param pageSize query int false "Page size"
// @Param sortBy query string false "Sort field"
// @Param sortDir query string false "asc or desc"
// @Success 200 {object} pagination.Page[dto.User]
// @Security BearerAuth
// @Router /user/ [get]
func (s *Server) GetUsers(c *fiber.Ctx) error {
	page, err := s.userService.List(c.UserContext(), httputil.PageRequest(c))
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.JSON(page)
}

// GetUsersByRole handles GET /api/v1/user/userRole?role=
// @Summary List users by role
// @Tags users
// @Produce json
// @Param role query string true "ADMIN or USER"
// @Param pageNo query int false "Zero-based page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} pagination.Page[dto.User]
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /user/userRole [get]
func (s *Server) GetUsersByRole(c *fiber.Ctx) error {
	page, err := s.userService.ListByRole(c.UserContext(), c.Query("role"), httputil.PageRequest(c))
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.JSON(page)
}

// UpdateUser handles PUT /api/v1/user/:userId
// @Summary Update user
// @Description Replace a user's profile. The password is re-hashed. Only the user or an admin may update.
// @Tags users
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Param request body dto.UpdateUserRequest true "User"
// @Success 200 {object} dto.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /user/{userId} [put]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := httputil.ParseID(c, "userId")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}
	var req dto.UpdateUserRequest
	if err := httputil.ParseBody(c, &req); err != nil {
		return httputil.IgnoreWritten(err)
	}

	user, err := s.userService.Update(c.UserContext(), id, req)
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser handles DELETE /api/v1/user/:userId
// @Summary Delete user
// @Description Delete the user's address, then the user with their comments and posts. A failing address service aborts the deletion.
// @Tags users
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} models.APIResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /user/{userId} [delete]
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := httputil.ParseID(c, "userId")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}

	if err := s.userService.Delete(c.UserContext(), id); err != nil {
		return httputil.ServiceError(c, err)
	}
	return httputil.Deleted(c, "User deleted successfully")
}

// GetAdminUser handles GET /api/v1/admin/adminRole
// @Summary Get admin
// @Description Get the first user holding the ADMIN role
// @Tags admin
// @Produce json
// @Success 200 {object} dto.User
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/adminRole [get]
func (s *Server) GetAdminUser(c *fiber.Ctx) error {
	user, err := s.userService.GetAdmin(c.UserContext())
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.JSON(user)
}

// GetFeatureFlags handles GET /api/v1/admin/feature-flags
// @Summary Feature flag snapshot
// @Tags admin
// @Produce json
// @Success 200 {object} object{raw=map[string]string,evaluated=map[string]bool}
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"raw":       s.featureFlags.Raw(),
		"evaluated": s.featureFlags.Snapshot(currentUserID(c)),
	})
}
