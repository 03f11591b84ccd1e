package server

import (
	"blogmesh/internal/dto"
	"blogmesh/internal/httputil"
	"blogmesh/internal/models"
	"blogmesh/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SignUp handles POST /api/v1/auth/signUp
// @Summary User signup
// @Description Register a new user account with the USER role
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignUpRequest true "Signup request"
// @Success 201 {object} dto.User
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/signUp [post]
func (s *Server) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := httputil.ParseBody(c, &req); err != nil {
		return httputil.IgnoreWritten(err)
	}

	user, err := s.authService.SignUp(c.UserContext(), req)
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// SignIn handles POST /api/v1/auth/signIn
// @Summary User sign in
// @Description Authenticate with email and password and receive an access and a refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignInRequest true "Credentials"
// @Success 200 {object} dto.JWTAuthenticationResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/signIn [post]
func (s *Server) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := httputil.ParseBody(c, &req); err != nil {
		return httputil.IgnoreWritten(err)
	}

	tokens, err := s.authService.SignIn(c.UserContext(), req)
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.JSON(tokens)
}

// Refresh handles POST /api/v1/auth/refresh
// @Summary Refresh access token
// @Description Exchange a refresh token for a new access token. The refresh token is returned unchanged.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.JWTAuthenticationResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/refresh [post]
func (s *Server) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := httputil.ParseBody(c, &req); err != nil {
		return httputil.IgnoreWritten(err)
	}

	result, err := s.authService.Refresh(c.UserContext(), req)
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	if result.Status != service.RefreshRefreshed {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError(result.Reason))
	}
	return c.JSON(result.Tokens)
}

// Logout handles POST /api/v1/auth/logout
// @Summary Logout
// @Description Revoke the bearer access token and, when supplied, the refresh token in the body
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest false "Refresh token to revoke"
// @Success 200 {object} models.APIResponse
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	ctx := c.UserContext()
	raw, _ := c.Locals("token").(string)
	if err := s.authService.Logout(ctx, raw); err != nil {
		return httputil.ServiceError(c, err)
	}

	if len(c.Body()) > 0 {
		var req dto.RefreshTokenRequest
		if err := c.BodyParser(&req); err == nil && req.Token != "" {
			if err := s.authService.Logout(ctx, req.Token); err != nil {
				return httputil.ServiceError(c, err)
			}
		}
	}
	return c.JSON(models.APIResponse{Message: "Logged out successfully", Success: true})
}
