package service

import (
	"context"
	"errors"

	"blogmesh/internal/auth"
	"blogmesh/internal/dto"
	"blogmesh/internal/middleware"
	"blogmesh/internal/models"
	"blogmesh/internal/repository"
	"blogmesh/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// RefreshStatus is the outcome of a refresh attempt.
type RefreshStatus string

const (
	RefreshRefreshed RefreshStatus = "REFRESHED"
	RefreshRejected  RefreshStatus = "REJECTED"
)

// RefreshResult carries new tokens when Status is RefreshRefreshed and the
// rejection reason otherwise.
type RefreshResult struct {
	Status RefreshStatus
	Tokens *dto.JWTAuthenticationResponse
	Reason string
}

type AuthService struct {
	users   repository.UserRepository
	tokens  *auth.Manager
	revoker *auth.Revoker
}

func NewAuthService(users repository.UserRepository, tokens *auth.Manager, revoker *auth.Revoker) *AuthService {
	return &AuthService{
		users:   users,
		tokens:  tokens,
		revoker: revoker,
	}
}

// SignUp registers a USER account. The response never includes the password hash.
func (s *AuthService) SignUp(ctx context.Context, req dto.SignUpRequest) (*dto.User, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	req.Email = models.NormalizeEmail(req.Email)

	taken, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.NewFieldValidationError(map[string]string{"email": "email already registered"})
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Role: models.RoleUser, Password: hash}
	req.Apply(user)

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	out := dto.UserFromModel(user)
	return &out, nil
}

// SignIn checks the credentials and issues an access and a refresh token.
func (s *AuthService) SignIn(ctx context.Context, req dto.SignInRequest) (*dto.JWTAuthenticationResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, models.NormalizeEmail(req.Email))
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewUnauthorizedError("Invalid email or password")
		}
		return nil, err
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}

	access, err := s.tokens.GenerateAccess(user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	refresh, err := s.tokens.GenerateRefresh(user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &dto.JWTAuthenticationResponse{Token: access, RefreshToken: refresh}, nil
}

// Refresh resolves the user named by the token's email claim, then validates
// the token against that user and issues a new access token. An error is
// returned only when no user can be resolved; every other failure is a
// rejected result.
func (s *AuthService) Refresh(ctx context.Context, req dto.RefreshTokenRequest) (*RefreshResult, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	email, err := auth.UnverifiedEmail(req.Token)
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid refresh token")
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewUnauthorizedError("Invalid refresh token")
		}
		return nil, err
	}

	claims, err := s.tokens.Validate(req.Token, auth.TokenRefresh)
	if err != nil {
		middleware.Logger.InfoContext(ctx, "refresh token rejected", "target_user_id", user.ID, "error", err)
		return rejected("invalid or expired refresh token"), nil
	}
	if claims.UserID != user.ID {
		return rejected("refresh token does not belong to user"), nil
	}
	if s.revoker.IsRevoked(ctx, claims.ID) {
		return rejected("refresh token has been revoked"), nil
	}

	access, err := s.tokens.GenerateAccess(user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &RefreshResult{
		Status: RefreshRefreshed,
		Tokens: &dto.JWTAuthenticationResponse{Token: access, RefreshToken: req.Token},
	}, nil
}

// Authenticate validates an access token and checks that it has not been revoked.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*auth.Claims, error) {
	claims, err := s.tokens.Validate(raw, auth.TokenAccess)
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}
	if s.revoker.IsRevoked(ctx, claims.ID) {
		return nil, models.NewUnauthorizedError("Token has been revoked")
	}
	return claims, nil
}

// Logout revokes raw, which may be an access or a refresh token, until it expires.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return models.NewUnauthorizedError("Invalid or expired token")
	}
	if err := s.revoker.Revoke(ctx, claims); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func rejected(reason string) *RefreshResult {
	return &RefreshResult{Status: RefreshRejected, Reason: reason}
}

func isNotFound(err error) bool {
	var appErr *models.AppError
	return errors.As(err, &appErr) && appErr.Code == models.CodeNotFound
}
