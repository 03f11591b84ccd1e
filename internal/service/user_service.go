package service

import (
	"context"
	"errors"

	"blogmesh/internal/addressclient"
	"blogmesh/internal/dto"
	"blogmesh/internal/middleware"
	"blogmesh/internal/models"
	"blogmesh/internal/pagination"
	"blogmesh/internal/repository"
	"blogmesh/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users     repository.UserRepository
	addresses addressclient.Client
	enricher  *Enricher
}

func NewUserService(users repository.UserRepository, addresses addressclient.Client, enricher *Enricher) *UserService {
	return &UserService{
		users:     users,
		addresses: addresses,
		enricher:  enricher,
	}
}

// Get returns the user with its address.
func (s *UserService) Get(ctx context.Context, id uint) (*dto.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := s.enricher.User(ctx, user)
	return &out, nil
}

func (s *UserService) List(ctx context.Context, req pagination.Request) (*pagination.Page[dto.User], error) {
	page, err := s.users.List(ctx, req)
	if err != nil {
		return nil, err
	}
	return pagination.WithContent(page, s.enricher.Users(ctx, page.Content)), nil
}

// ListByRole pages through the users holding role, matched case-insensitively.
func (s *UserService) ListByRole(ctx context.Context, role string, req pagination.Request) (*pagination.Page[dto.User], error) {
	parsed, ok := models.ParseRole(role)
	if !ok {
		return nil, models.NewFieldValidationError(map[string]string{
			"role": "role must be one of ADMIN, USER",
		})
	}
	page, err := s.users.ListByRole(ctx, parsed, req)
	if err != nil {
		return nil, err
	}
	return pagination.WithContent(page, s.enricher.Users(ctx, page.Content)), nil
}

// GetAdmin returns the admin with the lowest id.
func (s *UserService) GetAdmin(ctx context.Context) (*dto.User, error) {
	user, err := s.users.FirstByRole(ctx, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	out := s.enricher.User(ctx, user)
	return &out, nil
}

// Update replaces the profile fields of a user and re-hashes the password.
func (s *UserService) Update(ctx context.Context, id uint, req dto.UpdateUserRequest) (*dto.User, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if email := models.NormalizeEmail(req.Email); user.Email != email {
		taken, existsErr := s.users.ExistsByEmail(ctx, email)
		if existsErr != nil {
			return nil, existsErr
		}
		if taken {
			return nil, models.NewFieldValidationError(map[string]string{"email": "email already registered"})
		}
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	req.Apply(user)
	user.Password = hash

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	out := s.enricher.User(ctx, user)
	return &out, nil
}

// Delete removes the user's address from the address service, then the
// user's comments, the comments on the user's posts, the posts and the user.
// A missing address does not block deletion; any other address service
// failure aborts before local data is touched.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return err
	}

	if s.addresses != nil {
		err := s.addresses.DeleteByUserID(ctx, id)
		switch {
		case err == nil:
		case errors.Is(err, addressclient.ErrNotFound):
			middleware.Logger.InfoContext(ctx, "user had no address to delete", "target_user_id", id)
		default:
			middleware.Logger.ErrorContext(ctx, "address delete failed, keeping user", "target_user_id", id, "error", err)
			return models.NewRemoteUnavailableError("Address service", err)
		}
	}

	return s.users.DeleteCascade(ctx, id)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return string(hash), nil
}
