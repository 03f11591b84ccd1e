package repository

import (
	"context"

	"blogmesh/internal/cache"
	"blogmesh/internal/models"
	"blogmesh/internal/pagination"

	"gorm.io/gorm"
)

// UserColumns lists the sortable user fields.
var UserColumns = pagination.NewColumns(map[string]string{
	"id":        "id",
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"contact":   "contact",
	"role":      "role",
	"createdAt": "created_at",
})

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FirstByRole(ctx context.Context, role models.Role) (*models.User, error)
	List(ctx context.Context, req pagination.Request) (*pagination.Page[models.User], error)
	ListByRole(ctx context.Context, role models.Role, req pagination.Request) (*pagination.Page[models.User], error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	// DeleteCascade removes the user's comments, the comments on the user's
	// posts, the posts and finally the user, in one transaction.
	DeleteCascade(ctx context.Context, id uint) error
}

type userRepository struct {
	base
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB, opts ...Option) UserRepository {
	return &userRepository{base: newBase(db, opts)}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		if err := r.reader().WithContext(ctx).First(&user, id).Error; err != nil {
			return lookupError(err, "User", "id", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.reader().WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, lookupError(err, "User", "email", email)
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", models.NormalizeEmail(email)).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *userRepository) FirstByRole(ctx context.Context, role models.Role) (*models.User, error) {
	var user models.User
	if err := r.reader().WithContext(ctx).Where("role = ?", role).Order("id ASC").First(&user).Error; err != nil {
		return nil, lookupError(err, "User", "role", role)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, req pagination.Request) (*pagination.Page[models.User], error) {
	page, err := pagination.Query[models.User](ctx, r.reader().Model(&models.User{}), req, UserColumns)
	if err != nil {
		return nil, pageError(err)
	}
	return page, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role models.Role, req pagination.Request) (*pagination.Page[models.User], error) {
	db := r.reader().Model(&models.User{}).Where("role = ?", role)
	page, err := pagination.Query[models.User](ctx, db, req, UserColumns)
	if err != nil {
		return nil, pageError(err)
	}
	return page, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewFieldValidationError(map[string]string{"email": "email already registered"})
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Omit("Posts", "Comments").Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewFieldValidationError(map[string]string{"email": "email already registered"})
		}
		return models.NewInternalError(err)
	}
	r.cache.Invalidate(ctx, cache.UserKey(user.ID))
	return nil
}

func (r *userRepository) DeleteCascade(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownPosts := tx.Model(&models.Post{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("user_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN (?)", ownPosts).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return lookupError(err, "User", "id", id)
	}
	r.cache.Invalidate(ctx, cache.UserKey(id))
	return nil
}
