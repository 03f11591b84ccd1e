package repository

import (
	"context"

	"blogmesh/internal/cache"
	"blogmesh/internal/models"
	"blogmesh/internal/pagination"

	"gorm.io/gorm"
)

// AddressColumns lists the sortable address fields.
var AddressColumns = pagination.NewColumns(map[string]string{
	"id":     "id",
	"lane1":  "lane1",
	"lane2":  "lane2",
	"city":   "city",
	"state":  "state",
	"zip":    "zip",
	"userId": "user_id",
})

// AddressRepository defines persistence operations for the address service.
type AddressRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Address, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Address, error)
	List(ctx context.Context, req pagination.Request) (*pagination.Page[models.Address], error)
	Create(ctx context.Context, address *models.Address) error
	Update(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, id uint) error
	DeleteByUserID(ctx context.Context, userID uint) error
}

type addressRepository struct {
	base
}

// NewAddressRepository returns a new AddressRepository implementation.
func NewAddressRepository(db *gorm.DB, opts ...Option) AddressRepository {
	return &addressRepository{base: newBase(db, opts)}
}

func (r *addressRepository) GetByID(ctx context.Context, id uint) (*models.Address, error) {
	var address models.Address
	if err := r.reader().WithContext(ctx).First(&address, id).Error; err != nil {
		return nil, lookupError(err, "Address", "id", id)
	}
	return &address, nil
}

func (r *addressRepository) GetByUserID(ctx context.Context, userID uint) (*models.Address, error) {
	var address models.Address
	err := r.cache.Aside(ctx, cache.AddressKey(userID), &address, cache.AddressTTL, func() error {
		if err := r.reader().WithContext(ctx).Where("user_id = ?", userID).First(&address).Error; err != nil {
			return lookupError(err, "Address", "userId", userID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *addressRepository) List(ctx context.Context, req pagination.Request) (*pagination.Page[models.Address], error) {
	page, err := pagination.Query[models.Address](ctx, r.reader().Model(&models.Address{}), req, AddressColumns)
	if err != nil {
		return nil, pageError(err)
	}
	return page, nil
}

func (r *addressRepository) Create(ctx context.Context, address *models.Address) error {
	if err := r.db.WithContext(ctx).Create(address).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewFieldValidationError(map[string]string{"userId": "user already has an address"})
		}
		return models.NewInternalError(err)
	}
	r.cache.Invalidate(ctx, cache.AddressKey(address.UserID))
	return nil
}

func (r *addressRepository) Update(ctx context.Context, address *models.Address) error {
	if err := r.db.WithContext(ctx).Save(address).Error; err != nil {
		return models.NewInternalError(err)
	}
	r.cache.Invalidate(ctx, cache.AddressKey(address.UserID))
	return nil
}

func (r *addressRepository) Delete(ctx context.Context, id uint) error {
	var address models.Address
	if err := r.db.WithContext(ctx).First(&address, id).Error; err != nil {
		return lookupError(err, "Address", "id", id)
	}
	res := r.db.WithContext(ctx).Delete(&models.Address{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Address", "id", id)
	}
	r.cache.Invalidate(ctx, cache.AddressKey(address.UserID))
	return nil
}

func (r *addressRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Address{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Address", "userId", userID)
	}
	r.cache.Invalidate(ctx, cache.AddressKey(userID))
	return nil
}
