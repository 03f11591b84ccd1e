package repository

import (
	"context"

	"blogmesh/internal/cache"
	"blogmesh/internal/models"
	"blogmesh/internal/pagination"

	"gorm.io/gorm"
)

// CategoryColumns lists the sortable category fields.
var CategoryColumns = pagination.NewColumns(map[string]string{
	"categoryId":          "id",
	"id":                  "id",
	"categoryTitle":       "title",
	"categoryDescription": "description",
	"createdAt":           "created_at",
})

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	List(ctx context.Context, req pagination.Request) (*pagination.Page[models.Category], error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	// DeleteCascade removes comments on the category's posts, the posts and
	// the category in one transaction.
	DeleteCascade(ctx context.Context, id uint) error
}

type categoryRepository struct {
	base
}

// NewCategoryRepository returns a new CategoryRepository implementation.
func NewCategoryRepository(db *gorm.DB, opts ...Option) CategoryRepository {
	return &categoryRepository{base: newBase(db, opts)}
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := r.cache.Aside(ctx, cache.CategoryKey(id), &category, cache.CategoryTTL, func() error {
		if err := r.reader().WithContext(ctx).First(&category, id).Error; err != nil {
			return lookupError(err, "Category", "id", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context, req pagination.Request) (*pagination.Page[models.Category], error) {
	page, err := pagination.Query[models.Category](ctx, r.reader().Model(&models.Category{}), req, CategoryColumns)
	if err != nil {
		return nil, pageError(err)
	}
	return page, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Omit("Posts").Save(category).Error; err != nil {
		return models.NewInternalError(err)
	}
	r.cache.Invalidate(ctx, cache.CategoryKey(category.ID))
	return nil
}

func (r *categoryRepository) DeleteCascade(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		posts := tx.Model(&models.Post{}).Select("id").Where("category_id = ?", id)
		if err := tx.Where("post_id IN (?)", posts).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return lookupError(err, "Category", "id", id)
	}
	r.cache.Invalidate(ctx, cache.CategoryKey(id))
	return nil
}
