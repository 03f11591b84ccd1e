package repository

import (
	"context"
	"strings"

	"blogmesh/internal/models"
	"blogmesh/internal/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostColumns lists the sortable post fields.
var PostColumns = pagination.NewColumns(map[string]string{
	"postId":     "id",
	"id":         "id",
	"title":      "title",
	"content":    "content",
	"imageName":  "image_name",
	"addedDate":  "added_date",
	"userId":     "user_id",
	"categoryId": "category_id",
})

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, req pagination.Request) (*pagination.Page[models.Post], error)
	ListByCategory(ctx context.Context, categoryID uint) ([]models.Post, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Post, error)
	SearchByTitle(ctx context.Context, keyword string) ([]models.Post, error)
	// Commenters returns the distinct users who commented on the post,
	// ordered by their first comment.
	Commenters(ctx context.Context, postID uint) ([]models.User, error)
	// CountByImageName counts the posts whose image is name.
	CountByImageName(ctx context.Context, name string) (int64, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	// DeleteCascade removes the post's comments and the post in one transaction.
	DeleteCascade(ctx context.Context, id uint) error
}

type postRepository struct {
	base
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB, opts ...Option) PostRepository {
	return &postRepository{base: newBase(db, opts)}
}

func withPostRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("User").
		Preload("Category").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.reader().WithContext(ctx).Scopes(withPostRelations).First(&post, id).Error; err != nil {
		return nil, lookupError(err, "Post", "id", id)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, req pagination.Request) (*pagination.Page[models.Post], error) {
	page, err := pagination.Query[models.Post](ctx, r.reader().Model(&models.Post{}), req, PostColumns, withPostRelations)
	if err != nil {
		return nil, pageError(err)
	}
	return page, nil
}

func (r *postRepository) listWhere(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	var posts []models.Post
	err := r.reader().WithContext(ctx).
		Scopes(withPostRelations).
		Where(query, args...).
		Order("id ASC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByCategory(ctx context.Context, categoryID uint) ([]models.Post, error) {
	return r.listWhere(ctx, "category_id = ?", categoryID)
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	return r.listWhere(ctx, "user_id = ?", userID)
}

func (r *postRepository) SearchByTitle(ctx context.Context, keyword string) ([]models.Post, error) {
	pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"
	return r.listWhere(ctx, `LOWER(title) LIKE ? ESCAPE '\'`, pattern)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *postRepository) Commenters(ctx context.Context, postID uint) ([]models.User, error) {
	first := r.reader().Model(&models.Comment{}).
		Select("user_id, MIN(id) AS first_comment_id").
		Where("post_id = ?", postID).
		Group("user_id")

	var users []models.User
	err := r.reader().WithContext(ctx).
		Joins("JOIN (?) AS fc ON fc.user_id = users.id", first).
		Order("fc.first_comment_id ASC").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *postRepository) CountByImageName(ctx context.Context, name string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("image_name = ?", name).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) DeleteCascade(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return lookupError(err, "Post", "id", id)
	}
	return nil
}
