package repository

import (
	"context"

	"blogmesh/internal/models"
	"blogmesh/internal/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentColumns lists the sortable comment fields.
var CommentColumns = pagination.NewColumns(map[string]string{
	"id":        "id",
	"content":   "content",
	"postId":    "post_id",
	"userId":    "user_id",
	"createdAt": "created_at",
})

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	List(ctx context.Context, req pagination.Request) (*pagination.Page[models.Comment], error)
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	base
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB, opts ...Option) CommentRepository {
	return &commentRepository{base: newBase(db, opts)}
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.reader().WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, lookupError(err, "Comment", "id", id)
	}
	return &comment, nil
}

func (r *commentRepository) List(ctx context.Context, req pagination.Request) (*pagination.Page[models.Comment], error) {
	page, err := pagination.Query[models.Comment](ctx, r.reader().Model(&models.Comment{}), req, CommentColumns)
	if err != nil {
		return nil, pageError(err)
	}
	return page, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", "id", id)
	}
	return nil
}
