package service

import (
	"context"

	"blogmesh/internal/dto"
	"blogmesh/internal/models"
	"blogmesh/internal/pagination"
	"blogmesh/internal/repository"
	"blogmesh/internal/validation"
)

type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	users    repository.UserRepository
}

func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository, users repository.UserRepository) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		users:    users,
	}
}

// Create adds a comment by userID on postID after checking both exist.
func (s *CommentService) Create(ctx context.Context, userID, postID uint, req dto.CommentRequest) (*dto.Comment, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content: req.Content,
		PostID:  postID,
		UserID:  userID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	out := dto.CommentFromModel(comment)
	return &out, nil
}

func (s *CommentService) Get(ctx context.Context, id uint) (*dto.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.CommentFromModel(comment)
	return &out, nil
}

func (s *CommentService) Update(ctx context.Context, id uint, req dto.CommentRequest) (*dto.Comment, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comment.Content = req.Content
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	out := dto.CommentFromModel(comment)
	return &out, nil
}

func (s *CommentService) Delete(ctx context.Context, id uint) error {
	if _, err := s.comments.GetByID(ctx, id); err != nil {
		return err
	}
	return s.comments.Delete(ctx, id)
}

func (s *CommentService) List(ctx context.Context, req pagination.Request) (*pagination.Page[dto.Comment], error) {
	page, err := s.comments.List(ctx, req)
	if err != nil {
		return nil, err
	}
	return pagination.Map(page, func(c models.Comment) dto.Comment {
		return dto.CommentFromModel(&c)
	}), nil
}
