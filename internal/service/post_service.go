package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"blogmesh/internal/dto"
	"blogmesh/internal/middleware"
	"blogmesh/internal/models"
	"blogmesh/internal/pagination"
	"blogmesh/internal/repository"
	"blogmesh/internal/validation"
)

type PostService struct {
	posts      repository.PostRepository
	users      repository.UserRepository
	categories repository.CategoryRepository
	enricher   *Enricher
	images     *ImageStore
	now        func() time.Time
}

func NewPostService(
	posts repository.PostRepository,
	users repository.UserRepository,
	categories repository.CategoryRepository,
	enricher *Enricher,
	images *ImageStore,
) *PostService {
	return &PostService{
		posts:      posts,
		users:      users,
		categories: categories,
		enricher:   enricher,
		images:     images,
		now:        time.Now,
	}
}

// Create adds a post by userID in categoryID. The image name and added date
// are always assigned here.
func (s *PostService) Create(ctx context.Context, userID, categoryID uint, req dto.PostRequest) (*dto.Post, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:      req.Title,
		Content:    req.Content,
		ImageName:  models.DefaultImageName,
		AddedDate:  s.now().UTC(),
		UserID:     userID,
		CategoryID: categoryID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.Get(ctx, post.ID)
}

// Get returns the post with its author's address.
func (s *PostService) Get(ctx context.Context, id uint) (*dto.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := s.enricher.Post(ctx, post)
	return &out, nil
}

// Update replaces title and content, and the image name when one is given.
func (s *PostService) Update(ctx context.Context, id uint, req dto.UpdatePostRequest) (*dto.Post, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := post.ImageName
	req.Apply(post)
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	if post.ImageName != previous {
		s.releaseImage(ctx, previous)
	}
	out := s.enricher.Post(ctx, post)
	return &out, nil
}

// Delete removes the post and its comments.
func (s *PostService) Delete(ctx context.Context, id uint) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.posts.DeleteCascade(ctx, id); err != nil {
		return err
	}
	s.releaseImage(ctx, post.ImageName)
	return nil
}

// releaseImage removes the stored files of name once no post references it.
func (s *PostService) releaseImage(ctx context.Context, name string) {
	if s.images == nil || name == "" || name == models.DefaultImageName {
		return
	}
	count, err := s.posts.CountByImageName(ctx, name)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "skipping image cleanup", slog.String("image", name), slog.Any("error", err))
		return
	}
	if count == 0 {
		s.images.Remove(name)
	}
}

func (s *PostService) List(ctx context.Context, req pagination.Request) (*pagination.Page[dto.Post], error) {
	page, err := s.posts.List(ctx, req)
	if err != nil {
		return nil, err
	}
	return pagination.WithContent(page, s.enricher.Posts(ctx, page.Content)), nil
}

func (s *PostService) ByCategory(ctx context.Context, categoryID uint) ([]dto.Post, error) {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}
	posts, err := s.posts.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return s.enricher.Posts(ctx, posts), nil
}

func (s *PostService) ByUser(ctx context.Context, userID uint) ([]dto.Post, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	posts, err := s.posts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.enricher.Posts(ctx, posts), nil
}

// Search returns posts whose title contains keyword, ignoring case.
func (s *PostService) Search(ctx context.Context, keyword string) ([]dto.Post, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, models.NewFieldValidationError(map[string]string{"keyword": "keyword cannot be blank"})
	}
	posts, err := s.posts.SearchByTitle(ctx, keyword)
	if err != nil {
		return nil, err
	}
	return s.enricher.Posts(ctx, posts), nil
}

// UsersWhoCommented returns the distinct commenters of a post in order of
// their first comment.
func (s *PostService) UsersWhoCommented(ctx context.Context, postID uint) ([]dto.User, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	users, err := s.posts.Commenters(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.enricher.Users(ctx, users), nil
}

// UploadImage stores a new image for the post and points the post at it.
func (s *PostService) UploadImage(ctx context.Context, postID uint, contentType string, content []byte) (*dto.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	stored, err := s.images.Save(contentType, content)
	if err != nil {
		return nil, err
	}

	previous := post.ImageName
	post.ImageName = stored.Name
	if err := s.posts.Update(ctx, post); err != nil {
		s.images.Remove(stored.Name)
		return nil, err
	}
	s.releaseImage(ctx, previous)

	out := s.enricher.Post(ctx, post)
	return &out, nil
}

// ImagePath resolves a stored image name for serving.
func (s *PostService) ImagePath(name string) (string, error) {
	return s.images.Path(name)
}
