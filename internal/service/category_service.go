package service

import (
	"context"

	"blogmesh/internal/dto"
	"blogmesh/internal/models"
	"blogmesh/internal/pagination"
	"blogmesh/internal/repository"
	"blogmesh/internal/validation"
)

type CategoryService struct {
	categories repository.CategoryRepository
}

func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) Create(ctx context.Context, req dto.CategoryRequest) (*dto.Category, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	category := req.ToModel()
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	out := dto.CategoryFromModel(category)
	return &out, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*dto.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.CategoryFromModel(category)
	return &out, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, req dto.CategoryRequest) (*dto.Category, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(category)
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	out := dto.CategoryFromModel(category)
	return &out, nil
}

// Delete removes the category, its posts and the comments on them.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return err
	}
	return s.categories.DeleteCascade(ctx, id)
}

func (s *CategoryService) List(ctx context.Context, req pagination.Request) (*pagination.Page[dto.Category], error) {
	page, err := s.categories.List(ctx, req)
	if err != nil {
		return nil, err
	}
	return pagination.Map(page, func(c models.Category) dto.Category {
		return dto.CategoryFromModel(&c)
	}), nil
}
