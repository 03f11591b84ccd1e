package dto

import "blogmesh/internal/models"

type Category struct {
	ID          uint   `json:"categoryId"`
	Title       string `json:"categoryTitle"`
	Description string `json:"categoryDescription"`
}

type CategoryRequest struct {
	Title       string `json:"categoryTitle" validate:"notblank,min=4"`
	Description string `json:"categoryDescription" validate:"notblank,min=10"`
}

func (CategoryRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"categoryTitle.notblank":       "categoryTitle cannot be blank",
		"categoryTitle.min":            "minimum size of category title is: 4",
		"categoryDescription.notblank": "categoryDescription cannot be blank",
		"categoryDescription.min":      "minimum size of category description is: 10",
	}
}

func CategoryFromModel(c *models.Category) Category {
	return Category{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
	}
}

func (r CategoryRequest) ToModel() *models.Category {
	c := &models.Category{}
	r.Apply(c)
	return c
}

func (r CategoryRequest) Apply(c *models.Category) {
	c.Title = r.Title
	c.Description = r.Description
}
