package server

import (
	"blogmesh/internal/dto"
	"blogmesh/internal/httputil"

	"github.com/gofiber/fiber/v2"
)

// CreateCategory handles POST /api/v1/category/
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body dto.CategoryRequest true "Category"
// @Success 201 {object} dto.Category
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /category/ [post]
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := httputil.ParseBody(c, &req); err != nil {
		return httputil.IgnoreWritten(err)
	}

	category, err := s.categoryService.Create(c.UserContext(), req)
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// GetCategory handles GET /api/v1/category/:categoryId
// @Summary Get category
// @Tags categories
// @Produce json
// @Param categoryId path int true "Category ID"
// @Success 200 {object} dto.Category
// @Failure 404 {object} models.ErrorResponse
// @Router /category/{categoryId} [get]
func (s *Server) GetCategory(c *fiber.Ctx) error {
	id, err := httputil.ParseID(c, "categoryId")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}

	category, err := s.categoryService.Get(c.UserContext(), id)
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.JSON(category)
}

// GetCategories handles GET /api/v1/category/
// @Summary List categories
// @Tags categories
// @Produce json
// @Param pageNo query int false "Zero-based page number"
// @Param pageSize query int false "Page size"
// @Param sortBy query string false "Sort field"
// @Param sortDir query string false "asc or desc"
// @Success 200 {object} pagination.Page[dto.Category]
// @Router /category/ [get]
func (s *Server) GetCategories(c *fiber.Ctx) error {
	page, err := s.categoryService.List(c.UserContext(), httputil.PageRequest(c))
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.JSON(page)
}

// UpdateCategory handles PUT /api/v1/category/:categoryId
// @Summary Update category
// @Tags categories
// @Accept json
// @Produce json
// @Param categoryId path int true "Category ID"
// @Param request body dto.CategoryRequest true "Category"
// @Success 200 {object} dto.Category
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /category/{categoryId} [put]
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := httputil.ParseID(c, "categoryId")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}
	var req dto.CategoryRequest
	if err := httputil.ParseBody(c, &req); err != nil {
		return httputil.IgnoreWritten(err)
	}

	category, err := s.categoryService.Update(c.UserContext(), id, req)
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.JSON(category)
}

// DeleteCategory handles DELETE /api/v1/category/:categoryId
// @Summary Delete category
// @Description Delete a category together with its posts and their comments
// @Tags categories
// @Produce json
// @Param categoryId path int true "Category ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /category/{categoryId} [delete]
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := httputil.ParseID(c, "categoryId")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}

	if err := s.categoryService.Delete(c.UserContext(), id); err != nil {
		return httputil.ServiceError(c, err)
	}
	return httputil.Deleted(c, "Category deleted successfully")
}
