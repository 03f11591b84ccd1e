package server

import (
	"io"

	"blogmesh/internal/dto"
	"blogmesh/internal/httputil"
	"blogmesh/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/v1/post/user/:userId/category/:categoryId/posts
// @Summary Create post
// @Description Create a post for a user in a category. The post starts with the default image.
// @Tags posts
// @Accept json
// @Produce json
// @Param userId path int true "Author ID"
// @Param categoryId path int true "Category ID"
// @Param request body dto.PostRequest true "Post"
// @Success 201 {object} dto.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /post/user/{userId}/category/{categoryId}/posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID, err := httputil.ParseID(c, "userId")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}
	categoryID, err := httputil.ParseID(c, "categoryId")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}
	var req dto.PostRequest
	if err := httputil.ParseBody(c, &req); err != nil {
		return httputil.IgnoreWritten(err)
	}

	post, err := s.postService.Create(c.UserContext(), userID, categoryID, req)
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	s.publishBroadcastEvent(EventPostCreated, map[string]any{
		"postId":     post.ID,
		"title":      post.Title,
		"userId":     userID,
		"categoryId": categoryID,
	})
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/v1/post/posts/:postId
// @Summary Get post
// @Description Get a post with its category, comments and author. The author's address is null when it cannot be fetched.
// @Tags posts
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {object} dto.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /post/posts/{postId} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := httputil.ParseID(c, "postId")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}

	post, err := s.postService.Get(c.UserContext(), id)
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.JSON(post)
}

// GetPosts handles GET /api/v1/post/posts/
// @Summary List posts
// @Tags posts
// @Produce json
// @Param pageNo query int false "Zero-based page number"
// @Param pageSize query int false "Page size"
// @Param sortBy query string false "Sort field"
// @Param sortDir query string false "asc or desc"
// @Success 200 {object} pagination.Page[dto.Post]
// @Failure 400 {object} models.ErrorResponse
// @Router /post/posts/ [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page, err := s.postService.List(c.UserContext(), httputil.PageRequest(c))
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.JSON(page)
}

// UpdatePost handles PUT /api/v1/post/posts/:postId
// @Summary Update post
// @Description Replace title and content. The image is kept when imageName is omitted.
// @Tags posts
// @Accept json
// @Produce json
// @Param postId path int true "Post ID"
// @Param request body dto.UpdatePostRequest true "Post"
// @Success 200 {object} dto.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /post/posts/{postId} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := httputil.ParseID(c, "postId")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}
	var req dto.UpdatePostRequest
	if err := httputil.ParseBody(c, &req); err != nil {
		return httputil.IgnoreWritten(err)
	}

	post, err := s.postService.Update(c.UserContext(), id, req)
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	s.publishBroadcastEvent(EventPostUpdated, map[string]any{"postId": post.ID, "title": post.Title})
	return c.JSON(post)
}

// DeletePost handles DELETE /api/v1/post/posts/:postId
// @Summary Delete post
// @Description Delete a post and its comments
// @Tags posts
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /post/posts/{postId} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := httputil.ParseID(c, "postId")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}

	if err := s.postService.Delete(c.UserContext(), id); err != nil {
		return httputil.ServiceError(c, err)
	}
	s.publishBroadcastEvent(EventPostDeleted, map[string]any{"postId": id})
	return httputil.Deleted(c, "Post deleted successfully")
}

// GetPostsByUser handles GET /api/v1/post/user/:userId/posts
// @Summary Posts by user
// @Tags posts
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} dto.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /post/user/{userId}/posts [get]
func (s *Server) GetPostsByUser(c *fiber.Ctx) error {
	id, err := httputil.ParseID(c, "userId")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}

	posts, err := s.postService.ByUser(c.UserContext(), id)
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetPostsByCategory handles GET /api/v1/post/category/:categoryId/posts
// @Summary Posts by category
// @Tags posts
// @Produce json
// @Param categoryId path int true "Category ID"
// @Success 200 {array} dto.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /post/category/{categoryId}/posts [get]
func (s *Server) GetPostsByCategory(c *fiber.Ctx) error {
	id, err := httputil.ParseID(c, "categoryId")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}

	posts, err := s.postService.ByCategory(c.UserContext(), id)
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.JSON(posts)
}

// SearchPosts handles GET /api/v1/post/posts/search/:keyword
// @Summary Search posts
// @Description Case-insensitive substring match on post titles
// @Tags posts
// @Produce json
// @Param keyword path string true "Keyword"
// @Success 200 {array} dto.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /post/posts/search/{keyword} [get]
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	posts, err := s.postService.Search(c.UserContext(), c.Params("keyword"))
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetPostCommenters handles GET /api/v1/post/postId/:postId/commenters
// @Summary Users who commented
// @Description Distinct users who commented on a post, in order of their first comment
// @Tags posts
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {array} dto.User
// @Failure 404 {object} models.ErrorResponse
// @Router /post/postId/{postId}/commenters [get]
func (s *Server) GetPostCommenters(c *fiber.Ctx) error {
	id, err := httputil.ParseID(c, "postId")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}

	users, err := s.postService.UsersWhoCommented(c.UserContext(), id)
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.JSON(users)
}

// UploadPostImage handles POST /api/v1/post/image/upload/:postId
// @Summary Upload post image
// @Description Upload a JPEG, PNG, GIF or WebP image. It is resized to fit 1080px and stored as JPEG and WebP.
// @Tags posts
// @Accept multipart/form-data
// @Produce json
// @Param postId path int true "Post ID"
// @Param image formData file true "Image file"
// @Success 200 {object} dto.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /post/image/upload/{postId} [post]
func (s *Server) UploadPostImage(c *fiber.Ctx) error {
	id, err := httputil.ParseID(c, "postId")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError(map[string]string{"image": "no file uploaded"}))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return httputil.ServiceError(c, models.NewInternalError(err))
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return httputil.ServiceError(c, models.NewInternalError(err))
	}

	post, err := s.postService.UploadImage(c.UserContext(), id, fileHeader.Header.Get(fiber.HeaderContentType), content)
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.JSON(post)
}

// ServePostImage handles GET /api/v1/post/image/:imageName
// @Summary Serve post image
// @Tags posts
// @Produce image/jpeg,image/webp
// @Param imageName path string true "Stored image name"
// @Success 200 {file} binary
// @Failure 404 {object} models.ErrorResponse
// @Router /post/image/{imageName} [get]
func (s *Server) ServePostImage(c *fiber.Ctx) error {
	path, err := s.postService.ImagePath(c.Params("imageName"))
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
	return c.SendFile(path)
}
