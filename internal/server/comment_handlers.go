package server

import (
	"blogmesh/internal/dto"
	"blogmesh/internal/httputil"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/v1/comment/user/:userId/post/:postId/comments
// @Summary Create comment
// @Tags comments
// @Accept json
// @Produce json
// @Param userId path int true "Author ID"
// @Param postId path int true "Post ID"
// @Param request body dto.CommentRequest true "Comment"
// @Success 201 {object} dto.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comment/user/{userId}/post/{postId}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID, err := httputil.ParseID(c, "userId")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}
	postID, err := httputil.ParseID(c, "postId")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}
	var req dto.CommentRequest
	if err := httputil.ParseBody(c, &req); err != nil {
		return httputil.IgnoreWritten(err)
	}

	comment, err := s.commentService.Create(c.UserContext(), userID, postID, req)
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	s.publishBroadcastEvent(EventCommentCreated, map[string]any{
		"commentId": comment.ID,
		"postId":    postID,
		"userId":    userID,
	})
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComment handles GET /api/v1/comment/:commentId
// @Summary Get comment
// @Tags comments
// @Produce json
// @Param commentId path int true "Comment ID"
// @Success 200 {object} dto.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /comment/{commentId} [get]
func (s *Server) GetComment(c *fiber.Ctx) error {
	id, err := httputil.ParseID(c, "commentId")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}

	comment, err := s.commentService.Get(c.UserContext(), id)
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.JSON(comment)
}

// GetComments handles GET /api/v1/comment/comments
// @Summary List comments
// @Tags comments
// @Produce json
// @Param pageNo query int false "Zero-based page number"
// @Param pageSize query int false "Page size"
// @Param sortBy query string false "Sort field"
// @Param sortDir query string false "asc or desc"
// @Success 200 {object} pagination.Page[dto.Comment]
// @Router /comment/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	page, err := s.commentService.List(c.UserContext(), httputil.PageRequest(c))
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.JSON(page)
}

// UpdateComment handles PUT /api/v1/comment/:commentId
// @Summary Update comment
// @Tags comments
// @Accept json
// @Produce json
// @Param commentId path int true "Comment ID"
// @Param request body dto.CommentRequest true "Comment"
// @Success 200 {object} dto.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comment/{commentId} [put]
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id, err := httputil.ParseID(c, "commentId")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}
	var req dto.CommentRequest
	if err := httputil.ParseBody(c, &req); err != nil {
		return httputil.IgnoreWritten(err)
	}

	comment, err := s.commentService.Update(c.UserContext(), id, req)
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	s.publishBroadcastEvent(EventCommentUpdated, map[string]any{"commentId": comment.ID, "postId": comment.PostID})
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/v1/comment/:commentId
// @Summary Delete comment
// @Tags comments
// @Produce json
// @Param commentId path int true "Comment ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comment/{commentId} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := httputil.ParseID(c, "commentId")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}

	if err := s.commentService.Delete(c.UserContext(), id); err != nil {
		return httputil.ServiceError(c, err)
	}
	s.publishBroadcastEvent(EventCommentDeleted, map[string]any{"commentId": id})
	return httputil.Deleted(c, "Comment deleted successfully")
}
