package dto

import (
	"time"

	"blogmesh/internal/models"
)

type Comment struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	PostID    uint      `json:"postId"`
	UserID    uint      `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

type CommentRequest struct {
	Content string `json:"content" validate:"required"`
}

func (CommentRequest) ValidationMessages() map[string]string {
	return map[string]string{"content": "content should not be empty"}
}

func CommentFromModel(c *models.Comment) Comment {
	return Comment{
		ID:        c.ID,
		Content:   c.Content,
		PostID:    c.PostID,
		UserID:    c.UserID,
		CreatedAt: c.CreatedAt,
	}
}

func CommentsFromModels(in []models.Comment) []Comment {
	out := make([]Comment, len(in))
	for i := range in {
		out[i] = CommentFromModel(&in[i])
	}
	return out
}
