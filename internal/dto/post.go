package dto

import (
	"time"

	"blogmesh/internal/models"
)

type Post struct {
	ID        uint      `json:"postId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageName string    `json:"imageName"`
	AddedDate time.Time `json:"addedDate"`
	Category  Category  `json:"category"`
	User      User      `json:"user"`
	Comments  []Comment `json:"comments"`
}

// PostRequest is the body of post creation. Only title and content are taken
// from the client; the image and date are assigned by the server.
type PostRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// UpdatePostRequest replaces the mutable fields of a post.
type UpdatePostRequest struct {
	Title     string `json:"title" validate:"required"`
	Content   string `json:"content" validate:"required"`
	ImageName string `json:"imageName"`
}

var postRequestMessages = map[string]string{
	"title":   "title cannot be empty",
	"content": "content should not be empty",
}

func (PostRequest) ValidationMessages() map[string]string { return postRequestMessages }

func (UpdatePostRequest) ValidationMessages() map[string]string { return postRequestMessages }

// PostFromModel maps p with its preloaded user, category and comments.
func PostFromModel(p *models.Post) Post {
	return Post{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		ImageName: p.ImageName,
		AddedDate: p.AddedDate,
		Category:  CategoryFromModel(&p.Category),
		User:      UserFromModel(&p.User),
		Comments:  CommentsFromModels(p.Comments),
	}
}

func (r UpdatePostRequest) Apply(p *models.Post) {
	p.Title = r.Title
	p.Content = r.Content
	if r.ImageName != "" {
		p.ImageName = r.ImageName
	}
}
