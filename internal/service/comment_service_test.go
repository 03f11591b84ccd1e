package service

import (
	"context"
	"testing"

	"blogmesh/internal/dto"
	"blogmesh/internal/models"
	"blogmesh/internal/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_Lifecycle(t *testing.T) {
	env := newTestEnv(t, "")
	u := env.user(t, "ada@example.com")
	cat := env.category(t, "Tech")
	p := env.post(t, "Hello", u.ID, cat.ID)

	created, err := env.commentSvc.Create(context.Background(), u.ID, p.ID, dto.CommentRequest{Content: "first!"})
	require.NoError(t, err)
	assert.Equal(t, p.ID, created.PostID)
	assert.Equal(t, u.ID, created.UserID)

	got, err := env.commentSvc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "first!", got.Content)

	updated, err := env.commentSvc.Update(context.Background(), created.ID, dto.CommentRequest{Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	page, err := env.commentSvc.List(context.Background(), pagination.Request{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalElement)

	require.NoError(t, env.commentSvc.Delete(context.Background(), created.ID))
	err = env.commentSvc.Delete(context.Background(), created.ID)
	appErr := assertAppError(t, err, models.CodeNotFound)
	assert.Equal(t, "Comment", appErr.Resource)
}

func TestCommentService_CreateRequiresUserAndPost(t *testing.T) {
	env := newTestEnv(t, "")
	u := env.user(t, "ada@example.com")
	cat := env.category(t, "Tech")
	p := env.post(t, "Hello", u.ID, cat.ID)

	_, err := env.commentSvc.Create(context.Background(), 99, p.ID, dto.CommentRequest{Content: "hi"})
	appErr := assertAppError(t, err, models.CodeNotFound)
	assert.Equal(t, "User", appErr.Resource)

	_, err = env.commentSvc.Create(context.Background(), u.ID, 99, dto.CommentRequest{Content: "hi"})
	appErr = assertAppError(t, err, models.CodeNotFound)
	assert.Equal(t, "Post", appErr.Resource)

	_, err = env.commentSvc.Create(context.Background(), u.ID, p.ID, dto.CommentRequest{})
	assertValidationError(t, err, "content")
}
