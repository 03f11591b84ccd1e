package server

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"blogmesh/internal/dto"
	"blogmesh/internal/models"
	"blogmesh/internal/pagination"
	"blogmesh/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) createPost(t *testing.T, token string, userID, categoryID uint, title string) dto.Post {
	t.Helper()
	resp, body := ts.do(t, http.MethodPost,
		fmt.Sprintf("/api/v1/post/user/%d/category/%d/posts", userID, categoryID),
		dto.PostRequest{Title: title, Content: "content of " + title}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	return decode[dto.Post](t, body)
}

func TestPostLifecycle(t *testing.T) {
	ts := newTestServer(t)
	u, token := ts.userWithToken(t, "ada@example.com", models.RoleUser)
	ts.addresses.Put(u.ID, dto.Address{Lane1: "1 Main St", City: "London", State: "LDN", Zip: 12345})
	tech := ts.category(t, "Tech")

	created := ts.createPost(t, token, u.ID, tech.ID, "Hello")
	assert.Equal(t, models.DefaultImageName, created.ImageName)
	assert.Equal(t, "Tech", created.Category.Title)
	assert.False(t, created.AddedDate.IsZero())

	resp, body := ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/post/posts/%d", created.ID), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	got := decode[dto.Post](t, body)
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, "content of Hello", got.Content)
	require.NotNil(t, got.User.Address)
	assert.Equal(t, "London", got.User.Address.City)

	resp, body = ts.do(t, http.MethodPut, fmt.Sprintf("/api/v1/post/posts/%d", created.ID),
		dto.UpdatePostRequest{Title: "Hello again", Content: "edited"}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	updated := decode[dto.Post](t, body)
	assert.Equal(t, "Hello again", updated.Title)
	assert.Equal(t, models.DefaultImageName, updated.ImageName)

	resp, body = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/post/posts/%d", created.ID), nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.True(t, decode[models.APIResponse](t, body).Success)

	resp, body = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/post/posts/%d", created.ID), nil, token)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("Post not found with id : %d", created.ID), decodeError(t, body).Message)
}

func TestCreatePost_RequiresAuthAndValidBody(t *testing.T) {
	ts := newTestServer(t)
	u, token := ts.userWithToken(t, "ada@example.com", models.RoleUser)
	tech := ts.category(t, "Tech")
	path := fmt.Sprintf("/api/v1/post/user/%d/category/%d/posts", u.ID, tech.ID)

	resp, _ := ts.do(t, http.MethodPost, path, dto.PostRequest{Title: "x", Content: "y"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := ts.do(t, http.MethodPost, path, dto.PostRequest{Content: "y"}, token)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, body).Errors, "title")

	resp, _ = ts.do(t, http.MethodPost,
		fmt.Sprintf("/api/v1/post/user/%d/category/999/posts", u.ID), dto.PostRequest{Title: "x", Content: "y"}, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPostsByCategoryAndUser(t *testing.T) {
	ts := newTestServer(t)
	u, token := ts.userWithToken(t, "ada@example.com", models.RoleUser)
	tech := ts.category(t, "Tech")
	food := ts.category(t, "Food")

	hello := ts.createPost(t, token, u.ID, tech.ID, "Hello")
	ts.createPost(t, token, u.ID, food.ID, "Pasta")

	resp, body := ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/post/category/%d/posts", tech.ID), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	posts := decode[[]dto.Post](t, body)
	require.Len(t, posts, 1)
	assert.Equal(t, hello.ID, posts[0].ID)

	resp, body = ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/post/user/%d/posts", u.ID), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Len(t, decode[[]dto.Post](t, body), 2)

	resp, _ = ts.do(t, http.MethodGet, "/api/v1/post/category/999/posts", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetPosts_PaginationAndSearch(t *testing.T) {
	ts := newTestServer(t)
	u, token := ts.userWithToken(t, "ada@example.com", models.RoleUser)
	tech := ts.category(t, "Tech")
	for _, title := range []string{"Go tips", "Rust tips", "Go generics"} {
		ts.createPost(t, token, u.ID, tech.ID, title)
	}

	resp, body := ts.do(t, http.MethodGet, "/api/v1/post/posts/?pageNo=0&pageSize=2&sortBy=title&sortDir=asc", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	page := decode[pagination.Page[dto.Post]](t, body)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "Go generics", page.Content[0].Title)
	assert.Equal(t, int64(3), page.TotalElement)
	assert.Equal(t, 2, page.TotalPages)

	resp, body = ts.do(t, http.MethodGet, "/api/v1/post/posts?sortBy=password", nil, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, body).Errors, "sortBy")

	resp, body = ts.do(t, http.MethodGet, "/api/v1/post/posts/search/go", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Len(t, decode[[]dto.Post](t, body), 2)
}

func TestGetPostCommenters(t *testing.T) {
	ts := newTestServer(t)
	ada, adaToken := ts.userWithToken(t, "ada@example.com", models.RoleUser)
	bob, bobToken := ts.userWithToken(t, "bob@example.com", models.RoleUser)
	post := ts.createPost(t, adaToken, ada.ID, ts.category(t, "Tech").ID, "Hello")

	for _, c := range []struct {
		userID uint
		token  string
	}{{bob.ID, bobToken}, {ada.ID, adaToken}, {bob.ID, bobToken}} {
		resp, body := ts.do(t, http.MethodPost,
			fmt.Sprintf("/api/v1/comment/user/%d/post/%d/comments", c.userID, post.ID),
			dto.CommentRequest{Content: "nice"}, c.token)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	}

	resp, body := ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/post/postId/%d/commenters", post.ID), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	users := decode[[]dto.User](t, body)
	require.Len(t, users, 2)
	assert.Equal(t, bob.ID, users[0].ID)
	assert.Equal(t, ada.ID, users[1].ID)
}

func multipartImage(t *testing.T, target string, content []byte) *http.Request {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="photo.png"`)
	header.Set("Content-Type", "image/png")
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadAndServePostImage(t *testing.T) {
	ts := newTestServer(t)
	u, token := ts.userWithToken(t, "ada@example.com", models.RoleUser)
	post := ts.createPost(t, token, u.ID, ts.category(t, "Tech").ID, "Hello")

	req := multipartImage(t, fmt.Sprintf("/api/v1/post/image/upload/%d", post.ID), testutil.TinyPNG(t, 64, 48))
	resp, body := ts.send(t, req, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	updated := decode[dto.Post](t, body)
	require.NotEqual(t, models.DefaultImageName, updated.ImageName)

	resp, body = ts.do(t, http.MethodGet, "/api/v1/post/image/"+updated.ImageName, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, body)

	resp, _ = ts.do(t, http.MethodGet, "/api/v1/post/image/..%2F..%2Fetc%2Fpasswd", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUploadPostImage_Rejections(t *testing.T) {
	ts := newTestServer(t)
	u, token := ts.userWithToken(t, "ada@example.com", models.RoleUser)
	post := ts.createPost(t, token, u.ID, ts.category(t, "Tech").ID, "Hello")
	target := fmt.Sprintf("/api/v1/post/image/upload/%d", post.ID)

	resp, body := ts.send(t, multipartImage(t, target, []byte("plain text, not an image")), token)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, body).Errors, "image")

	req := httptest.NewRequest(http.MethodPost, target, nil)
	resp, body = ts.send(t, req, token)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, body).Errors, "image")

	resp, _ = ts.send(t, multipartImage(t, "/api/v1/post/image/upload/999", testutil.TinyPNG(t, 8, 8)), token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodGet, "/api/v1/nothing-here", nil, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	errResp := decodeError(t, body)
	assert.False(t, errResp.Success)
	assert.Equal(t, models.CodeNotFound, errResp.Code)
}
