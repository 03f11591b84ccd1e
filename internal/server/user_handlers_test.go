package server

import (
	"fmt"
	"net/http"
	"testing"

	"blogmesh/internal/addressclient"
	"blogmesh/internal/dto"
	"blogmesh/internal/models"
	"blogmesh/internal/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUser_WithAddress(t *testing.T) {
	ts := newTestServer(t)
	u, token := ts.userWithToken(t, "ada@example.com", models.RoleUser)
	ts.addresses.Put(u.ID, dto.Address{ID: 7, Lane1: "1 Main St", City: "London", State: "LDN", Zip: 12345})

	resp, body := ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/user/%d", u.ID), nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	got := decode[dto.User](t, body)
	assert.Equal(t, "ada@example.com", got.Email)
	require.NotNil(t, got.Address)
	assert.Equal(t, "London", got.Address.City)
}

func TestGetUser_AddressServiceDown(t *testing.T) {
	ts := newTestServer(t)
	u, token := ts.userWithToken(t, "ada@example.com", models.RoleUser)
	ts.addresses.Err = fmt.Errorf("%w: connection refused", addressclient.ErrUnavailable)

	resp, body := ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/user/%d", u.ID), nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Nil(t, decode[dto.User](t, body).Address)
}

func TestGetUser_NotFoundAndBadID(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.userWithToken(t, "ada@example.com", models.RoleUser)

	resp, body := ts.do(t, http.MethodGet, "/api/v1/user/999", nil, token)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	errResp := decodeError(t, body)
	assert.Equal(t, models.CodeNotFound, errResp.Code)
	assert.Equal(t, "User not found with id : 999", errResp.Message)

	resp, body = ts.do(t, http.MethodGet, "/api/v1/user/abc", nil, token)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, body).Errors, "userId")
}

func TestGetUsers_Paginated(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.userWithToken(t, "u0@example.com", models.RoleUser)
	for i := 1; i < 5; i++ {
		ts.createUser(t, fmt.Sprintf("u%d@example.com", i), models.RoleUser)
	}

	resp, body := ts.do(t, http.MethodGet, "/api/v1/user/?pageNo=1&pageSize=2&sortBy=email&sortDir=asc", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	page := decode[pagination.Page[dto.User]](t, body)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "u2@example.com", page.Content[0].Email)
	assert.Equal(t, 1, page.PageNo)
	assert.Equal(t, int64(5), page.TotalElement)
	assert.Equal(t, 3, page.TotalPages)
	assert.False(t, page.LastPage)
}

func TestGetUsersByRole(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.userWithToken(t, "user@example.com", models.RoleUser)
	ts.createUser(t, "admin@example.com", models.RoleAdmin)

	resp, body := ts.do(t, http.MethodGet, "/api/v1/user/userRole?role=admin", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	page := decode[pagination.Page[dto.User]](t, body)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "admin@example.com", page.Content[0].Email)

	resp, body = ts.do(t, http.MethodGet, "/api/v1/user/userRole?role=OWNER", nil, token)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, body).Errors, "role")
}

func TestUpdateUser_SelfOrAdmin(t *testing.T) {
	ts := newTestServer(t)
	ada, adaToken := ts.userWithToken(t, "ada@example.com", models.RoleUser)
	bob, bobToken := ts.userWithToken(t, "bob@example.com", models.RoleUser)
	_, adminToken := ts.userWithToken(t, "admin@example.com", models.RoleAdmin)

	req := signUpRequest("ada.l@example.com")

	resp, body := ts.do(t, http.MethodPut, fmt.Sprintf("/api/v1/user/%d", ada.ID), req, bobToken)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, models.CodeForbidden, decodeError(t, body).Code)

	resp, body = ts.do(t, http.MethodPut, fmt.Sprintf("/api/v1/user/%d", ada.ID), req, adaToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "ada.l@example.com", decode[dto.User](t, body).Email)

	req = signUpRequest("bob.b@example.com")
	resp, body = ts.do(t, http.MethodPut, fmt.Sprintf("/api/v1/user/%d", bob.ID), req, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	// The updated password is usable.
	ts.signIn(t, "bob.b@example.com")
}

func TestDeleteUser(t *testing.T) {
	ts := newTestServer(t)
	u, token := ts.userWithToken(t, "ada@example.com", models.RoleUser)
	_, adminToken := ts.userWithToken(t, "admin@example.com", models.RoleAdmin)
	ts.addresses.Put(u.ID, dto.Address{Lane1: "1 Main St", City: "London", State: "LDN", Zip: 12345})

	resp, body := ts.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/user/%d", u.ID), nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	ack := decode[models.APIResponse](t, body)
	assert.True(t, ack.Success)
	assert.Equal(t, []uint{u.ID}, ts.addresses.Deleted)

	resp, _ = ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/user/%d", u.ID), nil, adminToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/user/%d", u.ID), nil, adminToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteUser_AddressServiceFailureKeepsUser(t *testing.T) {
	ts := newTestServer(t)
	u, token := ts.userWithToken(t, "ada@example.com", models.RoleUser)
	ts.addresses.DeleteErr = fmt.Errorf("%w: status 500", addressclient.ErrUnavailable)

	resp, body := ts.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/user/%d", u.ID), nil, token)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode, string(body))
	assert.Equal(t, models.CodeRemoteUnavailable, decodeError(t, body).Code)

	var count int64
	require.NoError(t, ts.db.Model(&models.User{}).Where("id = ?", u.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAdminRoutes(t *testing.T) {
	ts := newTestServer(t)
	_, userToken := ts.userWithToken(t, "user@example.com", models.RoleUser)

	resp, _ := ts.do(t, http.MethodGet, "/api/v1/admin/adminRole", nil, userToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	admin, adminToken := ts.userWithToken(t, "admin@example.com", models.RoleAdmin)

	resp, body := ts.do(t, http.MethodGet, "/api/v1/admin/adminRole", nil, userToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, admin.ID, decode[dto.User](t, body).ID)

	resp, _ = ts.do(t, http.MethodGet, "/api/v1/admin/feature-flags", nil, userToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = ts.do(t, http.MethodGet, "/api/v1/admin/feature-flags", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"evaluated"`)
}
