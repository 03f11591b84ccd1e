package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"blogmesh/internal/addressclient"
	"blogmesh/internal/config"
	"blogmesh/internal/dto"
	"blogmesh/internal/models"
	"blogmesh/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "s3cret!"

type testServer struct {
	srv       *Server
	app       *fiber.App
	db        *gorm.DB
	addresses *addressclient.Fake
	redis     *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewSQLiteDB(t, &models.User{}, &models.Category{}, &models.Post{}, &models.Comment{})

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		Env:                  "test",
		Port:                 "0",
		JWTSecret:            "server-test-secret-with-32-characters",
		JWTIssuer:            "blogmesh",
		JWTAudience:          "blogmesh-api",
		JWTAccessTTLMinutes:  15,
		JWTRefreshTTLHours:   24,
		EnrichConcurrency:    2,
		ImageUploadDir:       t.TempDir(),
		ImageMaxUploadSizeMB: 1,
	}
	addresses := addressclient.NewFake()

	srv, err := NewServerWithDeps(cfg, db, rdb, addresses)
	require.NoError(t, err)

	return &testServer{srv: srv, app: srv.App(), db: db, addresses: addresses, redis: mr}
}

// do sends a JSON request and returns the response with its body.
func (ts *testServer) do(t *testing.T, method, path string, body any, token string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return ts.send(t, req, token)
}

func (ts *testServer) send(t *testing.T, req *http.Request, token string) (*http.Response, []byte) {
	t.Helper()
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

// createUser inserts a user directly so its role is fixed before any cached read.
func (ts *testServer) createUser(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	u := &models.User{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Contact:   5551234567,
		About:     "writes",
		Email:     email,
		Password:  string(hash),
		Role:      role,
	}
	require.NoError(t, ts.db.Create(u).Error)
	return u
}

func (ts *testServer) signIn(t *testing.T, email string) dto.JWTAuthenticationResponse {
	t.Helper()
	resp, body := ts.do(t, http.MethodPost, "/api/v1/auth/signIn",
		dto.SignInRequest{Email: email, Password: testPassword}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var tokens dto.JWTAuthenticationResponse
	require.NoError(t, json.Unmarshal(body, &tokens))
	return tokens
}

// userWithToken creates a user and returns it with an access token.
func (ts *testServer) userWithToken(t *testing.T, email string, role models.Role) (*models.User, string) {
	t.Helper()
	u := ts.createUser(t, email, role)
	return u, ts.signIn(t, email).Token
}

func (ts *testServer) category(t *testing.T, title string) *models.Category {
	t.Helper()
	c := &models.Category{Title: title, Description: "all about " + title}
	require.NoError(t, ts.db.Create(c).Error)
	return c
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

func decodeError(t *testing.T, body []byte) models.ErrorResponse {
	t.Helper()
	return decode[models.ErrorResponse](t, body)
}
