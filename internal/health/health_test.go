package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"blogmesh/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readyBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func ready(t *testing.T, h *Checker) (int, readyBody) {
	t.Helper()
	app := fiber.New()
	h.Register(app)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil), -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body readyBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestReady_WithoutRedis(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	status, body := ready(t, NewChecker("blogmesh-api", db, nil))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "disabled", body.Checks["redis"])
}

func TestReady_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	status, body := ready(t, NewChecker("blogmesh-api", testutil.NewSQLiteDB(t), rdb))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body.Checks["redis"])

	mr.Close()
	status, body = ready(t, NewChecker("blogmesh-api", testutil.NewSQLiteDB(t), rdb))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "unhealthy", body.Checks["redis"])
}

func TestReady_DatabaseDown(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	status, body := ready(t, NewChecker("blogmesh-address", db, nil))
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "unhealthy", body.Checks["database"])
}

func TestLive(t *testing.T) {
	app := fiber.New()
	NewChecker("blogmesh-api", nil, nil).Register(app)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil), -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
