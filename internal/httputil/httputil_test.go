package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"blogmesh/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", models.NewNotFoundError("Post", "id", 3), http.StatusNotFound, models.CodeNotFound},
		{"validation", models.NewFieldValidationError(map[string]string{"title": "required"}), http.StatusBadRequest, models.CodeValidation},
		{"forbidden", models.NewForbiddenError("no"), http.StatusForbidden, models.CodeForbidden},
		{"remote", models.NewRemoteUnavailableError("Address service", errors.New("down")), http.StatusBadGateway, models.CodeRemoteUnavailable},
		{"plain error", errors.New("driver exploded"), http.StatusInternalServerError, models.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return ServiceError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			var body models.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, body.Code)
			assert.False(t, body.Success)
		})
	}
}

func TestParseID(t *testing.T) {
	app := fiber.New()
	app.Get("/:id", func(c *fiber.Ctx) error {
		id, err := ParseID(c, "id")
		if err != nil {
			return IgnoreWritten(err)
		}
		return c.JSON(fiber.Map{"id": id})
	})

	for path, status := range map[string]int{"/12": 200, "/0": 400, "/-1": 400, "/x": 400} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, status, resp.StatusCode, path)
	}
}

func TestErrorHandler_FiberErrors(t *testing.T) {
	app := NewApp("test", 0)
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusForbidden, "nope") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/teapot", nil), -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, models.CodeForbidden, body.Code)
	assert.Equal(t, "nope", body.Message)
}
