// Package httputil holds the request parsing and error envelope helpers shared
// by the HTTP servers.
package httputil

import (
	"errors"
	"strconv"

	"blogmesh/internal/middleware"
	"blogmesh/internal/models"
	"blogmesh/internal/pagination"

	"github.com/gofiber/fiber/v2"
)

// ErrResponseWritten signals that a helper already wrote the HTTP response.
var ErrResponseWritten = errors.New("response already written")

// ParseID parses a positive numeric route param. On failure it writes a 400
// response and returns ErrResponseWritten.
func ParseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 32)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError(map[string]string{param: "must be a positive integer"}))
		return 0, ErrResponseWritten
	}
	return uint(id), nil
}

// IgnoreWritten returns nil when a helper already answered the request.
func IgnoreWritten(err error) error {
	if errors.Is(err, ErrResponseWritten) {
		return nil
	}
	return err
}

// ParseBody decodes the JSON body into dst or answers 400.
func ParseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return ErrResponseWritten
	}
	return nil
}

// PageRequest reads the pageNo, pageSize, sortBy and sortDir query params.
func PageRequest(c *fiber.Ctx) pagination.Request {
	return pagination.NewRequest(c.Query("pageNo"), c.Query("pageSize"), c.Query("sortBy"), c.Query("sortDir"))
}

// ServiceError writes err using the status that matches its AppError code.
// Errors that are not AppErrors are reported as internal errors.
func ServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		appErr = models.NewInternalError(err)
	}
	status := models.StatusFor(appErr.Code)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			"method", c.Method(), "path", c.Path(), "error", err)
	}
	return models.RespondWithError(c, status, appErr)
}

// Deleted acknowledges a successful delete.
func Deleted(c *fiber.Ctx, message string) error {
	return c.JSON(models.APIResponse{Message: message, Success: true})
}

// ErrorHandler renders unhandled errors, including fiber's own 404 and 405
// errors, in the standard error envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{
			Message: fe.Message,
			Code:    codeForStatus(fe.Code),
		})
	}
	return ServiceError(c, err)
}

// NewApp returns a fiber app whose errors use the standard error envelope.
func NewApp(name string, bodyLimit int) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      name,
		BodyLimit:    bodyLimit,
		ErrorHandler: ErrorHandler,
	})
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return models.CodeNotFound
	case fiber.StatusUnauthorized:
		return models.CodeUnauthorized
	case fiber.StatusForbidden:
		return models.CodeForbidden
	case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge, fiber.StatusUnprocessableEntity, fiber.StatusMethodNotAllowed:
		return models.CodeValidation
	default:
		return models.CodeInternal
	}
}
