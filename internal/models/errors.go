package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeValidation        = "VALIDATION_ERROR"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeRemoteUnavailable = "REMOTE_UNAVAILABLE"
	CodeInternal          = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Message string            `json:"message"`
	Success bool              `json:"success"`
	Code    string            `json:"code,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Details string            `json:"details,omitempty"`
}

// APIResponse is the acknowledgement body returned by delete endpoints.
type APIResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error

	// Resource, Field and Value identify the missing record of a NOT_FOUND error.
	Resource string
	Field    string
	Value    string

	// Fields maps request fields to constraint messages for VALIDATION_ERROR.
	Fields map[string]string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource, field string, value any) *AppError {
	v := fmt.Sprintf("%v", value)
	return &AppError{
		Code:     CodeNotFound,
		Message:  fmt.Sprintf("%s not found with %s : %s", resource, field, v),
		Resource: resource,
		Field:    field,
		Value:    v,
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewFieldValidationError reports per-field constraint violations.
func NewFieldValidationError(fields map[string]string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: "Validation failed",
		Fields:  fields,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

// NewRemoteUnavailableError wraps a failed call to a collaborating service.
func NewRemoteUnavailableError(service string, err error) *AppError {
	return &AppError{
		Code:    CodeRemoteUnavailable,
		Message: service + " is unavailable",
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// StatusFor returns the HTTP status that represents the error code.
func StatusFor(code string) int {
	switch code {
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeValidation:
		return fiber.StatusBadRequest
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeRemoteUnavailable:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Message: appErr.Message,
			Code:    appErr.Code,
			Errors:  appErr.Fields,
		}
		if appErr.Err != nil && exposeDetails {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Message: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}

var exposeDetails = true

// SetExposeErrorDetails controls whether wrapped causes are written to responses.
// Production servers turn this off.
func SetExposeErrorDetails(expose bool) {
	exposeDetails = expose
}
