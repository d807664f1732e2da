package serverutils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// AppError is the error taxonomy the mutation API propagates: not-found
// (room code or id does not resolve), conflict (duplicate participant name)
// and store (any underlying request failure, wrapping the cause).
type AppError struct {
	Status  int
	Code    string
	Message string
	Err     error
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

func NewNotFoundError(message string) *AppError {
	return &AppError{Status: fiber.StatusNotFound, Code: "NOT_FOUND", Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Status: fiber.StatusConflict, Code: "CONFLICT", Message: message}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Code: "BAD_REQUEST", Message: message}
}

// NewStoreError wraps an underlying store failure with context.
func NewStoreError(message string, err error) *AppError {
	return &AppError{Status: fiber.StatusInternalServerError, Code: "STORE_ERROR", Message: message, Err: err}
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
