package errors

import (
	"errors"
	"fmt"
	"strings"
)

const (
	StatusOK                  = 200
	StatusCreated             = 201
	StatusBadRequest          = 400
	StatusNotFound            = 404
	StatusMethodNotAllowed    = 405
	StatusRequestTimeout      = 408
	StatusConflict            = 409
	StatusTooManyRequests     = 429
	StatusInternalServerError = 500
	StatusServiceUnavailable  = 503
)

const (
	ErrorTypeInvalidRequest      = "INVALID_REQUEST"
	ErrorTypeNotFound            = "NOT_FOUND"
	ErrorTypeConflict            = "CONFLICT"
	ErrorTypeDatabaseError       = "DATABASE_ERROR"
	ErrorTypeInternalServerError = "INTERNAL_SERVER_ERROR"
	ErrorTypeUnknown             = "UNKNOWN_ERROR"
)

// AppError pairs a classification with a client-safe message. Err holds the
// underlying cause and only ever reaches the logs.
type AppError struct {
	Type    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Type + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

func newAppError(errType, message string, err error) *AppError {
	return &AppError{Type: errType, Message: message, Err: err}
}

func NewInvalidRequestError(message string, err error) *AppError {
	return newAppError(ErrorTypeInvalidRequest, message, err)
}

func NewNotFoundError(message string, err error) *AppError {
	return newAppError(ErrorTypeNotFound, message, err)
}

// NewConflictError marks a write rejected by a uniqueness rule.
func NewConflictError(message string, err error) *AppError {
	return newAppError(ErrorTypeConflict, message, err)
}

func NewDatabaseError(message string, err error) *AppError {
	return newAppError(ErrorTypeDatabaseError, message, err)
}

func IsType(err error, errType string) bool {
	return GetErrorType(err) == errType
}

// GetErrorType returns "" for nil and ErrorTypeUnknown for errors that were
// never classified.
func GetErrorType(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeUnknown
}

var duplicateKeyFragments = []string{
	"duplicate key",
	"unique constraint",
	"violates unique",
}

// IsDuplicateKeyError matches driver messages that escaped the typed checks in
// IsUniqueViolation, e.g. errors flattened by a wrapper into plain strings.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, fragment := range duplicateKeyFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
