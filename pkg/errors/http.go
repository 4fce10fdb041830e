package errors

import "errors"

const fallbackMessage = "An unexpected error occurred"

var statusByType = map[string]int{
	ErrorTypeInvalidRequest:      StatusBadRequest,
	ErrorTypeNotFound:            StatusNotFound,
	ErrorTypeConflict:            StatusConflict,
	ErrorTypeDatabaseError:       StatusInternalServerError,
	ErrorTypeInternalServerError: StatusInternalServerError,
}

// HTTPStatusCode maps a classified error to its response status. Anything
// unclassified is a 500.
func HTTPStatusCode(err error) int {
	if status, ok := statusByType[GetErrorType(err)]; ok {
		return status
	}
	return StatusInternalServerError
}

// GetHumanReadableMessage never exposes the wrapped cause; driver and network
// text stays in the logs.
func GetHumanReadableMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallbackMessage
}
