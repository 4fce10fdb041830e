package router

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/akeren/waitlist-api/internal/log"
)

var errNonPositiveID = errors.New("id must be a positive integer")

// GetLogger returns the request-scoped logger injected by the router, or a
// fresh one tagged with the request's correlation id.
func GetLogger(ctx *RequestContext) *log.Logger {
	return log.GetLoggerInstanceFromContext(ctx.Request.Context(), nil)
}

func ErrorResult(statusCode int, message string, data any) *ServiceResult {
	return &ServiceResult{StatusCode: statusCode, Data: data, Message: message}
}

func OKResult(data any, message string) *ServiceResult {
	return ErrorResult(http.StatusOK, message, data)
}

func BadRequestResult(message string, payload any) *ServiceResult {
	return ErrorResult(http.StatusBadRequest, message, payload)
}

func NotFoundResult(message string) *ServiceResult {
	return ErrorResult(http.StatusNotFound, message, nil)
}

func InternalServerErrorResult(message string) *ServiceResult {
	return ErrorResult(http.StatusInternalServerError, message, nil)
}

func TooManyRequestsResult(data RateLimitResponse) *ServiceResult {
	return ErrorResult(http.StatusTooManyRequests, "Too Many Requests", data)
}

// BodyResult writes body verbatim instead of the {code,data,message} envelope,
// for routes whose wire format is fixed by existing clients.
func BodyResult(statusCode int, body any) *ServiceResult {
	return &ServiceResult{StatusCode: statusCode, body: body}
}

// ParseIDQuery reads a positive integer id from the query string. present is
// false when the parameter is missing or blank.
func ParseIDQuery(ctx *RequestContext, name string) (id uint, present bool, err error) {
	raw, _ := ctx.GetQuery(name)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}

	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, true, err
	}
	if parsed == 0 {
		return 0, true, errNonPositiveID
	}
	return uint(parsed), true, nil
}
