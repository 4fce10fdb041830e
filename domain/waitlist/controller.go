package waitlist

import (
	"net/http"

	"github.com/akeren/waitlist-api/config/router"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
	"github.com/akeren/waitlist-api/pkg/factory"
	"github.com/akeren/waitlist-api/pkg/ratelimit"
)

// NewWaitlistController mounts /waitlist. Bodies are written without the
// envelope because browser clients depend on the bare {message,userId} and
// {users} shapes.
func NewWaitlistController(service WaitlistService, submitLimiters factory.RateLimiterFactory) *router.RESTController {
	return router.NewRESTController(
		"WaitlistController",
		"/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			var submitLimiter ratelimit.RateLimiter
			if submitLimiters != nil {
				submitLimiter = submitLimiters.CreateRateLimiter()
			}

			rs.AddPostHandler(c, submitLimiter, "", submitEntryHandler(service))
			rs.AddGetHandler(c, nil, "", listEntriesHandler(service))
			rs.AddDeleteHandler(c, nil, "", deleteEntryHandler(service))
		},
	)
}

func submitEntryHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req SubmitEntryRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind waitlist submission", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BodyResult(http.StatusBadRequest, MessageResponse{
					Message: msgValidation,
					Errors:  validationErrors,
				})
			}

			return router.BodyResult(http.StatusBadRequest, MessageResponse{Message: msgInvalidBody})
		}

		response, err := service.SubmitEntry(ctx.Request.Context(), req.Email)
		if err != nil {
			return messageErrorResult(err)
		}

		return router.BodyResult(http.StatusCreated, response)
	}
}

func listEntriesHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		entries, err := service.ListEntries(ctx.Request.Context())
		if err != nil {
			return messageErrorResult(err)
		}

		return router.BodyResult(http.StatusOK, ListEntriesResponse{Users: entries})
	}
}

func deleteEntryHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		id, present, err := router.ParseIDQuery(ctx, "id")
		if !present {
			return router.BodyResult(http.StatusBadRequest, MessageResponse{Message: msgMissingID})
		}
		if err != nil {
			logger.Warn("Invalid id query parameter", "value", ctx.Query("id"), "error", err)
			return router.BodyResult(http.StatusBadRequest, MessageResponse{Message: msgInvalidID})
		}

		if err := service.DeleteEntry(ctx.Request.Context(), id); err != nil {
			return messageErrorResult(err)
		}

		return router.BodyResult(http.StatusOK, MessageResponse{Message: msgDeleted})
	}
}

func messageErrorResult(err error) *router.ServiceResult {
	return router.BodyResult(
		apperrors.HTTPStatusCode(err),
		MessageResponse{Message: apperrors.GetHumanReadableMessage(err)},
	)
}
