package stats

import (
	"errors"
	"net/http"

	"github.com/akeren/waitlist-api/config/router"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
)

const msgStatsFailure = "Failed to fetch statistics"

// NewStatsController mounts /stats. Every response, errors and rate-limit
// rejections included, is marked no-store because clients poll it.
func NewStatsController(service StatsService) *router.RESTController {
	return router.NewRESTController(
		"StatsController",
		"/stats",
		func(rs *router.RouterService, c *router.RESTController) {
			rs.AddGetHandler(c, nil, "", getStatsHandler(service))
			rs.MarkNoStore(c, "")
		},
	)
}

func getStatsHandler(service StatsService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		stats, err := service.Compute(ctx.Request.Context())
		if err != nil {
			return router.BodyResult(http.StatusInternalServerError, ErrorResponse{
				Error:   msgStatsFailure,
				Details: errorDetails(err),
			})
		}

		return router.BodyResult(http.StatusOK, stats)
	}
}

// errorDetails prefers the underlying cause over the AppError wrapper text.
func errorDetails(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Err != nil {
		return appErr.Err.Error()
	}
	return err.Error()
}
