package monitoring

import (
	"context"
	"time"

	"github.com/akeren/waitlist-api/config/router"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/pkg/ratelimit"
	"github.com/heptiolabs/healthcheck"
	"gorm.io/gorm"
)

const (
	probeTimeout       = 2 * time.Second
	maxGoroutines      = 10000
	monitoringRequests = 10
	probeRequests      = 600
)

type Cache interface {
	Ping(ctx context.Context) error
}

type HealthStatus struct {
	Database int `json:"database"` // 1 = healthy, 0 = unhealthy
	Cache    int `json:"cache"`    // 1 = healthy, 0 = unhealthy/not configured
	Uptime   int `json:"uptime"`   // uptime in seconds
}

type MonitoringController struct {
	db        *gorm.DB
	logger    *log.Logger
	cache     Cache
	startTime time.Time
}

func NewMonitoringController(db *gorm.DB, logger *log.Logger, cache Cache) *router.RESTController {
	ctrl := &MonitoringController{
		db:        db,
		logger:    logger,
		cache:     cache,
		startTime: time.Now(),
	}

	return router.NewRESTController(
		"MonitoringController",
		"/",
		func(routerService *router.RouterService, controller *router.RESTController) {
			controller.RateLimitWith(routerService, ratelimit.NewInMemoryRateLimiter(monitoringRequests, time.Minute))

			routerService.AddGetHandler(controller, nil, "", func(c *router.RequestContext) *router.ServiceResult {
				return router.OKResult("Waitlist API is operational.", "Monitoring successful")
			})

			routerService.AddGetHandler(controller, nil, "health", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.healthCheck(routerService, c)
			})

			// Orchestrators poll the probes often, so they get a budget of their own.
			probeRateLimiter := ratelimit.NewInMemoryRateLimiter(probeRequests, time.Minute)
			probes := ctrl.newProbeHandler()
			routerService.AddGetHTTPHandler(controller, probeRateLimiter, "live", probes)
			routerService.AddGetHTTPHandler(controller, probeRateLimiter, "ready", probes)
			routerService.MarkNoStore(controller, "live")
			routerService.MarkNoStore(controller, "ready")
		},
	)
}

// newProbeHandler serves /live (process health) and /ready (dependencies).
// Append ?full=1 for per-check results.
func (ctrl *MonitoringController) newProbeHandler() healthcheck.Handler {
	probes := healthcheck.NewHandler()

	probes.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(maxGoroutines))

	probes.AddReadinessCheck("database", ctrl.databaseCheck())

	if ctrl.cache != nil {
		probes.AddReadinessCheck("cache", healthcheck.Timeout(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
			defer cancel()
			return ctrl.cache.Ping(ctx)
		}, probeTimeout))
	}

	return probes
}

func (ctrl *MonitoringController) databaseCheck() healthcheck.Check {
	sqlDB, err := ctrl.db.DB()
	if err != nil {
		return func() error { return err }
	}
	return healthcheck.DatabasePingCheck(sqlDB, probeTimeout)
}

func (ctrl *MonitoringController) healthCheck(
	routerService *router.RouterService,
	c *router.RequestContext,
) *router.ServiceResult {
	logger := routerService.GetLogger(c)
	logger.Info("Health check endpoint called")
	healthStatus := ctrl.performHealthChecks(c.Request.Context(), logger)

	return router.OKResult(healthStatus, "waitlist-api health check completed")
}

func (ctrl *MonitoringController) performHealthChecks(ctx context.Context, logger *log.Logger) HealthStatus {
	status := HealthStatus{
		Uptime: int(time.Since(ctrl.startTime).Seconds()),
	}

	if ctrl.checkDatabase(ctx) {
		status.Database = 1
		logger.Info("Database health check passed")
	} else {
		logger.Error("Database health check failed")
	}

	switch {
	case ctrl.cache == nil:
		logger.Info("Cache not configured, cache health check skipped")
	case ctrl.cache.Ping(ctx) == nil:
		status.Cache = 1
		logger.Info("Cache health check passed")
	default:
		logger.Error("Cache health check failed")
	}

	return status
}

func (ctrl *MonitoringController) checkDatabase(ctx context.Context) bool {
	sqlDB, err := ctrl.db.DB()
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx) == nil
}
