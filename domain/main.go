package domain

import (
	"github.com/akeren/waitlist-api/config"
	"github.com/akeren/waitlist-api/domain/monitoring"
	"github.com/akeren/waitlist-api/domain/stats"
	"github.com/akeren/waitlist-api/domain/waitlist"
	"github.com/akeren/waitlist-api/pkg/circuitbreaker"
	"github.com/akeren/waitlist-api/pkg/factory"
)

const submitLimiterKeyPrefix = "ratelimit:waitlist-submit:"

func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	rs := appConfig.RouterService
	cfg := appConfig.Config

	rs.MountController(monitoring.NewMonitoringControllerFactory(appConfig.DB, appConfig.Logger, appConfig.Cache).CreateController())

	submitLimiters := factory.NewDefaultRateLimiterFactory(
		cfg.SubmitRateLimitRequests,
		cfg.RateLimitWindow,
		submitLimiterKeyPrefix,
		appConfig.Cache,
		appConfig.Logger,
	)
	rs.MountController(waitlist.NewWaitlistServiceFactory(appConfig.DB, appConfig.Logger, submitLimiters).CreateController())

	rs.MountController(stats.NewStatsServiceFactory(appConfig.DB, appConfig.Logger, &circuitbreaker.Config{
		FailureThreshold: cfg.StatsBreakerFailures,
		RecoveryTimeout:  cfg.StatsBreakerRecovery,
		SuccessThreshold: 1,
	}).CreateController())
}
