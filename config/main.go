package config

import (
	"context"
	"fmt"
	"time"

	"github.com/akeren/waitlist-api/config/router"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/internal/models"
	"github.com/akeren/waitlist-api/pkg/constants"
	"github.com/caarlos0/env/v11"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

type ApplicationConfig struct {
	DB              *gorm.DB
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	Config          *AppConfig
	TracingShutdown func(context.Context) error
}

type AppConfig struct {
	RateLimitRequests       int           `env:"RATE_LIMIT_REQUESTS"`
	RateLimitWindow         time.Duration `env:"RATE_LIMIT_WINDOW"`
	RequestTimeout          time.Duration `env:"REQUEST_TIMEOUT"`
	SubmitRateLimitRequests int           `env:"WAITLIST_SUBMIT_RATE_LIMIT"`
	StatsBreakerFailures    int           `env:"STATS_BREAKER_FAILURES"`
	StatsBreakerRecovery    time.Duration `env:"STATS_BREAKER_RECOVERY"`
}

// NewAppConfig reads the tunables from the environment. Non-positive values fall
// back to the defaults; values that do not parse are reported.
func NewAppConfig() (*AppConfig, error) {
	config := &AppConfig{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse app config: %w", err)
	}

	if config.RateLimitRequests <= 0 {
		config.RateLimitRequests = constants.DefaultRateLimitRequests
	}
	if config.RateLimitWindow <= 0 {
		config.RateLimitWindow = constants.DefaultRateLimitWindow()
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = router.DefaultTimeoutDuration
	}
	if config.SubmitRateLimitRequests <= 0 {
		config.SubmitRateLimitRequests = constants.DefaultSubmitRateLimitRequests
	}
	if config.StatsBreakerFailures <= 0 {
		config.StatsBreakerFailures = 5
	}
	if config.StatsBreakerRecovery <= 0 {
		config.StatsBreakerRecovery = 30 * time.Second
	}

	return config, nil
}

// Cleanup releases every resource and reports all close failures together.
func (ac *ApplicationConfig) Cleanup() error {
	var errs error

	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
			errs = multierr.Append(errs, err)
		}
	}

	if ac.DB != nil {
		errs = multierr.Append(errs, CloseDatabase(ac.DB, ac.Logger))
	}

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	if ac.Cache != nil {
		errs = multierr.Append(errs, CloseCache(ac.Cache, ac.Logger))
	}

	ac.Logger.Info("Application cleanup completed", "errors", len(multierr.Errors(errs)))
	return errs
}

func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	appEnv := GetAppEnv()
	if autoMigrate {
		if err := ValidateAutoMigrateAllowed(appEnv); err != nil {
			return nil, err
		}
		if appEnv == "" {
			logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
		}
	}

	appConfig, err := NewAppConfig()
	if err != nil {
		return nil, err
	}

	tracingShutdown, err := SetupTracing(logger)
	if err != nil {
		return nil, err
	}

	db, err := NewDatabase(logger, &DBConfig{})
	if err != nil {
		return nil, err
	}

	if autoMigrate {
		if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
			_ = CloseDatabase(db, logger)
			return nil, err
		}
	}

	cache := NewCacheConfig().NewCacheOrNil(logger)

	routerService := router.CreateRouterService(logger, cache, &router.RouterConfig{
		RateLimitRequests: appConfig.RateLimitRequests,
		RateLimitWindow:   appConfig.RateLimitWindow,
		RequestTimeout:    appConfig.RequestTimeout,
	})

	logger.Info("Application configuration loaded successfully", "app_env", appEnv)

	return &ApplicationConfig{
		DB:              db,
		RouterService:   routerService,
		Logger:          logger,
		Cache:           cache,
		Config:          appConfig,
		TracingShutdown: tracingShutdown,
	}, nil
}
