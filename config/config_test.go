package config

import (
	"testing"
	"time"

	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/internal/models"
	"github.com/akeren/waitlist-api/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppConfig_Defaults(t *testing.T) {
	t.Setenv("RATE_LIMIT_REQUESTS", "")
	t.Setenv("RATE_LIMIT_WINDOW", "")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("WAITLIST_SUBMIT_RATE_LIMIT", "")

	cfg, err := NewAppConfig()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 30, cfg.SubmitRateLimitRequests)
	assert.Equal(t, 5, cfg.StatsBreakerFailures)
	assert.Equal(t, 30*time.Second, cfg.StatsBreakerRecovery)
}

func TestNewAppConfig_Overrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_REQUESTS", "250")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("WAITLIST_SUBMIT_RATE_LIMIT", "3")
	t.Setenv("STATS_BREAKER_FAILURES", "2")

	cfg, err := NewAppConfig()
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.RateLimitRequests)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3, cfg.SubmitRateLimitRequests)
	assert.Equal(t, 2, cfg.StatsBreakerFailures)
}

func TestNewAppConfig_NonPositiveFallsBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_REQUESTS", "-4")

	cfg, err := NewAppConfig()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.RateLimitRequests)
}

func TestNewAppConfig_RejectsGarbage(t *testing.T) {
	t.Setenv("RATE_LIMIT_WINDOW", "forever")

	_, err := NewAppConfig()
	assert.Error(t, err)
}

func TestSanitizeEnv(t *testing.T) {
	assert.Equal(t, "value", sanitizeEnv(`  "value" `))
	assert.Equal(t, "value", sanitizeEnv(`'value'`))
	assert.Equal(t, `"unbalanced`, sanitizeEnv(`"unbalanced`))
}

func TestBuildDSNFromEnv_PrefersDatabaseURL(t *testing.T) {
	dsn, err := buildDSNFromEnv("postgres://u:p@db:5432/waitlist", log.NewLoggerWithJSONOutput(), defaultDBConfig())
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/waitlist", dsn)
}

func TestBuildDSNFromEnv_ReportsMissingVars(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "")
	t.Setenv("POSTGRES_PORT", "")
	t.Setenv("POSTGRES_USER", "")
	t.Setenv("POSTGRES_DB_NAME", "")

	_, err := buildDSNFromEnv("", log.NewLoggerWithJSONOutput(), defaultDBConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_HOST")
	assert.Contains(t, err.Error(), "POSTGRES_DB_NAME")
}

func TestBuildDSNFromEnv_ComposesKeyValueDSN(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "5432")
	t.Setenv("POSTGRES_USER", "waitlist")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB_NAME", "waitlist")
	t.Setenv("POSTGRES_SSLMODE", "")

	dsn, err := buildDSNFromEnv("", log.NewLoggerWithJSONOutput(), defaultDBConfig())
	require.NoError(t, err)
	assert.Equal(t, "host=db port=5432 user=waitlist password=secret dbname=waitlist sslmode=require", dsn)
}

func TestBuildDSNFromEnv_InvalidPort(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "fivefourthreetwo")
	t.Setenv("POSTGRES_USER", "waitlist")
	t.Setenv("POSTGRES_DB_NAME", "waitlist")

	_, err := buildDSNFromEnv("", log.NewLoggerWithJSONOutput(), defaultDBConfig())
	assert.ErrorContains(t, err, "invalid POSTGRES_PORT")
}

func TestNewDatabase_RejectsUnknownDriver(t *testing.T) {
	_, err := NewDatabase(log.NewLoggerWithJSONOutput(), &DBConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestNewDatabase_SQLiteAndAutoMigrate(t *testing.T) {
	t.Setenv("SQLITE_PATH", t.TempDir()+"/waitlist.db")
	logger := log.NewLoggerWithJSONOutput()

	db, err := NewDatabase(logger, &DBConfig{
		Driver:       DriverSQLite,
		ConnectRetry: &retry.Config{MaxAttempts: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseDatabase(db, logger) })

	require.NoError(t, AutoMigrate(logger, db, models.ModelRegistry...))
	assert.True(t, db.Migrator().HasTable(&models.WaitlistEntry{}))
}

func TestAutoMigrate_NilDB(t *testing.T) {
	assert.Error(t, AutoMigrate(log.NewLoggerWithJSONOutput(), nil))
}

func TestCacheConfig_NotConfigured(t *testing.T) {
	t.Setenv("REDIS_HOST", "")
	logger := log.NewLoggerWithJSONOutput()

	cc := NewCacheConfig()
	assert.False(t, cc.IsConfigured())
	assert.Nil(t, cc.NewCacheOrNil(logger))

	_, err := cc.NewCache(logger)
	assert.ErrorIs(t, err, ErrCacheNotConfigured)
}

func TestApplicationConfigCleanup_AggregatesNothingWhenEmpty(t *testing.T) {
	ac := &ApplicationConfig{Logger: log.NewLoggerWithJSONOutput()}
	assert.NoError(t, ac.Cleanup())
}
