package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/pkg/retry"
	"github.com/caarlos0/env/v11"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DBConfig struct {
	Driver          string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	SSLMode         string // Default: "require" for prod safety
	ConnectRetry    *retry.Config
}

func defaultDBConfig() *DBConfig {
	return &DBConfig{
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: time.Minute,
		SSLMode:         "require",
	}
}

func (cfg *DBConfig) applyDefaults() {
	defaults := defaultDBConfig()

	if cfg.Driver == "" {
		cfg.Driver = strings.ToLower(sanitizeEnv(GetValueFromEnvironmentVariable("DB_DRIVER", DriverPostgres)))
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = defaults.MaxIdleConns
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = defaults.MaxOpenConns
	}
	if cfg.ConnMaxLifetime <= 0 {
		cfg.ConnMaxLifetime = defaults.ConnMaxLifetime
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = defaults.SSLMode
	}
}

func NewDatabase(logger *log.Logger, cfg *DBConfig) (*gorm.DB, error) {
	if cfg == nil {
		cfg = &DBConfig{}
	}
	cfg.applyDefaults()

	dialector, err := buildDialector(logger, cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to database", "driver", cfg.Driver, "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		logger.Error("Failed to get database instance", "error", err)
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// One writer at a time; extra connections only produce SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	policy := retry.NewExponentialBackoff(cfg.ConnectRetry)
	err = policy.Execute(ctx, func() error {
		pingErr := sqlDB.PingContext(ctx)
		if pingErr != nil {
			logger.Warn("Database ping failed", "error", pingErr)
		}
		return pingErr
	})
	if err != nil {
		logger.Error("Database ping failed", "error", err)
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Database connection established successfully", "driver", cfg.Driver)
	return gdb, nil
}

func buildDialector(logger *log.Logger, cfg *DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverSQLite:
		path := sanitizeEnv(GetValueFromEnvironmentVariable("SQLITE_PATH", "waitlist.db"))
		logger.Info("Using SQLite database", "path", path)
		return sqlite.Open(path), nil
	case DriverPostgres:
		appDatabaseURL := sanitizeEnv(GetValueFromEnvironmentVariable("APP_DATABASE_URL", ""))
		dsn, err := buildDSNFromEnv(appDatabaseURL, logger, cfg)
		if err != nil {
			return nil, err
		}
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (supported: %s, %s)", cfg.Driver, DriverPostgres, DriverSQLite)
	}
}

// postgresEnv holds the discrete connection settings used when
// APP_DATABASE_URL is not set.
type postgresEnv struct {
	Host     string `env:"POSTGRES_HOST"`
	Port     string `env:"POSTGRES_PORT"`
	User     string `env:"POSTGRES_USER"`
	Password string `env:"POSTGRES_PASSWORD"`
	DBName   string `env:"POSTGRES_DB_NAME"`
	SSLMode  string `env:"POSTGRES_SSLMODE"`
}

func loadPostgresEnv() (*postgresEnv, error) {
	pe := &postgresEnv{}
	if err := env.Parse(pe); err != nil {
		return nil, fmt.Errorf("parse postgres env: %w", err)
	}

	for _, field := range []*string{&pe.Host, &pe.Port, &pe.User, &pe.Password, &pe.DBName, &pe.SSLMode} {
		*field = sanitizeEnv(*field)
	}
	return pe, nil
}

func (pe *postgresEnv) missing() []string {
	required := []struct{ name, value string }{
		{"POSTGRES_HOST", pe.Host},
		{"POSTGRES_PORT", pe.Port},
		{"POSTGRES_USER", pe.User},
		{"POSTGRES_DB_NAME", pe.DBName},
	}

	var names []string
	for _, r := range required {
		if r.value == "" {
			names = append(names, r.name)
		}
	}
	return names
}

func buildDSNFromEnv(appDatabaseURL string, logger *log.Logger, cfg *DBConfig) (string, error) {
	if strings.TrimSpace(appDatabaseURL) != "" {
		logger.Info("Using APP_DATABASE_URL for database connection")
		return appDatabaseURL, nil
	}

	pe, err := loadPostgresEnv()
	if err != nil {
		return "", err
	}

	if missing := pe.missing(); len(missing) > 0 {
		logger.Error("Missing required database environment variables", "missing_vars", strings.Join(missing, ", "))
		return "", fmt.Errorf("missing required database env vars: %s", strings.Join(missing, ", "))
	}

	port, err := strconv.Atoi(pe.Port)
	if err != nil {
		return "", fmt.Errorf("invalid POSTGRES_PORT %q: %w", pe.Port, err)
	}

	sslMode := pe.SSLMode
	if sslMode == "" {
		sslMode = cfg.SSLMode
	}

	logger.Info("Connecting to database", "host", pe.Host, "port", port, "user", pe.User, "dbname", pe.DBName, "sslmode", sslMode)
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		pe.Host, port, pe.User, pe.Password, pe.DBName, sslMode), nil
}

func sanitizeEnv(v string) string {
	s := strings.TrimSpace(v)

	if len(s) >= 2 && ((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')) {
		s = s[1 : len(s)-1]
	}

	return s
}

func AutoMigrate(logger *log.Logger, db *gorm.DB, models ...interface{}) error {
	if db == nil {
		logger.Error("Cannot migrate: db is empty")
		return fmt.Errorf("cannot migrate: db is empty")
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Database migration failed", "error", err)
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	logger.Info("Database migration completed successfully")

	return nil
}

func CloseDatabase(db *gorm.DB, logger *log.Logger) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get SQL DB instance", "error", err)
		return err
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
		return err
	}

	logger.Info("Database closed successfully")
	return nil
}
