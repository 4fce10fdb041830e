package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/akeren/waitlist-api/internal/log"
	"github.com/joho/godotenv"
)

const AppEnvKey = "APP_ENV"

// developmentEnvs may create or drop schema from inside the application.
var developmentEnvs = map[string]struct{}{
	"":            {},
	"dev":         {},
	"development": {},
	"local":       {},
	"test":        {},
	"testing":     {},
}

// InitializeEnvFile loads .env into the process environment without
// overriding variables that are already set. SKIP_DOTENV=true disables it.
func InitializeEnvFile(logger *log.Logger) {
	if strings.EqualFold(os.Getenv("SKIP_DOTENV"), "true") {
		logger.Info("Skipping .env file load (SKIP_DOTENV=true)")
		return
	}

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", "error", err.Error())
		return
	}
	logger.Info("Environment variables loaded from .env")
}

// GetValueFromEnvironmentVariable distinguishes "unset" from "set to empty".
func GetValueFromEnvironmentVariable(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func GetAppEnv() string {
	return normalizeAppEnv(os.Getenv(AppEnvKey))
}

func normalizeAppEnv(appEnv string) string {
	return strings.ToLower(strings.TrimSpace(appEnv))
}

func IsDevelopmentEnv(appEnv string) bool {
	_, ok := developmentEnvs[normalizeAppEnv(appEnv)]
	return ok
}

// ValidateAutoMigrateAllowed guards --auto-migrate and "migrate down", which
// must never run against a shared environment.
func ValidateAutoMigrateAllowed(appEnv string) error {
	if IsDevelopmentEnv(appEnv) {
		return nil
	}
	return fmt.Errorf("schema changes from the application are not allowed when %s=%q; use the migrate command with SQL migrations", AppEnvKey, normalizeAppEnv(appEnv))
}
