package utils

import (
	"os"
	"strconv"
	"strings"
)

const defaultServiceName = "waitlist-api"

// EnvString returns the trimmed value of key, or fallback when it is unset or blank.
func EnvString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// EnvBool returns fallback when key is unset or does not parse as a bool.
func EnvBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(EnvString(key, ""))
	if err != nil {
		return fallback
	}
	return b
}

func TracingEnabled() bool {
	return EnvBool("OTEL_TRACES_ENABLED", false)
}

func ServiceName() string {
	return EnvString("OTEL_SERVICE_NAME", defaultServiceName)
}
