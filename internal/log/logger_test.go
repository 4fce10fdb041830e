package log

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for raw, want := range cases {
		assert.Equal(t, want, parseLevel(raw), "level %q", raw)
	}
}

func TestGetOrGenerateCorrelationID_UsesContextValue(t *testing.T) {
	ctx := context.WithValue(context.Background(), CorrelatedIDKey, "abc-123")
	assert.Equal(t, "abc-123", GetOrGenerateCorrelationID(ctx))
}

func TestGetOrGenerateCorrelationID_GeneratesWhenMissing(t *testing.T) {
	id := GetOrGenerateCorrelationID(context.Background())
	assert.Len(t, id, 36)
}

func TestGetLoggerInstanceFromContext_PrefersInjectedLogger(t *testing.T) {
	injected := NewLoggerWithJSONOutput()
	ctx := context.WithValue(context.Background(), LoggerKeyForContext, injected)

	assert.Same(t, injected, GetLoggerInstanceFromContext(ctx, NewLoggerWithJSONOutput()))
}

func TestNewLogger_WritesToRotatingFile(t *testing.T) {
	dir := t.TempDir()
	logger := NewLogger(Config{Level: "debug", File: dir + "/app.log", MaxSizeMB: 1})

	logger.Debug("written to file")

	assert.FileExists(t, dir+"/app.log")
}
