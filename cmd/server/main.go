package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/akeren/waitlist-api/config"
	"github.com/akeren/waitlist-api/domain"
	"github.com/akeren/waitlist-api/internal/log"
)

const shutdownGracePeriod = 30 * time.Second

func wantsAutoMigrate(args []string) bool {
	for _, arg := range args {
		switch strings.ToLower(arg) {
		case "--auto-migrate", "-m":
			return true
		}
	}
	return false
}

func main() {
	logger := log.NewLoggerFromEnv()
	os.Exit(run(logger, os.Args[1:]))
}

func run(logger *log.Logger, args []string) int {
	logger.Info("Waitlist API server initializing")

	appConfig, err := config.LoadApplicationConfiguration(logger, wantsAutoMigrate(args))
	if err != nil {
		logger.Error("Failed to load application configuration", "error", err)
		return 1
	}
	defer func() {
		if err := appConfig.Cleanup(); err != nil {
			logger.Error("Cleanup reported errors", "error", err)
		}
	}()

	domain.SetupCoreDomain(appConfig)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- appConfig.RouterService.RunHTTPServer()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", "error", err)
			return 1
		}
		return 0
	case <-ctx.Done():
		logger.Info("Shutdown signal received, draining connections", "grace_period", shutdownGracePeriod)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()

	if err := appConfig.RouterService.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
		return 1
	}

	logger.Info("Graceful shutdown completed")
	return 0
}
