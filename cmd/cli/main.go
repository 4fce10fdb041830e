package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/akeren/waitlist-api/config"
	"github.com/akeren/waitlist-api/domain/stats"
	"github.com/akeren/waitlist-api/domain/waitlist"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/internal/models"
	"github.com/akeren/waitlist-api/pkg/migrations"
	"github.com/akeren/waitlist-api/pkg/utils"
	"gorm.io/gorm"
)

func main() {
	logger := log.NewLoggerFromEnv()

	config.InitializeEnvFile(logger) // Load envs early for CLI consistency

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "help", "-h", "--help":
		printUsage()
		return
	case "migrate", "list", "delete", "stats":
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}

	db, err := config.NewDatabase(logger, &config.DBConfig{})
	if err != nil {
		logger.Error("Failed to connect to database", "error", err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	err = run(ctx, db, logger, args)
	cancel()

	if closeErr := config.CloseDatabase(db, logger); closeErr != nil {
		logger.Warn("Failed to close database", "error", closeErr.Error())
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, db *gorm.DB, logger *log.Logger, args []string) error {
	switch args[0] {
	case "migrate":
		direction := "up"
		if len(args) > 1 {
			direction = args[1]
		}
		return runMigrate(ctx, db, logger, direction)

	case "list":
		service := waitlist.NewWaitlistServiceFactory(db, logger, nil).CreateService()
		return runList(ctx, os.Stdout, service)

	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: cli delete <id>")
		}
		service := waitlist.NewWaitlistServiceFactory(db, logger, nil).CreateService()
		return runDelete(ctx, os.Stdout, service, args[1])

	case "stats":
		service := stats.NewStatsServiceFactory(db, logger, nil).CreateService()
		return runStats(ctx, os.Stdout, service)
	}

	return fmt.Errorf("unknown command: %s", args[0])
}

func runMigrate(ctx context.Context, db *gorm.DB, logger *log.Logger, direction string) error {
	if db.Dialector.Name() == config.DriverSQLite {
		if direction != "up" {
			return fmt.Errorf("migrate %s is only supported on postgres", direction)
		}
		return config.AutoMigrate(logger, db, models.ModelRegistry...)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get SQL DB instance: %w", err)
	}

	cfg := migrations.Config{
		Dir:    utils.EnvString("MIGRATIONS_DIR", "migrations"),
		Logger: logger,
	}

	switch direction {
	case "up":
		return migrations.Up(ctx, sqlDB, cfg)
	case "down":
		if err := config.ValidateAutoMigrateAllowed(config.GetAppEnv()); err != nil {
			return fmt.Errorf("refusing to roll back: %w", err)
		}
		return migrations.Down(ctx, sqlDB, cfg)
	default:
		return fmt.Errorf("unknown migrate direction %q (want up or down)", direction)
	}
}

func printUsage() {
	fmt.Println("Usage: cli <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate [up|down]  Apply (or roll back) database migrations and exit")
	fmt.Println("  list               Print every waitlist entry, newest first")
	fmt.Println("  delete <id>        Remove a waitlist entry")
	fmt.Println("  stats              Print total and today's signup counts")
}
