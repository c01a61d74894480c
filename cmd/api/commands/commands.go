package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/disciplineos/core/internal/adapters/repository"
	"github.com/disciplineos/core/internal/application/services"
	"github.com/disciplineos/core/internal/domain/entities"
	"github.com/disciplineos/core/internal/infrastructure/config"
	"github.com/disciplineos/core/internal/infrastructure/database"
	"github.com/disciplineos/core/internal/infrastructure/logger"
	"github.com/disciplineos/core/internal/infrastructure/scheduler"
	"github.com/disciplineos/core/internal/infrastructure/server"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the DisciplineOS API server",
		Long:  "Start the DisciplineOS API server with all configured routes, middleware and the day-end scheduler",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage database migrations (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("up", 0)
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("down", 0)
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		Run: func(cmd *cobra.Command, args []string) {
			showMigrationVersion()
		},
	})

	return migrateCmd
}

// NewStreakCommand creates the streak maintenance command
func NewStreakCommand() *cobra.Command {
	streakCmd := &cobra.Command{
		Use:   "streak",
		Short: "Streak maintenance commands",
		Long:  "Repair streak counters by replaying finalized day history",
	}

	repairCmd := &cobra.Command{
		Use:   "repair",
		Short: "Recompute a user's streak from finalized records",
		Run: func(cmd *cobra.Command, args []string) {
			userID, _ := cmd.Flags().GetString("user")
			start, _ := cmd.Flags().GetString("start")
			end, _ := cmd.Flags().GetString("end")

			if userID == "" || start == "" || end == "" {
				log.Fatal("--user, --start and --end are required")
			}

			repairStreak(userID, start, end)
		},
	}

	repairCmd.Flags().String("user", "", "User ID (required)")
	repairCmd.Flags().String("start", "", "Range start date YYYY-MM-DD (required)")
	repairCmd.Flags().String("end", "", "Range end date YYYY-MM-DD (required)")

	streakCmd.AddCommand(repairCmd)
	return streakCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print DisciplineOS version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("DisciplineOS Core v1.0.0")
		},
	}
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	db, err := database.New(cfg.Database)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	srv, err := server.New(cfg, db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize server", "error", err)
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		profileRepo := repository.NewProfileRepository(db.DB)
		sched, err = scheduler.New(cfg.Scheduler, srv.DayService, profileRepo, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize scheduler", "error", err)
		}
		sched.Start()
	}

	appLogger.Info("Starting DisciplineOS API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
	)

	go func() {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
			appLogger.Error("Server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if sched != nil {
		sched.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Graceful shutdown failed", "error", err)
	}
}

func runMigration(direction string, steps int) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		log.Fatalf("Failed to create migration driver: %v", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		log.Fatalf("Failed to create migration instance: %v", err)
	}

	switch direction {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
	}

	if err != nil && err != migrate.ErrNoChange {
		log.Fatalf("Migration failed: %v", err)
	}

	if err == migrate.ErrNoChange {
		fmt.Println("No migrations to run")
	} else {
		fmt.Printf("Migration %s completed successfully\n", direction)
	}
}

func showMigrationVersion() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		log.Fatalf("Failed to create migration driver: %v", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		log.Fatalf("Failed to create migration instance: %v", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		log.Fatalf("Failed to get migration version: %v", err)
	}

	fmt.Printf("Current migration version: %d\n", version)
	fmt.Printf("Dirty: %t\n", dirty)
}

func repairStreak(rawUserID, start, end string) {
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		log.Fatalf("Invalid user ID: %v", err)
	}
	if _, err := time.Parse("2006-01-02", start); err != nil {
		log.Fatalf("Invalid start date: %v", err)
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		log.Fatalf("Invalid end date: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	streakRepo := repository.NewStreakRepository(db.DB)
	recordRepo := repository.NewDailyRecordRepository(db.DB)
	streakService := services.NewStreakService(streakRepo, recordRepo, appLogger)

	data, err := streakService.Recompute(context.Background(), userID, entities.Date(start), entities.Date(end))
	if err != nil {
		log.Fatalf("Streak repair failed: %v", err)
	}

	fmt.Printf("Streak repaired for %s:\n", userID)
	fmt.Printf("  Current: %d\n", data.Current)
	fmt.Printf("  Longest: %d\n", data.Longest)
	if data.LastSafeDate != nil {
		fmt.Printf("  Last safe date: %s\n", *data.LastSafeDate)
	}
}
