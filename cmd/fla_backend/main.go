package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/floatops/float_ledger_app/internal/core/services"
	"github.com/floatops/float_ledger_app/internal/handlers"
	"github.com/floatops/float_ledger_app/internal/middleware"
	"github.com/floatops/float_ledger_app/internal/platform/config"
	"github.com/floatops/float_ledger_app/internal/repositories/database/pgsql"
	"github.com/floatops/float_ledger_app/internal/scheduler"
	"github.com/floatops/float_ledger_app/pkg/database"
	"github.com/floatops/float_ledger_app/pkg/locks"
	"github.com/floatops/float_ledger_app/pkg/notify"
	"github.com/gin-gonic/gin"

	portssvc "github.com/floatops/float_ledger_app/internal/core/ports/services"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Float Ledger API
// @version 1.0
// @description Cash-float ledger and reconciliation engine for field supervisors.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		os.Exit(1)
	}

	notifier := buildNotifier(cfg, logger)
	locker := buildLocker(cfg, logger)

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := services.NewServiceContainer(cfg, repos, notifier, locker)

	sched := scheduler.New(logger)
	if err := sched.ScheduleRollover(cfg.RolloverSchedule, container.Rollover); err != nil {
		logger.Error("Failed to schedule rollover", slog.String("error", err.Error()))
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogging(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, container); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildNotifier connects the AMQP publisher, falling back to the logging
// no-op when no broker is configured or the connection fails. Notification
// delivery is best-effort by contract, so startup never blocks on it.
func buildNotifier(cfg *config.Config, logger *slog.Logger) portssvc.Notifier {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP_URL not set; notifications will be logged only.")
		return &notify.LogNotifier{Logger: logger}
	}
	notifier, err := notify.NewAMQPNotifier(cfg.AMQPURL, cfg.NotifyExchange)
	if err != nil {
		logger.Warn("Failed to connect notification broker; falling back to log notifier", slog.String("error", err.Error()))
		return &notify.LogNotifier{Logger: logger}
	}
	logger.Info("Notification publisher connected", slog.String("exchange", cfg.NotifyExchange))
	return notifier
}

// buildLocker connects the Redis correction lock, falling back to the no-op
// locker (plain transaction semantics) when Redis is not configured.
func buildLocker(cfg *config.Config, logger *slog.Logger) locks.AccountLocker {
	if cfg.RedisURL == "" {
		logger.Info("REDIS_URL not set; corrections rely on database transactions alone.")
		return locks.NoopLocker{}
	}
	locker, err := locks.NewRedisAccountLocker(cfg.RedisURL)
	if err != nil {
		logger.Warn("Failed to connect Redis; corrections rely on database transactions alone", slog.String("error", err.Error()))
		return locks.NoopLocker{}
	}
	logger.Info("Correction lock store connected")
	return locker
}

// runMigrations applies all pending schema migrations from the migrations
// directory using a temporary database/sql connection.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	if err := migrationDB.Ping(); err != nil {
		logger.Error("Failed to ping database for migrations", slog.String("error", err.Error()))
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		logger.Error("Migration source error", slog.String("error", sourceErr.Error()))
		return sourceErr
	}
	if dbErr != nil {
		logger.Error("Migration database error", slog.String("error", dbErr.Error()))
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
