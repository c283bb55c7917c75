package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	_ "github.com/medhub/clinic-frontdesk/docs" // Swagger docs
	"github.com/medhub/clinic-frontdesk/internal/auth"
	"github.com/medhub/clinic-frontdesk/internal/config"
	"github.com/medhub/clinic-frontdesk/internal/database"
	httpServer "github.com/medhub/clinic-frontdesk/internal/http"
	"github.com/medhub/clinic-frontdesk/internal/logging"
	"github.com/medhub/clinic-frontdesk/internal/patient"
	"github.com/medhub/clinic-frontdesk/internal/user"
)

// @title           Clinic Front-Desk API
// @version         1.0
// @description     Front-desk service for a volunteer clinic: staff accounts with admin verification, session-cookie authentication, and patient records looked up by card scan.

// @host      localhost:8080
// @BasePath  /

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(context.Background(), db.DB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	redisClient, err := initRedis(cfg.Redis)
	if err != nil {
		// The patient cache degrades to database reads without redis, so a
		// missing redis is a warning, not a startup failure.
		logger.Warn("redis unavailable, patient card cache disabled", "error", err.Error())
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Repositories
	userRepo := user.NewRepository(db)
	sessionRepo := auth.NewSessionRepository(db)
	patientRepo := patient.NewRepository(db)

	// Services
	sessionManager := auth.NewSessionManager(sessionRepo, logger, cfg.Session.Duration)
	authService := auth.NewService(userRepo, sessionManager, logger)
	userService := user.NewService(userRepo, logger)
	patientService := patient.NewService(patientRepo, patient.NewCache(redisClient), logger)

	// HTTP handlers and middleware
	isProduction := !cfg.Server.IsDevelopment()
	authHandler := auth.NewHandler(authService, isProduction)
	userHandler := user.NewHandler(userService)
	patientHandler := patient.NewHandler(patientService)
	sessionMiddleware := auth.NewMiddleware(sessionManager, userRepo)

	pages, err := httpServer.NewPages()
	if err != nil {
		return fmt.Errorf("failed to load pages: %w", err)
	}

	router := httpServer.NewRouter(cfg, authHandler, userHandler, patientHandler, sessionMiddleware, pages, logger)

	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Printf("Received signal: %v", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initDB initializes the database connection and returns a Bun DB instance
func initDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return database.NewBunDB(sqlDB), nil
}

// initRedis initializes the Redis connection and returns a Redis client
func initRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
