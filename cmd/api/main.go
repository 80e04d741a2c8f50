package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lofoneh/usersvc/internal/api"
	"github.com/lofoneh/usersvc/internal/api/handlers"
	mw "github.com/lofoneh/usersvc/internal/api/middleware"
	"github.com/lofoneh/usersvc/internal/migrations"
	"github.com/lofoneh/usersvc/internal/repository"
	"github.com/lofoneh/usersvc/internal/services"
	"github.com/lofoneh/usersvc/pkg/config"
	"github.com/lofoneh/usersvc/pkg/database"
	"github.com/lofoneh/usersvc/pkg/logger"
	"github.com/lofoneh/usersvc/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("Starting user service",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
	)
	if cfg.UsesDefaultDBPassword() {
		log.Warn("DB_PASSWORD not set, using development default (INSECURE for production)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	dbSettings := cfg.Database()
	db, err := database.OpenPostgres(ctx, dbSettings)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.String("dsn", dbSettings.String()), zap.Error(err))
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("database close error", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("dsn", dbSettings.String()))

	if cfg.DBAutoMigrate {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal("database handle unavailable", zap.Error(err))
		}
		if err := migrations.Up(ctx, sqlDB); err != nil {
			log.Fatal("migration failed", zap.Error(err))
		}
	}

	hasher, err := utils.NewPasswordHasher(cfg.PasswordHasher, cfg.PasswordPBKDF2Iterations, cfg.PasswordBcryptCost)
	if err != nil {
		log.Fatal("invalid password hasher", zap.Error(err))
	}

	provider := database.NewPostgresProvider(db)
	userRepo := repository.NewUserRepository(provider)
	userSvc := services.NewUserService(userRepo, hasher)

	var limiter *mw.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = mw.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		go limiter.Run(ctx, 5*time.Minute)
	}

	router := api.NewRouter(api.Dependencies{
		UsersHandler:      handlers.NewUsersHandler(userSvc),
		HealthHandler:     handlers.NewHealthHandler(provider),
		RateLimiter:       limiter,
		CORSOrigins:       cfg.CORSOrigins,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}
