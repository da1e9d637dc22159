// cmd/api/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/nishantmakwanaa/clothing-store/internal/config"
	"github.com/nishantmakwanaa/clothing-store/internal/domain/product"
	"github.com/nishantmakwanaa/clothing-store/internal/domain/upload"
	"github.com/nishantmakwanaa/clothing-store/internal/domain/user"
	"github.com/nishantmakwanaa/clothing-store/internal/infrastructure/database/postgres"
	"github.com/nishantmakwanaa/clothing-store/internal/infrastructure/database/redis"
	"github.com/nishantmakwanaa/clothing-store/internal/interfaces/http"
	"github.com/nishantmakwanaa/clothing-store/internal/interfaces/http/routes"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/auth"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/email"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	resetDB := flag.Bool("reset-db", false, "drop all tables before migrating (development only)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging)
	if err := cfg.ValidateServer(); err != nil {
		log.WithError(err).Fatal("invalid server configuration")
	}

	displayAppname(cfg.App.Name)
	log.WithFields(logrus.Fields{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Infof("starting %s API", cfg.App.Name)

	// Connect to database
	db, err := postgres.NewConnection(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Health(ctx); err != nil {
		log.WithError(err).Fatal("database health check failed")
	}

	checks := map[string]http.HealthChecker{"database": db}

	// Redis is optional: without it reset tokens live in memory and rate limiting is off
	var (
		redisClient *goredis.Client
		resetTokens user.ResetTokenStore = user.NewMemoryResetTokenStore()
	)
	if cfg.RedisEnabled() {
		rc, err := redis.NewConnection(ctx, cfg, log)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to Redis")
		}
		defer rc.Close()

		if err := rc.Health(ctx); err != nil {
			log.WithError(err).Fatal("Redis health check failed")
		}
		redisClient = rc.GetClient()
		resetTokens = user.NewRedisResetTokenStore(redisClient)
		checks["redis"] = rc
	} else {
		log.Warn("Redis not configured, using in-memory reset tokens and no rate limiting")
	}

	// Run database migrations
	migration := postgres.NewMigration(db.GetDB(), cfg.Security.BcryptCost, log)
	if *resetDB {
		if !cfg.IsDevelopment() {
			log.Fatal("-reset-db is only allowed when APP_ENV=development")
		}
		if err := migration.DropAllTables(); err != nil {
			log.WithError(err).Fatal("failed to drop tables")
		}
	}
	if err := migration.RunAutoMigrations(); err != nil {
		log.WithError(err).Fatal("database migration failed")
	}
	if err := migration.CreateIndexes(); err != nil {
		log.WithError(err).Warn("index creation failed")
	}

	// Seed initial data in development
	if cfg.IsDevelopment() {
		if err := migration.SeedInitialData(); err != nil {
			log.WithError(err).Warn("data seeding failed")
		}
	}

	mailer, err := email.NewService(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to configure email")
	}

	deps := routes.Dependencies{
		JWT:      auth.NewJWTManager(cfg),
		Users:    user.NewService(user.NewGormRepository(db.GetDB()), resetTokens, mailer, cfg, log),
		Products: product.NewService(product.NewGormRepository(db.GetDB()), log),
		Uploads:  upload.NewService(cfg.Upload, log),
		Log:      log,
	}

	server := http.NewServer(cfg, deps, http.Options{Redis: redisClient, Checks: checks})

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("failed to shutdown HTTP server gracefully")
	}

	log.Info("server shutdown completed")
}

func displayAppname(name string) {
	figure.NewFigure(name, "cybermedium", true).Print()
	fmt.Println()
}
