package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/aura-dbt/backend/config"
	"github.com/aura-dbt/backend/internal/database"
	"github.com/aura-dbt/backend/internal/server"
)

func main() {
	logger, err := config.NewLogger()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	gormDB, err := database.NewGorm(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	var healthDB *database.DB
	if cfg.UsesPostgres() {
		healthDB, err = database.New(cfg, logger)
		if err != nil {
			logger.Fatal("failed to open health-check connection", zap.Error(err))
		}
		defer healthDB.Close()
	}

	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}
	if err := database.RunMigrations(gormDB, migrationsDir, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}

	s3cfg, err := config.NewS3Config(context.Background())
	if err != nil {
		logger.Warn("s3 unavailable, data export disabled", zap.Error(err))
		s3cfg = nil
	}

	srv := server.NewServer(server.Options{
		Config:   cfg,
		DB:       gormDB,
		HealthDB: healthDB,
		Redis:    redisClient,
		S3:       s3cfg,
		Logger:   logger,
	})

	if err := srv.Start(cfg.ServerPort); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
