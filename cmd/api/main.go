package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/bigidrise/mealguard/config"
	"github.com/bigidrise/mealguard/internal/database"
	"github.com/bigidrise/mealguard/internal/server"
	"github.com/bigidrise/mealguard/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	rawDB, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer rawDB.Close()

	gormDB, err := database.NewGorm(cfg)
	if err != nil {
		logger.Fatal("failed to open gorm connection", zap.Error(err))
	}

	if err := database.RunMigrations(gormDB, "migrations", logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis is preferred for override state but the gate works
	// without it.
	redisClient, err := database.NewRedisClient(cfg, logger)
	if err != nil {
		logger.Warn("redis unavailable", zap.Error(err))
		redisClient = nil
	}

	generator, err := service.NewLLMGenerator(logger)
	if err != nil {
		logger.Fatal("failed to initialize meal generator", zap.Error(err))
	}

	srv := server.New(cfg, logger, server.Options{
		DB:          gormDB,
		Redis:       redisClient,
		Generator:   generator,
		HealthCheck: rawDB.HealthCheck,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("received signal", zap.String("signal", sig.String()))
	}

	logger.Info("shutting down server")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Fatal("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
