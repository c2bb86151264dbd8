package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"symptracker/config"
	"symptracker/routes"
	"symptracker/services"
	"symptracker/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := utils.NewLogger(cfg.Server.LogMode)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Server.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	backend, err := openBackend(cfg)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	store := services.NewStorageService(backend, logger)
	logger.Info("Storage ready", zap.String("backend", backend.Describe()))

	deps := routes.Deps{
		Store:     store,
		Analytics: services.NewAnalyticsService(store, logger),
		Trainer:   services.NewTrainerService(store, services.DecisionTreeFactory, logger),
		Auth:      services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.PasswordHash),
		Logger:    logger,
	}
	if cfg.AuthEnabled() {
		deps.JWTSecret = cfg.Auth.JWTSecret
	} else {
		logger.Warn("JWT_SECRET not set, API is open")
	}
	if cfg.S3Enabled() {
		uploader, err := utils.NewS3Uploader(context.Background(),
			cfg.S3.Region, cfg.S3.Bucket, cfg.S3.Prefix, cfg.S3.CloudFrontURL)
		if err != nil {
			logger.Fatal("Failed to init S3", zap.Error(err))
		}
		deps.Uploader = uploader
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           routes.SetupRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func openBackend(cfg *config.Config) (services.TableBackend, error) {
	if cfg.Store.Driver == config.DriverCSV {
		return services.NewCSVTableStore(cfg.Store.DataFile), nil
	}
	db, err := config.OpenDB(cfg)
	if err != nil {
		return nil, err
	}
	return services.NewSQLTableStore(db)
}
