package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/petermazzocco/renovation-portal/internal/auth"
	"github.com/petermazzocco/renovation-portal/internal/config"
	"github.com/petermazzocco/renovation-portal/internal/db"
	"github.com/petermazzocco/renovation-portal/internal/handlers"
	"github.com/petermazzocco/renovation-portal/internal/imaging"
	"github.com/petermazzocco/renovation-portal/internal/repository"
	"github.com/petermazzocco/renovation-portal/internal/storage"
	"github.com/petermazzocco/renovation-portal/internal/utils"
	"github.com/petermazzocco/renovation-portal/internal/workflow"
	"github.com/petermazzocco/renovation-portal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Logger.Fatalf("Failed to load config: %v", err)
	}
	utils.InitLogger(cfg.AppName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database connection
	gormDB, err := db.NewGormDB(cfg)
	if err != nil {
		utils.Logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(gormDB); err != nil {
		utils.Logger.Fatalf("Failed to auto migrate models: %v", err)
	}

	// File storage
	files, err := newFileStore(ctx, cfg)
	if err != nil {
		utils.Logger.Fatalf("Failed to set up %s storage: %v", cfg.StorageBackend, err)
	}

	// Sessions and OAuth share one cookie store
	store := auth.NewCookieStore(cfg)
	oauth := auth.SetupOAuth(cfg, store)

	users := repository.NewGormUserRepository(gormDB)
	h := &handlers.Handler{
		Accounts:     auth.NewAccounts(users),
		Sessions:     auth.NewSessions(store),
		Estimates:    workflow.NewEstimateService(repository.NewGormEstimateRepository(gormDB), nil),
		Projects:     workflow.NewProjectService(repository.NewGormProjectRepository(gormDB), users, nil),
		Files:        files,
		Images:       imaging.NewResizer(cfg.ImageMaxWidth),
		OAuthEnabled: oauth,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           handlers.NewRouter(h, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Logger.Fatalf("%s failed to start: %v", cfg.AppName, err)
		}
	}()

	<-ctx.Done()
	utils.Logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Logger.WithError(err).Error("Graceful shutdown failed")
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func newFileStore(ctx context.Context, cfg *config.Config) (storage.FileStore, error) {
	if cfg.StorageBackend == config.StorageS3 {
		client, err := storage.NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewS3Store(client, cfg.BucketName, cfg.PublicURL), nil
	}
	return storage.NewLocalStore(cfg.UploadDir, storage.FilesPrefix)
}
