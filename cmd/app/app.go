package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aya-platform/volunteer-hub/internal/api"
	"github.com/aya-platform/volunteer-hub/internal/config"
	"github.com/aya-platform/volunteer-hub/internal/db"
	"github.com/aya-platform/volunteer-hub/internal/logger"
	"github.com/aya-platform/volunteer-hub/internal/repository/dao"
	"github.com/aya-platform/volunteer-hub/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// bootstrap loads the config, sets up the logger and opens the database.
func bootstrap(configPath string) (*config.AppConfig, *gorm.DB, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger -> %w", err)
	}
	if err = logger.SetLevel(conf.API.LogLevel); err != nil {
		zap.L().Warn("invalid log level, keeping default", zap.String("level", conf.API.LogLevel), zap.Error(err))
	}

	gdb, err := db.Open(conf, os.Getenv("DATABASE_URL"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database -> %w", err)
	}

	return conf, gdb, nil
}

func migrate(gdb *gorm.DB) error {
	if err := dao.InitTables(gdb); err != nil {
		return fmt.Errorf("failed to migrate database -> %w", err)
	}

	return nil
}

func openStore(ctx context.Context, conf *config.StorageConfig) (api.ObjectStore, error) {
	if !conf.Enabled {
		zap.L().Info("object storage disabled, keeping uploads in memory")
		return storage.NewMemoryStore(), nil
	}

	client, err := storage.NewMinIOClient(conf)
	if err != nil {
		return nil, fmt.Errorf("storage.NewMinIOClient -> %w", err)
	}
	if err = client.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("client.EnsureBucket -> %w", err)
	}

	return client, nil
}

// Start runs the API server until SIGINT or SIGTERM.
func Start(configPath string) error {
	conf, gdb, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer func() { _ = zap.L().Sync() }()

	if err = migrate(gdb); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, conf.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage -> %w", err)
	}

	err = config.Watch(configPath, func(level string) {
		if err := logger.SetLevel(level); err != nil {
			zap.L().Warn("ignoring log level from config", zap.String("level", level), zap.Error(err))
			return
		}
		zap.L().Info("log level changed", zap.String("level", level))
	})
	if err != nil {
		zap.L().Warn("config file is not watched", zap.Error(err))
	}

	s := api.NewServer(conf, gdb, store)

	addr := ":" + s.Config.API.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down the server -> %w", err)
	}

	return nil
}
