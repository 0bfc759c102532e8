package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/target/ims-ui/config"
	"github.com/target/ims-ui/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	if err := run(ctx); err != nil {
		slog.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logger := bootstrap.InitLogger(cfg.Observability, cfg.IsDev)
	logStartupInfo(ctx, logger, &cfg)

	storage, err := bootstrap.NewProfileStorage(ctx, bootstrap.StorageDeps{
		Storage: cfg.Storage,
		Redis:   cfg.Redis,
		Logger:  logger,
	}, cfg.IsDev)
	if err != nil {
		return fmt.Errorf("profile storage: %w", err)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close profile storage failed", "error", cerr)
		}
	}()

	encryptor, err := bootstrap.CreateEncryptor(cfg.Session.EncryptionKey, cfg.IsDev, logger)
	if err != nil {
		return err
	}

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:    &cfg,
		Storage:   storage.Storage,
		Encryptor: encryptor,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	return bootstrap.RunWithShutdown(&bootstrap.ServiceOrchestrationConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting inventory web front end",
		"backend", cfg.Backend.BaseURL,
		"storage_mode", string(cfg.Storage.Mode),
		"dev", cfg.IsDev,
		"metrics", cfg.Observability.MetricsEnabled)
}
