package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/target/ims-ui/config"
	"github.com/target/ims-ui/internal/adapters/inventoryapi"
	"github.com/target/ims-ui/internal/data/cryptoutil"
	"github.com/target/ims-ui/internal/ports"
	"github.com/target/ims-ui/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Sessions  *service.SessionStore
	API       *inventoryapi.Client
	Dashboard *service.DashboardService
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config    *config.AppConfig
	Storage   ports.Storage
	Encryptor cryptoutil.Encryptor
	// HTTPClient overrides the backend client (tests).
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewServices wires the session store, the backend façade and the dashboard.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service config is required")
	}
	if deps.Storage == nil {
		return ServiceContainer{}, errors.New("profile storage is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sessions := service.NewSessionStore(service.SessionStoreOptions{
		Storage:   deps.Storage,
		Encryptor: deps.Encryptor,
		Logger:    logger,
		MaxTTL:    deps.Config.Session.MaxTTL,
	})

	httpClient := deps.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: deps.Config.Backend.Timeout}
	}
	api, err := inventoryapi.New(inventoryapi.Options{
		BaseURL:    deps.Config.Backend.BaseURL,
		Sessions:   sessions,
		HTTPClient: httpClient,
		Logger:     logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create inventory api client: %w", err)
	}

	return ServiceContainer{
		Sessions:  sessions,
		API:       api,
		Dashboard: service.NewDashboardService(api, logger),
	}, nil
}

// ServiceOrchestrationConfig contains what RunWithShutdown needs.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunWithShutdown serves HTTP until SIGINT/SIGTERM or a server failure, then
// shuts down gracefully.
func RunWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	errCh := make(chan error, 1)
	server, err := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
	}, errCh)
	if err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return waitForShutdown(shutdownConfig{
		quit:       quit,
		errCh:      errCh,
		httpServer: server,
		timeout:    cfg.Config.HTTP.ShutdownTimeout,
		logger:     logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	quit       <-chan os.Signal
	errCh      <-chan error
	httpServer *http.Server
	timeout    time.Duration
	logger     *slog.Logger
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	select {
	case <-cfg.quit:
		cfg.logger.Info("shutting down...")
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop drains in-flight requests.
func gracefulStop(cfg shutdownConfig) error {
	return ShutdownHTTPServer(ShutdownConfig{
		Context: context.Background(),
		Server:  cfg.httpServer,
		Timeout: cfg.timeout,
		Logger:  cfg.logger,
	})
}
