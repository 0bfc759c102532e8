package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/target/ims-ui/config"
	httpx "github.com/target/ims-ui/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger

	// TemplateFS and StaticFS override the asset sources (tests).
	TemplateFS fs.FS
	StaticFS   fs.FS
}

// StartHTTPServer creates the HTTP server and starts serving in the background.
// Serve failures are reported on errCh.
func StartHTTPServer(cfg *HTTPServerConfig, errCh chan<- error) (*http.Server, error) {
	if cfg == nil {
		return nil, errors.New("http server config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler, err := buildHTTPHandler(httpHandlerConfig{
		Logger:   logger,
		Services: routerServices(cfg, appCfg, logger),
		HTTP:     appCfg.HTTP,
	})
	if err != nil {
		return nil, fmt.Errorf("build http handler: %w", err)
	}

	return startServer(logger, handler, appCfg.HTTP, errCh), nil
}

func routerServices(cfg *HTTPServerConfig, appCfg *config.AppConfig, logger *slog.Logger) httpx.RouterServices {
	services := httpx.RouterServices{
		TemplateFS:     cfg.TemplateFS,
		StaticFS:       cfg.StaticFS,
		CookieDomain:   appCfg.HTTP.CookieDomain,
		CookieSecure:   appCfg.HTTP.CookieSecure,
		ProfileCookie:  appCfg.Session.ProfileCookie,
		ProfileMaxAge:  appCfg.Session.ProfileMaxAge,
		MaxUploadBytes: appCfg.HTTP.MaxUploadBytes,
		IsDev:          appCfg.IsDev,
		Logger:         logger,
	}
	// Typed nil pointers would slip past the router's nil checks.
	if cfg.Services.API != nil {
		services.API = cfg.Services.API
	}
	if cfg.Services.Sessions != nil {
		services.Sessions = cfg.Services.Sessions
	}
	if cfg.Services.Dashboard != nil {
		services.Dashboard = cfg.Services.Dashboard
	}
	if appCfg.Observability.MetricsEnabled {
		services.MetricsPath = appCfg.Observability.MetricsPath
	}
	return services
}

type httpHandlerConfig struct {
	Logger   *slog.Logger
	Services httpx.RouterServices
	HTTP     config.HTTPConfig
}

// buildHTTPHandler wraps the router with compression and panic recovery.
// Request logging, profile binding and CSRF live inside the router.
// Order: Recover -> Compression -> Router
func buildHTTPHandler(cfg httpHandlerConfig) (http.Handler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	router, err := httpx.NewRouter(cfg.Services)
	if err != nil {
		return nil, err
	}

	var h http.Handler = router
	if cfg.HTTP.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", cfg.HTTP.CompressionLevel)
		h = httpx.Compression(httpx.CompressionConfig{Level: cfg.HTTP.CompressionLevel, Logger: logger})(h)
	}
	return httpx.Recover(logger)(h), nil
}

func startServer(logger *slog.Logger, handler http.Handler, cfg config.HTTPConfig, errCh chan<- error) *http.Server {
	addr := cfg.Addr
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			if errCh != nil {
				errCh <- fmt.Errorf("http server: %w", err)
			}
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Timeout time.Duration
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	parent := cfg.Context
	if parent == nil {
		parent = context.Background()
	}
	shutdownCtx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
