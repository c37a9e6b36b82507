package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tripora/tripora/internal/config"
	"github.com/tripora/tripora/internal/domain"
	"github.com/tripora/tripora/internal/handler"
	"github.com/tripora/tripora/internal/media"
	"github.com/tripora/tripora/internal/repository/sqlite"
	"github.com/tripora/tripora/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(envOrDefault("CONFIG_PATH", "config.yaml"))
	if err != nil {
		slog.Error("load configuration", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	var store domain.MediaStore
	switch cfg.MediaBackend {
	case config.BackendCloudinary:
		store, err = media.NewCloudinaryStore(cfg.CloudinaryURL, "tripora")
	default:
		store, err = media.NewDiskStore(cfg.MediaRoot)
	}
	if err != nil {
		slog.Error("failed to initialize media store", "backend", cfg.MediaBackend, "error", err)
		os.Exit(1)
	}
	slog.Info("media store ready", "backend", cfg.MediaBackend)

	authService := service.NewAuthService(db.Users(), cfg.JWTSecret, cfg.BcryptCost)
	catalogService := service.NewCatalogService(db.Products())
	mediaService := service.NewMediaService(store)
	loginLimiter := service.NewTokenBucket(cfg.LoginRatePerMinute/60, cfg.LoginBurst)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, catalogService, mediaService, loginLimiter, cfg.CookieSecure)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.SecurityHeaders(handler.LogRequests(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
