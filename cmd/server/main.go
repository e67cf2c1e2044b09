package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"hireline.app/engine/common/id"
	"hireline.app/engine/common/logger"
	"hireline.app/engine/common/otel"
	"hireline.app/engine/core/config"
	"hireline.app/engine/internal/http/middleware"
	httprouter "hireline.app/engine/internal/http/router"
	"hireline.app/engine/internal/persist"
	"hireline.app/engine/internal/service"
	"hireline.app/engine/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		// Can't use slog yet — OTel failed before logger setup
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "engine starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	snapshotter, mirror, cleanup, err := setupPersistence(ctx, cfg.Persist)
	if err != nil {
		slog.ErrorContext(ctx, "failed to set up persistence", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	st := store.New(snapshotter, mirror)
	if err := st.Hydrate(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to hydrate state", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "state hydrated")

	services := service.NewServices(st, cfg)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

// setupPersistence picks the configured snapshotter and delivery mirror,
// defaulting to no-ops so the engine runs fully in memory without either.
func setupPersistence(ctx context.Context, cfg config.PersistConfig) (persist.Snapshotter, persist.DeliveryMirror, func(), error) {
	snapshotter := persist.NewNoopSnapshotter()
	mirror := persist.NewNoopMirror()

	if cfg.PostgresEnabled() {
		pg, err := persist.NewPostgresSnapshotter(ctx, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		snapshotter = pg
		slog.InfoContext(ctx, "postgres snapshot store connected")
	}

	if cfg.RedisEnabled() {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			snapshotter.Close()
			return nil, nil, nil, err
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			snapshotter.Close()
			return nil, nil, nil, err
		}
		mirror = persist.NewRedisDeliveryMirror(client)
		slog.InfoContext(ctx, "redis delivery mirror connected")
	}

	cleanup := func() {
		if err := mirror.Close(); err != nil {
			slog.Error("delivery mirror close error", "error", err)
		}
		snapshotter.Close()
	}
	return snapshotter, mirror, cleanup, nil
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, cfg)

	return router
}
