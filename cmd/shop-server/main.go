package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/team6/oms-dashboard/internal/config"
	"github.com/team6/oms-dashboard/internal/pkg/cache"
	"github.com/team6/oms-dashboard/internal/pkg/telemetry"
	"github.com/team6/oms-dashboard/internal/shop"
	"github.com/team6/oms-dashboard/internal/shop/httpapi"
)

func main() {
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadShopServer()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "shop-server"))
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	service := shop.NewService()
	if cfg.Seed {
		if err := service.Seed(); err != nil {
			slog.Error("failed to seed sample orders", "error", err)
			os.Exit(1)
		}
		slog.Info("sample orders seeded", "count", len(shop.SampleOrders()))
	}

	var orderCache cache.Cache
	if cfg.RedisAddr != "" {
		orderCache = cache.NewRedisCache(cfg.RedisAddr, "shop")
		slog.Info("order cache enabled", "redis_addr", cfg.RedisAddr)
	}

	handler := httpapi.NewHandler(service, orderCache)
	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewRouter(handler)}

	go func() {
		slog.Info("shop server running", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
