package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/team6/oms-dashboard/internal/actionlog"
	actionsqlite "github.com/team6/oms-dashboard/internal/actionlog/sqlite"
	"github.com/team6/oms-dashboard/internal/config"
	"github.com/team6/oms-dashboard/internal/notify"
	"github.com/team6/oms-dashboard/internal/pkg/telemetry"
	"github.com/team6/oms-dashboard/internal/registry"
)

func main() {
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadDashboard()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "oms-dashboard"))
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

	var audit actionlog.Repository
	if cfg.ActionLogPath != "" {
		repo, err := actionsqlite.Open(cfg.ActionLogPath)
		if err != nil {
			slog.Error("failed to open action log", "path", cfg.ActionLogPath, "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		audit = repo
	}

	client := registry.NewClient(cfg.BackendURL, &http.Client{Timeout: cfg.HTTPTimeout})
	session := registry.NewSession(client, audit)
	defer session.Invalidate()

	ui := newDashboard(session, notify.NewCenter(), os.Stdin, os.Stdout)

	// Initial load, same as the web dashboard does on mount. A failure is a
	// notification, not a startup error.
	if err := session.Refresh(ctx); err != nil {
		ui.notices.Error(err.Error())
	}

	if err := ui.run(ctx); err != nil {
		slog.Error("dashboard terminated", "error", err)
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
