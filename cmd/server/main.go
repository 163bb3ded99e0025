package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"receiving-dashboard/internal/config"
	"receiving-dashboard/internal/database"
	"receiving-dashboard/internal/logger"
	"receiving-dashboard/internal/server"
	"receiving-dashboard/internal/telemetry"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(logger.Config{
		ServiceName: "receiving-dashboard",
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Open(cfg)
	if err != nil {
		zl.Fatal("database init failed", zap.Error(err))
	}

	var tm *telemetry.Metrics
	if cfg.MetricsEnabled {
		tm = telemetry.New(prometheus.NewRegistry())
	}
	deps := server.NewDeps(db, tm)

	if len(cfg.SeedEmployees) > 0 {
		added, err := deps.References.SeedEmployees(context.Background(), cfg.SeedEmployees)
		if err != nil {
			zl.Fatal("seed employees failed", zap.Error(err))
		}
		zl.Info("employee list seeded", zap.Int("added", added))
	}

	app := server.New(deps, server.Options{CORSOrigins: cfg.CORSOriginList()})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		zl.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zl.Error("shutdown failed", zap.Error(err))
		}
	}()

	addr := ":" + cfg.HTTPPort
	zl.Info("server listening", zap.String("addr", addr), zap.String("env", cfg.Environment))
	if err := app.Listen(addr); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
