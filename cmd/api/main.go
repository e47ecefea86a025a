package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/afero"

	"github.com/samirrijal/biogrid/internal/adapters/export"
	"github.com/samirrijal/biogrid/internal/adapters/http"
	natsadapter "github.com/samirrijal/biogrid/internal/adapters/nats"
	"github.com/samirrijal/biogrid/internal/adapters/postgres"
	"github.com/samirrijal/biogrid/internal/adapters/valkey"
	"github.com/samirrijal/biogrid/internal/core/ports"
	"github.com/samirrijal/biogrid/internal/core/usecases"
	"github.com/samirrijal/biogrid/internal/pkg/config"
	"github.com/samirrijal/biogrid/internal/pkg/logging"
	"github.com/samirrijal/biogrid/internal/pkg/metrics"
	"github.com/samirrijal/biogrid/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("biogrid-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache (optional)
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr, "biogrid")
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	// NATS (optional)
	var (
		publisher ports.EventPublisher
		notifier  ports.Notifier = export.NewLogNotifier(slog.Default())
	)
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
		notifier = pub
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
		natsConn = nil
	} else {
		defer natsConn.Drain()
	}

	// Export target
	fs := afero.NewOsFs()
	if err := fs.MkdirAll(cfg.Export.Dir, 0o755); err != nil {
		slog.Warn("export dir unavailable", "dir", cfg.Export.Dir, "error", err)
	}
	writer := export.NewWriter(fs, notifier)

	// Repos
	reportRepo := postgres.NewReportRepo(db)
	batchRepo := postgres.NewBatchRepo(db)

	// Use cases
	deps := &http.Dependencies{
		Grid: usecases.NewGridService(),
		Reports: usecases.NewReportService(reportRepo, batchRepo, cacheSvc, publisher, writer, usecases.ReportOptions{
			ExportDir: cfg.Export.Dir,
			Headers:   cfg.Export.Headers,
			CacheTTL:  cfg.Cache.ReportTTL,
		}),
		Batches:       usecases.NewBatchService(batchRepo, publisher),
		NATS:          natsConn,
		DB:            db,
		Cache:         cache,
		ExportHeaders: cfg.Export.Headers,
	}

	// Pool gauges
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			}
		}
	}()

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimitMB * 1024 * 1024,
		AppName:      "biogrid API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, If-None-Match",
		MaxAge:       3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
