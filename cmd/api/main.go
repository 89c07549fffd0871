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
	"github.com/nats-io/nats.go"

	"github.com/rfarias/geocapture/internal/adapters/filestore"
	"github.com/rfarias/geocapture/internal/adapters/http"
	natsadapter "github.com/rfarias/geocapture/internal/adapters/nats"
	"github.com/rfarias/geocapture/internal/adapters/ocr"
	"github.com/rfarias/geocapture/internal/adapters/registry"
	"github.com/rfarias/geocapture/internal/adapters/reportfs"
	"github.com/rfarias/geocapture/internal/adapters/staticmap"
	"github.com/rfarias/geocapture/internal/adapters/valkey"
	"github.com/rfarias/geocapture/internal/core/ports"
	"github.com/rfarias/geocapture/internal/core/usecases"
	"github.com/rfarias/geocapture/internal/pkg/config"
	"github.com/rfarias/geocapture/internal/pkg/logging"
	"github.com/rfarias/geocapture/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("geocapture-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Client site table
	sites, err := registry.Load(cfg.Sites.Path, slog.Default())
	if err != nil {
		log.Fatalf("site table: %v", err)
	}
	defer sites.Close()
	if cfg.Sites.Watch {
		if err := sites.Watch(ctx); err != nil {
			slog.Warn("site table watch unavailable", "error", err)
		}
	}

	// Record store
	store, err := filestore.Open(cfg.Store.Path)
	if err != nil {
		log.Fatalf("record store: %v", err)
	}

	// Cache
	var cacheSvc ports.CacheService
	var cacheClient *valkey.Cache
	if cfg.Valkey.Enabled {
		cacheClient, err = valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
		} else {
			defer cacheClient.Close()
			cacheSvc = cacheClient
		}
	}

	// NATS
	var publisher ports.EventPublisher
	var natsConn *nats.Conn
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			defer pub.Close()
			publisher = pub
		}

		// Raw connection for the WebSocket relay
		natsConn, err = natsadapter.RawConn(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats ws conn unavailable", "error", err)
		}
	}

	// Report pipeline
	renderer := staticmap.NewRenderer()
	sink, err := reportfs.NewSink(cfg.Report.OutputDir)
	if err != nil {
		log.Fatalf("report sink: %v", err)
	}
	scheduler := usecases.NewReportScheduler(
		time.Duration(cfg.Report.DebounceSeconds)*time.Second,
		store, sites, renderer, sink, publisher,
	)
	defer scheduler.Cancel()

	// Capture pipeline
	recognizer := ocr.NewRecognizer(cfg.OCR.Language, slog.Default())
	resolver := usecases.NewClientResolver(sites, cfg.OCR.SiteKeyword)
	captureSvc := usecases.NewCaptureService(
		recognizer, store, resolver, scheduler, publisher, cacheSvc,
		cfg.OCR.MaxAttempts, cfg.OCR.SiteKeyword,
	)
	recordSvc := usecases.NewRecordService(store, cacheSvc)

	deps := &http.Dependencies{
		Captures: captureSvc,
		Records:  recordSvc,
		Registry: sites,
		Renderer: renderer,
		Reports:  sink,
		NATS:     natsConn,
		Cache:    cacheClient,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    20 * 1024 * 1024, // field photos
		AppName:      "GeoCapture API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
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
