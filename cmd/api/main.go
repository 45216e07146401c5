package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dhl-express-manager/internal/core/cache"
	"dhl-express-manager/internal/core/config"
	"dhl-express-manager/internal/core/logger"
	"dhl-express-manager/internal/core/scheduler"
	"dhl-express-manager/internal/core/server"
	"dhl-express-manager/internal/core/throttle"
	activityadapter "dhl-express-manager/internal/features/activity/adapters"
	activityhandler "dhl-express-manager/internal/features/activity/handler"
	activityservice "dhl-express-manager/internal/features/activity/service"
	shipmentadapter "dhl-express-manager/internal/features/shipments/adapters"
	shipmenthandler "dhl-express-manager/internal/features/shipments/handler"
	"dhl-express-manager/internal/features/shipments/ports"
	shipmentservice "dhl-express-manager/internal/features/shipments/service"
	summaryadapter "dhl-express-manager/internal/features/summary/adapters"
	summaryhandler "dhl-express-manager/internal/features/summary/handler"
	summaryports "dhl-express-manager/internal/features/summary/ports"
	summaryservice "dhl-express-manager/internal/features/summary/service"

	"go.uber.org/zap"
)

// @title DHL Express Manager API
// @version 1.0
// @description Shipment tracking dashboard backend that reconciles DHL tracking data with local annotations.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
		zap.String("tracking_provider", cfg.Tracking.Provider),
	)

	// Persistence store.
	store, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer store.Close()
	l.Info("Redis connection verified")

	// Activity log.
	logRepo := activityadapter.NewRedisLogRepository(store)
	recorder := activityservice.NewRecorder(logRepo)
	if err := recorder.Load(context.Background()); err != nil {
		l.Warn("Failed to load persisted activity log", zap.Error(err))
	}

	// Tracking provider.
	var provider ports.TrackingProvider
	switch cfg.Tracking.Provider {
	case "demo":
		provider = shipmentadapter.NewDemoAdapter()
	default:
		provider = shipmentadapter.NewDHLAdapter(cfg.DHL.URL, cfg.DHL.APIKey)
	}

	// Shipment collection.
	shipmentRepo := shipmentadapter.NewRedisShipmentRepository(store)
	pacer := throttle.New(time.Duration(cfg.Tracking.DelayMS) * time.Millisecond)
	tracker := shipmentservice.NewTracker(provider, shipmentRepo, recorder, pacer)
	if err := tracker.Load(context.Background()); err != nil {
		l.Warn("Failed to load persisted shipments", zap.Error(err))
	}
	l.Info("Shipment collection loaded", zap.Int("count", tracker.Stats().Total))

	// AI summary with templated fallback.
	var primary *summaryadapter.GeminiAnalyzer
	if cfg.Gemini.APIKey != "" {
		primary, err = summaryadapter.NewGeminiAnalyzer(cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			l.Warn("Failed to init Gemini analyzer, summaries fall back to template", zap.Error(err))
		}
	}
	summarySvc := summaryservice.NewSummaryService(asAnalyzer(primary), summaryadapter.NewTemplateAnalyzer())

	// Handlers.
	shipmentHdl := shipmenthandler.NewShipmentHandler(tracker)
	activityHdl := activityhandler.NewActivityHandler(recorder)
	summaryHdl := summaryhandler.NewSummaryHandler(summarySvc, tracker)

	srv := server.New(cfg)

	// Register Routes
	srv.App.Get("/shipments", shipmentHdl.ListShipments)
	srv.App.Post("/shipments", shipmentHdl.AddShipments)
	srv.App.Post("/shipments/refresh", shipmentHdl.RefreshShipments)
	srv.App.Get("/shipments/stats", shipmentHdl.GetStats)
	srv.App.Get("/shipments/:id", shipmentHdl.GetShipment)
	srv.App.Delete("/shipments/:id", shipmentHdl.DeleteShipment)
	srv.App.Post("/shipments/:id/assignees", shipmentHdl.AddAssignee)
	srv.App.Delete("/shipments/:id/assignees", shipmentHdl.RemoveAssignee)
	srv.App.Post("/shipments/:id/collected", shipmentHdl.ToggleCollected)
	srv.App.Get("/shipments/:id/summary", summaryHdl.GetSummary)
	srv.App.Get("/logs", activityHdl.ListLogs)

	// Optional periodic refresh.
	if cfg.Tracking.AutoRefreshCron != "" {
		sched, err := scheduler.New([]scheduler.Job{
			{
				Name: "refresh-shipments",
				Spec: cfg.Tracking.AutoRefreshCron,
				Run: func(ctx context.Context) error {
					_, err := tracker.RefreshAll(ctx)
					return err
				},
			},
		})
		if err != nil {
			l.Fatal("Invalid auto refresh schedule", zap.Error(err))
		}
		sched.Start()
		defer sched.Stop()
		l.Info("Auto refresh scheduled", zap.String("cron", cfg.Tracking.AutoRefreshCron))
	}

	go func() {
		if err := srv.Run(); err != nil {
			l.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("Shutting down")
	if err := srv.App.Shutdown(); err != nil {
		l.Warn("Server shutdown failed", zap.Error(err))
	}

	// Drain fire-and-forget persistence before the process exits.
	tracker.Flush()
	recorder.Flush()
}

// asAnalyzer converts a possibly-nil concrete analyzer into a clean nil
// interface so the summary service's nil check works.
func asAnalyzer(g *summaryadapter.GeminiAnalyzer) summaryports.Analyzer {
	if g == nil {
		return nil
	}
	return g
}
