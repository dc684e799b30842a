package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"verbclash/internal/broadcast"
	"verbclash/internal/config"
	"verbclash/internal/database"
	"verbclash/internal/handlers"
	"verbclash/internal/logger"
	"verbclash/internal/metrics"
	"verbclash/internal/morph"
	"verbclash/internal/security"
	"verbclash/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.NewLogger("verbclash", cfg.LogLevel)

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Entry().WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	log.Entry().WithField("db_type", cfg.DatabaseType).Info("Database connection established")

	// Run migrations
	ctx := context.Background()
	if cfg.MigrationsPath != "" {
		err = db.RunMigrationsFrom(ctx, cfg.MigrationsPath)
	} else {
		err = db.RunMigrations(ctx)
	}
	if err != nil {
		log.Entry().WithError(err).Fatal("Failed to run migrations")
	}

	log.Entry().Info("Migrations completed successfully")

	// Load the verb catalog
	catalog, err := morph.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Entry().WithError(err).Fatal("Failed to load verb catalog")
	}
	log.Entry().WithField("verbs", len(catalog.Verbs())).Info("Verb catalog loaded")

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry)

	// Room notifications
	var publisher broadcast.Publisher = broadcast.Nop{}
	if cfg.RedisAddr != "" {
		redisPublisher, err := broadcast.NewRedisPublisher(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Entry().WithError(err).Warn("Redis unavailable, room notifications disabled")
		} else {
			defer redisPublisher.Close()
			publisher = redisPublisher
		}
	}

	// Security
	tokens, err := security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Entry().WithError(err).Fatal("JWT_SECRET must be set")
	}
	limiter := security.NewRateLimiter(cfg.RateLimit, time.Minute)
	defer limiter.Stop()

	// Initialize services
	gameService := service.NewGameService(db, catalog, morph.NewTableEngine(catalog, nil),
		service.WithPublisher(publisher),
		service.WithMetrics(m),
		service.WithLogger(log),
	)

	// Setup routes
	middleware := handlers.NewMiddleware(tokens, limiter, m, log)
	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, middleware, handlers.NewGameHandler(gameService, log))
	mux.HandleFunc("GET /healthz", handlers.Healthz(db, log))
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Wrap with logging middleware
	handler := middleware.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Entry().WithField("addr", addr).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Entry().WithError(err).Fatal("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Entry().Info("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Entry().WithError(err).Error("Graceful shutdown failed")
	}
}
