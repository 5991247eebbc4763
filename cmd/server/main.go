// Package main provides the action server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mercabot/mercabot-go/internal/backend"
	"github.com/mercabot/mercabot-go/internal/bot"
	"github.com/mercabot/mercabot-go/internal/buildinfo"
	"github.com/mercabot/mercabot-go/internal/config"
	"github.com/mercabot/mercabot-go/internal/logger"
	"github.com/mercabot/mercabot-go/internal/metrics"
	"github.com/mercabot/mercabot-go/internal/modules/customers"
	"github.com/mercabot/mercabot-go/internal/modules/orders"
	"github.com/mercabot/mercabot-go/internal/modules/products"
	"github.com/mercabot/mercabot-go/internal/modules/sales"
	"github.com/mercabot/mercabot-go/internal/ratelimit"
	"github.com/mercabot/mercabot-go/internal/sentry"
	"github.com/mercabot/mercabot-go/internal/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})
	log.WithField("version", buildinfo.Version).Info("Starting Mercabot action server")

	// Initialize Sentry (no-op when DSN is empty)
	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		log.WithError(err).Warn("Failed to initialize Sentry, error reporting disabled")
	} else if sentry.IsEnabled() {
		log.WithField("environment", cfg.SentryEnvironment).Info("Sentry initialized")
	}
	defer sentry.Flush(2 * time.Second)

	// Create Prometheus registry with runtime collectors
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())

	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Create store backend client
	client := backend.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout).WithMetrics(m)
	log.WithField("base_url", cfg.BackendBaseURL).
		WithField("timeout", cfg.BackendTimeout).
		Info("Store backend client created")

	// Register action modules
	registryBot, err := bot.NewRegistry(
		orders.NewHandler(client, m, log),
		customers.NewHandler(client, m, log),
		products.NewHandler(client, m, log),
		sales.NewHandler(client, m, log),
	)
	if err != nil {
		log.WithError(err).Fatal("Failed to register action modules")
	}
	for _, h := range registryBot.Handlers() {
		log.WithField("module", h.Name()).
			WithField("actions", len(h.Actions())).
			Info("Module registered")
	}

	webhookHandler := webhook.NewHandler(registryBot, m, log, cfg.ActionTimeout)

	// Per-sender throttling (disabled when burst is 0)
	if cfg.SenderRateBurst > 0 {
		limiter := ratelimit.NewPerKeyLimiter(ratelimit.PerKeyConfig{
			MaxTokens:     cfg.SenderRateBurst,
			RefillRate:    cfg.SenderRateRefill,
			CleanupPeriod: 5 * time.Minute,
		})
		defer limiter.Stop()
		webhookHandler.SetRateLimiter(limiter)
		log.WithField("burst", cfg.SenderRateBurst).
			WithField("refill_per_sec", cfg.SenderRateRefill).
			Info("Per-sender rate limiting enabled")
	}

	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentry.GinMiddleware())
	}
	router.Use(securityHeadersMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))

	setupRoutes(router, webhookHandler, client, registry, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  config.ActionHTTPRead,
		WriteTimeout: config.ActionHTTPWrite,
		IdleTimeout:  config.ActionHTTPIdle,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server stopped")
}
