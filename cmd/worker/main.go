package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwalitptl/kiliniks-api/internal/config"
	"github.com/jwalitptl/kiliniks-api/internal/email"
	"github.com/jwalitptl/kiliniks-api/internal/events"
	"github.com/jwalitptl/kiliniks-api/internal/handler/health"
	metricshandler "github.com/jwalitptl/kiliniks-api/internal/handler/prometheus"
	"github.com/jwalitptl/kiliniks-api/pkg/logger"
	"github.com/jwalitptl/kiliniks-api/pkg/messaging/redis"
	"github.com/jwalitptl/kiliniks-api/pkg/metrics"
	"github.com/jwalitptl/kiliniks-api/pkg/worker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "kiliniks-worker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewLogger(&logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	}).WithFields(map[string]interface{}{"component": "notification-worker"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics("kiliniks", reg)

	broker, err := events.NewBroker(ctx, cfg.Events, log, m)
	if err != nil {
		return fmt.Errorf("failed to connect to event broker: %w", err)
	}
	defer broker.Close()

	w, err := worker.NewNotificationWorker(broker, email.NewSender(cfg.Email), worker.NotificationConfig{
		Channel:       cfg.Events.Channel,
		Recipients:    cfg.Email.To,
		RetryAttempts: cfg.Worker.RetryAttempts,
		RetryDelay:    cfg.Worker.RetryDelay,
	}, log, m)
	if err != nil {
		return err
	}

	var checks []health.Check
	if rb, ok := broker.(*redis.RedisBroker); ok {
		checks = append(checks, health.Check{Name: "redis", Fn: rb.Ping})
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	health.NewHandler(checks...).RegisterRoutes(engine)
	metricshandler.NewHandler(reg).RegisterRoutes(engine)

	srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Worker.Port), Handler: engine}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err, "Health server failed")
			stop()
		}
	}()

	runErr := w.Start(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn(err, "Health server shutdown failed")
	}
	return runErr
}
