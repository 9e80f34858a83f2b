package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jwalitptl/kiliniks-api/internal/config"
	"github.com/jwalitptl/kiliniks-api/internal/events"
	appointmentHandler "github.com/jwalitptl/kiliniks-api/internal/handler/appointment"
	flowHandler "github.com/jwalitptl/kiliniks-api/internal/handler/flow"
	"github.com/jwalitptl/kiliniks-api/internal/handler/health"
	"github.com/jwalitptl/kiliniks-api/internal/middleware"
	"github.com/jwalitptl/kiliniks-api/internal/repository/postgres"
	"github.com/jwalitptl/kiliniks-api/internal/router"
	appointmentService "github.com/jwalitptl/kiliniks-api/internal/service/appointment"
	flowService "github.com/jwalitptl/kiliniks-api/internal/service/flow"
	"github.com/jwalitptl/kiliniks-api/pkg/logger"
	"github.com/jwalitptl/kiliniks-api/pkg/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "kiliniks-api: %v\n", err)
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
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.SecretARN != "" {
		secrets, err := config.NewSecretsClient(ctx, cfg.Database.Region)
		if err != nil {
			return err
		}
		if err := config.ApplyDatabaseSecret(ctx, secrets, &cfg.Database); err != nil {
			return err
		}
		log.Info("Loaded database credentials from Secrets Manager")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics("kiliniks", reg)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			return err
		}
		log.Info("Database schema is up to date")
	}

	publisher, closePublisher, err := events.NewPublisher(ctx, cfg.Events, log, m)
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}
	defer func() {
		if err := closePublisher(); err != nil {
			log.Warn(err, "Failed to close event publisher")
		}
	}()

	repoOpts := []postgres.Option{postgres.WithMetrics(m)}
	appointmentRepo := postgres.NewAppointmentRepository(db, repoOpts...)
	flowRepo := postgres.NewFlowRepository(db, repoOpts...)
	locationRepo := postgres.NewLocationRepository(db, repoOpts...)
	stageRepo := postgres.NewStageRepository(db, repoOpts...)

	appointmentSvc := appointmentService.NewService(appointmentRepo, publisher, log, m, cfg.Events.PublishTimeout)
	// in-flight publishes finish before the publisher is closed
	defer appointmentSvc.Wait()
	flowSvc := flowService.NewService(flowRepo, locationRepo, stageRepo)

	r := router.NewRouter(cfg, router.Deps{
		Logger:   log,
		Metrics:  m,
		Gatherer: reg,
		Auth:     middleware.NewAuthMiddleware(cfg.Auth),
		Health:   health.NewHandler(health.Check{Name: "database", Fn: db.PingContext}),
		Handlers: []router.Handler{
			appointmentHandler.NewHandler(appointmentSvc),
			flowHandler.NewHandler(flowSvc),
		},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", "port", cfg.Server.Port, "events_driver", cfg.Events.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server exited properly")
	return nil
}
