package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/repeetcode/internal/app"
	"github.com/vytor/repeetcode/internal/config"
	"github.com/vytor/repeetcode/internal/jobs"
	"github.com/vytor/repeetcode/internal/logger"
	"github.com/vytor/repeetcode/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(logger.ParseFormat(cfg.LogFormat)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	log.Info("repeetcode server starting")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_driver=%s", cfg.DBDriver)
	log.Debug("timezone=%s", cfg.Timezone)
	log.Debug("worker_count=%d queue_size=%d", cfg.WorkerCount, cfg.QueueSize)
	log.Debug("reconcile_interval=%v reconcile_grace=%v", cfg.ReconcileInterval, cfg.ReconcileGrace)
	log.Debug("catalog_refresh_interval=%v", cfg.CatalogRefreshInterval)

	ctx, cancel := context.WithCancel(logger.NewContext(context.Background(), log))
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		_ = a.Close()
	}()

	// Background jobs run on the pool; gocron only enqueues them.
	pool := worker.NewPool(cfg.WorkerCount, cfg.QueueSize)
	pool.Start(ctx)

	sched := jobs.NewScheduler(pool)
	if err := sched.Every(cfg.ReconcileInterval, a.ReconcileJob()); err != nil {
		log.Error("failed to schedule reconciliation: %v", err)
		os.Exit(1)
	}
	if err := sched.Every(cfg.CatalogRefreshInterval, a.CatalogReloadJob()); err != nil {
		log.Error("failed to schedule catalog refresh: %v", err)
		os.Exit(1)
	}
	sched.Start()

	// Pick up attempts stranded by a previous crash.
	if err := pool.TrySubmit(a.ReconcileJob()); err != nil {
		log.Warn("startup reconciliation not queued: %v", err)
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      a.Server().Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	log.Debug("stopping scheduler")
	sched.Stop()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping worker pool")
	cancel()
	pool.Stop()

	log.Info("repeetcode server stopped")
}
