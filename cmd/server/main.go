package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wareinc/internal/config"
	"wareinc/internal/infra"
	"wareinc/internal/router"
	"wareinc/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	zerolog.TimeFieldFormat = time.RFC3339
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}
	if err := infra.Seed(db, cfg.Capital); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis only carries background jobs; the ledger keeps working without it.
	var (
		dispatcher *worker.Dispatcher
		pool       *worker.Pool
	)
	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, background jobs disabled")
		rdb = nil
	} else {
		dispatcher = worker.NewDispatcher(rdb)
	}

	mailCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	svcs := router.NewServices(cfg, db, dispatcher)

	if rdb != nil {
		mailer := infra.NewMailer(cfg)
		if !mailer.Enabled() {
			log.Warn().Msg("SMTP_HOST not set, email jobs will be dead-lettered")
		}
		pool = worker.NewPool(rdb, map[string]worker.Handler{
			worker.JobEmail:    worker.NewEmailWorker(mailer, mailCB),
			worker.JobRespaldo: worker.NewRespaldoWorker(svcs.Respaldos, dispatcher),
		})
		pool.Start(ctx, cfg.WorkerPoolSize)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router.New(cfg, db, rdb, svcs, dispatcher, mailCB),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("wareinc listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	if pool != nil {
		pool.Wait()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}

