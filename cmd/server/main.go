package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cargohub/internal/config"
	"cargohub/internal/infra"
	"cargohub/internal/repository"
	"cargohub/internal/router"
	"cargohub/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL, cfg.WorkerPoolSize)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Pricing: sidecar behind a circuit breaker, local rate card as fallback.
	ratePerKm, err := decimal.NewFromString(cfg.RatePerKm)
	if err != nil {
		log.Fatal().Str("rate_per_km", cfg.RatePerKm).Msg("RATE_PER_KM is not a valid decimal")
	}
	var pricer infra.Pricer
	if cfg.PricingURL != "" {
		cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())
		pricer = infra.NewFallbackPricer(infra.NewPricingClient(cfg.PricingURL), ratePerKm, cb)
	} else {
		pricer = &infra.RateCardPricer{RatePerKm: ratePerKm}
	}

	// Start goroutine worker pool for async tasks (invoice PDFs, email).
	// Worker handlers are wired here (composition root) so that the pool
	// has full access to all infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	billingRepo := repository.NewBillingRepository(db)
	clientRepo := repository.NewClientRepository(db)

	handlers := worker.Handlers{
		Invoice: worker.NewInvoiceWorker(billingRepo, clientRepo, dispatcher, cfg.PDFStoragePath),
		Email:   worker.NewEmailWorker(mailer),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)

	// Hourly sweep for overdue invoices → reminder emails
	worker.StartOverdueCron(ctx, worker.OverdueCronConfig{
		BillingRepo: billingRepo,
		Dispatcher:  dispatcher,
		RDB:         rdb,
	})

	r := router.New(cfg, db, rdb, pricer)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("CargoHub backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
