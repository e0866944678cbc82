package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pe-insights-go/internal/analyzer"
	"pe-insights-go/internal/config"
	"pe-insights-go/internal/httpapi"
	"pe-insights-go/internal/logger"
	"pe-insights-go/internal/store"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "pe-insights-go").Info("starting service")

	cfg := config.Load()
	st, err := store.New(cfg.DataDir)
	if err != nil {
		log.WithError(err).Fatal("failed to open data directory")
	}
	log.WithField("data_dir", cfg.DataDir).WithField("reports", len(st.History())).Info("store ready")

	client := analyzer.NewClient(cfg)
	runner := analyzer.NewRunner(st, client)
	api := httpapi.New(cfg, st, runner)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      api.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.WithField("addr", cfg.ListenAddr).Info("listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Error("shutdown error")
		}
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server terminated")
		}
	}
}
