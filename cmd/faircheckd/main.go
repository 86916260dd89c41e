package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"faircheck/internal/bias"
	"faircheck/internal/cfg"
	"faircheck/internal/metrics"
	"faircheck/internal/phi"
	"faircheck/internal/protocol"
	"faircheck/internal/scores"
	"faircheck/internal/service"
	"faircheck/internal/storage"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	c, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	m := metrics.New()
	mw := metrics.NewWrapper(m)

	detector := phi.NewClient(c.ProviderURL, c.ProviderTimeout).WithMetrics(mw)
	store := initializeCache(c)
	if store != nil {
		defer store.Close()
		detector.WithCache(store)
	}

	engine := bias.NewWithMetrics(scores.New(), mw)
	handler := protocol.NewHandler(engine, detector, protocol.Defaults{
		Scheme:         bias.Scheme(c.Scheme),
		RatioThreshold: c.RatioThreshold,
		Language:       c.Language,
		PHIThreshold:   c.PHIThreshold,
	})

	srv := service.New(handler, c.Port)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("evaluation server failed")
		}
	}()

	waitForShutdown(srv)
}

// initializeCache opens the detection cache if DATA_PATH is configured.
func initializeCache(c cfg.Settings) *storage.Store {
	if c.DataPath == "" {
		return nil
	}
	store, err := storage.New(c.DataPath)
	if err != nil {
		log.Warn().Err(err).Msg("cache initialization failed, continuing without detection cache")
		return nil
	}
	return store
}

func waitForShutdown(srv *service.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("shutdown signal received, shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("shutdown timeout, forcing exit")
	}
}
