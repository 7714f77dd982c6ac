package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ibragim1996/stream-overlay/internal/api"
	"github.com/Ibragim1996/stream-overlay/internal/bus"
	"github.com/Ibragim1996/stream-overlay/internal/config"
	"github.com/Ibragim1996/stream-overlay/internal/generate"
	"github.com/Ibragim1996/stream-overlay/internal/handlers"
	"github.com/Ibragim1996/stream-overlay/internal/store"
	"github.com/Ibragim1996/stream-overlay/internal/token"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	ctx := context.Background()

	// Shared keyed store
	redisStore, err := store.NewRedisStore(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisStore.Close()
	logger.Info().Msg("connected to Redis")

	// Token codec
	codec, err := token.NewCodec(cfg.OverlaySecret)
	if err != nil {
		logger.Fatal().Err(err).Msg("token codec init failed")
	}

	// Text generation provider; without a key every task request is
	// served from the fallback pool
	var provider generate.Provider
	if cfg.OpenAIKey != "" {
		provider = generate.NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel)
		logger.Info().Str("model", cfg.OpenAIModel).Msg("text generation enabled")
	} else {
		logger.Warn().Msg("OPENAI_API_KEY not set, serving fallback lines only")
	}

	eventBus := bus.New(redisStore, logger)
	generator := generate.New(provider, redisStore, eventBus, logger)

	h := handlers.NewHandler(redisStore, eventBus, codec, generator, logger, cfg.RateLimitPerMinute)
	router := api.NewRouter(logger, h)

	// Create server. WriteTimeout stays zero: event stream responses
	// are long-lived.
	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("starting stream-overlay server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}
