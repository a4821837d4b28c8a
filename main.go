package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mkravets/eduline/internal/app"
	"github.com/mkravets/eduline/internal/config"
	"github.com/mkravets/eduline/internal/database"
	"github.com/mkravets/eduline/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log = logger.NewWithConfig(cfg.Logging.Level, cfg.Logging.Pretty, cfg.Logging.NoColor)

	connector := database.NewConnector(cfg.Database, log)

	if !cfg.Server.Serverless {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
		defer cancel()

		if err := connector.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}

		log.Info().Msg("Database connection established")
	}

	application, err := app.New(cfg, log, connector)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create application")
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	go func() {
		if err := application.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to run application")
		}
	}()

	log.Info().Msgf("Eduline started on %s", cfg.Server.Address)

	<-ctx.Done()
	log.Info().Msg("Shutting down Eduline...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown gracefully")
	}

	log.Info().Msg("Eduline stopped")
}
