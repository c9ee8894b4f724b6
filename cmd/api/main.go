// @title           Promotion REST API Service
// @version         1.0
// @description     RESTful service for managing e-commerce promotions.
//
// @securityDefinitions.apikey ApiKeyAuth
// @in   header
// @name X-Api-Key
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"promotions/internal/app"
	"promotions/internal/config"

	_ "promotions/docs"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const serviceName = "promotions"

// Exit code for a failed schema setup, so supervisors can tell it apart from
// an ordinary crash.
const exitSchema = 4

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.With().Str("service", serviceName).Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	log.Info().Str("env", cfg.App.Env).Msg("config loaded, connecting to Postgres and Redis")

	application, err := app.New(cfg)
	if err != nil {
		if errors.Is(err, app.ErrSchema) {
			log.Error().Err(err).Msg("cannot continue without schema")
			os.Exit(exitSchema)
		}
		log.Fatal().Err(err).Msg("app init")
	}
	log.Info().Msg("service initialized, starting HTTP server")

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      application.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	if err := application.Close(ctx); err != nil {
		log.Error().Err(err).Msg("close")
	}
}
