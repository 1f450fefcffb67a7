package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pitchside/fixture-engine/config"
	"github.com/pitchside/fixture-engine/db"
	"github.com/pitchside/fixture-engine/handlers"
	"github.com/pitchside/fixture-engine/realtime"
	"github.com/pitchside/fixture-engine/repositories"
	api "github.com/pitchside/fixture-engine/routes"
	"github.com/pitchside/fixture-engine/scheduling"
	"github.com/pitchside/fixture-engine/services"
	"github.com/pitchside/fixture-engine/standings"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	hub := realtime.NewHub(logger)
	go hub.Run()

	fixtureRepo := repositories.NewPostgresFixtureRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	resultRepo := repositories.NewPostgresResultRepository(dbConn)
	blockedWindowRepo := repositories.NewPostgresBlockedWindowRepository(dbConn)

	detector := scheduling.NewDetector(matchRepo, blockedWindowRepo)

	standingsService := services.NewStandingsService(fixtureRepo, resultRepo, standings.DefaultScoring, hub, logger)
	fixtureService := services.NewFixtureService(dbConn, fixtureRepo, participantRepo, matchRepo, detector, hub, logger)
	matchService := services.NewMatchService(dbConn, matchRepo, fixtureRepo, resultRepo, detector, standingsService, hub, logger)
	logger.Info("services initialized")

	fixtureHandler := handlers.NewFixtureHandler(fixtureService, matchService, standingsService)
	matchHandler := handlers.NewMatchHandler(matchService)
	webSocketHandler := handlers.NewWebSocketHandler(hub, logger)

	router := chi.NewRouter()
	api.SetupRoutes(router, cfg.CORSAllowedOrigins, fixtureHandler, matchHandler, webSocketHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
	}
	logger.Info("application exited")
}
