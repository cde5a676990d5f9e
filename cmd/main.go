package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/Dosada05/cricket-system/config"
	"github.com/Dosada05/cricket-system/db"
	"github.com/Dosada05/cricket-system/handlers"
	"github.com/Dosada05/cricket-system/repositories"
	api "github.com/Dosada05/cricket-system/routes"
	"github.com/Dosada05/cricket-system/schedule"
	"github.com/Dosada05/cricket-system/services"
)

const reconcileInterval = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

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
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	wsHub := schedule.NewHub()
	go wsHub.Run()
	logger.Info("websocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	squadRepo := repositories.NewPostgresSquadRepository(dbConn)
	roundRepo := repositories.NewPostgresRoundRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	notificationRepo := repositories.NewPostgresNotificationRepository(dbConn)
	logger.Info("repositories initialized")

	notifier := services.NewHubNotifier(wsHub, logger)

	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey, cfg.JWTTokenTTL)
	teamService := services.NewTeamService(teamRepo)
	playerService := services.NewPlayerService(playerRepo, teamRepo)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, notifier, logger)
	tournamentService := services.NewTournamentService(tournamentRepo, teamRepo, squadRepo, notificationService, logger)
	squadService := services.NewSquadService(squadRepo, playerRepo, logger)

	schedulerService := services.NewSchedulerService(
		roundRepo,
		matchRepo,
		schedule.NewRoundRobinGenerator(),
		schedule.NewKnockoutGenerator(rand.NewSource(time.Now().UnixNano())),
		logger,
	)
	roundService := services.NewRoundService(roundRepo, tournamentRepo, schedulerService, logger)
	statsService := services.NewStatsService(matchRepo, playerRepo, teamRepo, logger)
	standingsService := services.NewStandingsService(roundRepo, matchRepo, tournamentRepo, teamRepo, logger)
	matchService := services.NewMatchService(matchRepo, roundRepo, statsService, standingsService, notifier, logger)
	logger.Info("services initialized")

	// Retry loop for matches completed but not yet folded into statistics.
	go func() {
		ticker := time.NewTicker(reconcileInterval)
		defer ticker.Stop()

		if err := matchService.ReconcilePendingStats(context.Background()); err != nil {
			logger.Error("initial statistics reconciliation failed", slog.Any("error", err))
		}
		for range ticker.C {
			if err := matchService.ReconcilePendingStats(context.Background()); err != nil {
				logger.Error("statistics reconciliation failed", slog.Any("error", err))
			}
		}
	}()

	authHandler := handlers.NewAuthHandler(authService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	roundHandler := handlers.NewRoundHandler(roundService, schedulerService)
	matchHandler := handlers.NewMatchHandler(matchService)
	teamHandler := handlers.NewTeamHandler(teamService)
	playerHandler := handlers.NewPlayerHandler(playerService)
	squadHandler := handlers.NewSquadHandler(squadService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)
	logger.Info("http handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authService,
		authHandler,
		tournamentHandler,
		roundHandler,
		matchHandler,
		teamHandler,
		playerHandler,
		squadHandler,
		notificationHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

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
		logger.Info("server stopped gracefully")
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
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
