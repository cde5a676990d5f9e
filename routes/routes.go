package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Dosada05/cricket-system/handlers"
	"github.com/Dosada05/cricket-system/middleware"
	"github.com/Dosada05/cricket-system/models"
	"github.com/Dosada05/cricket-system/services"
)

// SetupRoutes mounts every endpoint on the router. Read endpoints are
// public; mutations require authentication, scheduling and tournament
// management additionally require the admin role, and live scoring is open
// to scorers.
func SetupRoutes(
	router *chi.Mux,
	authService *services.AuthService,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	roundHandler *handlers.RoundHandler,
	matchHandler *handlers.MatchHandler,
	teamHandler *handlers.TeamHandler,
	playerHandler *handlers.PlayerHandler,
	squadHandler *handlers.SquadHandler,
	notificationHandler *handlers.NotificationHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(authService)
	adminOnly := middleware.Authorize(models.RoleAdmin)
	scoringRoles := middleware.Authorize(models.RoleAdmin, models.RoleScorer)

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)
	router.With(authenticate).Get("/auth/me", authHandler.Me)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListTournaments)
		r.Get("/{tournamentID}", tournamentHandler.GetTournament)
		r.Get("/{tournamentID}/rounds", roundHandler.ListByTournament)
		r.Get("/{tournamentID}/matches", matchHandler.ListByTournament)
		r.Get("/{tournamentID}/squads", squadHandler.ListByTournament)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)

			r.Post("/", tournamentHandler.CreateTournament)
			r.Post("/{tournamentID}/teams", tournamentHandler.AddTeams)
			r.Delete("/{tournamentID}", tournamentHandler.DeleteTournament)
		})
	})

	router.Route("/rounds", func(r chi.Router) {
		r.Get("/{roundID}", roundHandler.GetRound)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)

			r.Post("/", roundHandler.CreateRound)
			r.Post("/{roundID}/schedule", roundHandler.ScheduleRound)
			r.Delete("/{roundID}", roundHandler.DeleteRound)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", matchHandler.GetMatch)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.With(adminOnly).Post("/", matchHandler.CreateMatch)
			r.With(scoringRoles).Post("/{matchID}/start", matchHandler.StartMatch)
			r.With(scoringRoles).Post("/{matchID}/players", matchHandler.InitializePlayers)
			r.With(scoringRoles).Post("/{matchID}/complete", matchHandler.CompleteMatch)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.ListTeams)
		r.Get("/{teamID}", teamHandler.GetTeam)
		r.Get("/{teamID}/matches", matchHandler.ListByTeam)

		r.With(authenticate, adminOnly).Post("/", teamHandler.CreateTeam)
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/{playerID}", playerHandler.GetPlayer)

		r.With(authenticate, adminOnly).Post("/", playerHandler.CreatePlayer)
	})

	router.Route("/squads", func(r chi.Router) {
		r.Get("/{squadID}", squadHandler.GetSquad)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)

			r.Patch("/{squadID}/status", squadHandler.SetStatus)
			r.Delete("/{squadID}/players/{playerID}", squadHandler.RemovePlayer)
			r.Delete("/{squadID}", squadHandler.DeleteSquad)
		})
	})

	router.Route("/notifications", func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/", notificationHandler.ListMine)
		r.Patch("/{notificationID}/read", notificationHandler.MarkRead)
	})

	router.Get("/ws/matches/{matchID}", webSocketHandler.ServeMatch)
	router.Get("/ws/users/{userID}", webSocketHandler.ServeUser)
}
