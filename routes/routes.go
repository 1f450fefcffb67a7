package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pitchside/fixture-engine/handlers"
)

func SetupRoutes(
	router *chi.Mux,
	allowedOrigins []string,
	fixtureHandler *handlers.FixtureHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/fixtures", func(r chi.Router) {
		r.Post("/", fixtureHandler.Create)
		r.Get("/{fixtureID}", fixtureHandler.Get)
		r.Patch("/{fixtureID}/status", fixtureHandler.UpdateStatus)
		r.Post("/{fixtureID}/schedule", fixtureHandler.GenerateSchedule)
		r.Get("/{fixtureID}/matches", fixtureHandler.ListMatches)
		r.Get("/{fixtureID}/standings", fixtureHandler.GetStandings)
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", matchHandler.Get)
		r.Patch("/{matchID}/schedule", matchHandler.Reschedule)
		r.Post("/{matchID}/swap", matchHandler.SwapSides)
		r.Post("/{matchID}/result", matchHandler.RecordResult)
	})

	router.Get("/conflicts", matchHandler.FindConflicts)
	router.Get("/venues/{venueID}/suggestions", matchHandler.SuggestAlternatives)

	router.Get("/ws/fixtures/{fixtureID}", webSocketHandler.ServeWs)
}
