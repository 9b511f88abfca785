package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/mapguess/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("MapGuess API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())

	r.Get("/api/map", handleMapView(defaultMapView))
	r.Get("/api/highscores", handleListHighscores(logger, deps.Board))
	r.Post("/api/sessions", handleCreateSession(logger, deps.Sessions))

	// Session routes, {id} resolved by sessionMiddleware.
	r.Route("/api/sessions/{id}", func(r chi.Router) {
		r.Use(sessionMiddleware(deps.Sessions))
		r.Get("/", handleGetSession())
		r.Delete("/", handleDeleteSession(logger, deps.Sessions))
		r.Post("/click", handleClick())
		r.Post("/confirm", handleConfirm())
		r.Post("/advance", handleAdvance())
		r.Get("/events", handleEvents(deps.Broker))
		r.Get("/highscore", handleQualify(logger, deps.Board))
		r.Post("/highscore", handleSubmitHighscore(logger, deps.Board))
	})

	r.With(sessionMiddleware(deps.Sessions)).Get("/ws/sessions/{id}", handleWSSession(logger, deps.Broker))

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
