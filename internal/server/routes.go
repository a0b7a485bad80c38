package server

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/wikihop/wikihop/internal/wiki"
)

func addRoutes(r chi.Router, logger *slog.Logger, sessions *Sessions, store Store, wikiClient *wiki.Client, db *sql.DB, spaDir string) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("WikiHop API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))
	r.Get("/ws/echo", handleWSEcho(logger))

	r.Route("/api", func(r chi.Router) {
		r.Use(gameCookieMiddleware)

		r.Get("/langs", handleLangs())
		r.Get("/modes", handleModes(sessions))
		r.Get("/wiki/preview", handlePreview(wikiClient))

		r.Post("/auth/register", handleRegister(store))
		r.Post("/auth/login", handleLogin(store))
		r.Post("/auth/logout", handleLogout(store))
		r.Get("/auth/me", handleMe(store))

		r.Route("/game", func(r chi.Router) {
			r.Post("/start", handleStartRun(sessions, store))
			r.Post("/navigate", handleNavigate(sessions))
			r.Get("/state", handleGameState(sessions))
			r.Get("/events", handleRunEvents(sessions))

			r.Route("/rogue", func(r chi.Router) {
				r.Get("/", handleRogueState(sessions))
				r.Get("/choices", handleModifierChoices(sessions))
				r.Post("/modifiers", handleChooseModifiers(sessions))
				r.Get("/shop", handleShop(sessions))
				r.Post("/shop/buy", handleBuyItem(sessions))
				r.Post("/shop/reroll", handleRerollShop(sessions))
				r.Post("/items/use", handleUseItem(sessions))
				r.Post("/next", handleNextStage(sessions))
			})
		})

		r.Get("/leaderboard/{board}", handleLeaderboard(store))
		r.Get("/leaderboard/{board}/challenged", handleHasChallenged(store))
		r.Post("/challenges", handleCreateChallenge(store))
		r.Get("/challenges/{id}", handleGetChallenge(store))

		r.Route("/party", func(r chi.Router) {
			r.Post("/", handleCreateParty(sessions, store))
			r.Post("/{code}/join", handleJoinParty(sessions, store))
			r.Get("/{code}", handleGetParty(sessions))
			r.Post("/{code}/start", handleStartParty(sessions))
			r.Post("/{code}/leave", handleLeaveParty(sessions))
			r.Get("/{code}/events", handlePartyEvents(sessions))
		})
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
