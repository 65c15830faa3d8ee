package app

import (
	"hash/maphash"
	"math/rand/v2"
	"net/http"

	"github.com/vancomm/sweeper/internal/handlers"
	"github.com/vancomm/sweeper/internal/middleware"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	game := handlers.NewGameHandler(
		a.log, a.registry, a.jwt, a.ws, a.config.Sessions.MaxCells,
	)
	auth := middleware.RequireGame(a.log, a.jwt)
	protect := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	a.router.HandleFunc("GET /v1/status", game.Status)
	a.router.HandleFunc("POST /v1/game", game.NewGame)
	a.router.Handle("GET /v1/game/{id}", protect(game.Fetch))
	a.router.Handle("POST /v1/game/{id}/reveal", protect(game.Reveal))
	a.router.Handle("POST /v1/game/{id}/flag", protect(game.Flag))
	a.router.Handle("POST /v1/game/{id}/forfeit", protect(game.Forfeit))
	a.router.Handle("POST /v1/game/{id}/batch", protect(game.Batch))
	a.router.Handle("GET /v1/game/{id}/connect", protect(game.ConnectWS))
}
