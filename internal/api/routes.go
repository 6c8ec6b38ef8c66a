package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
		Caller(h.logger),
	)

	// Games
	mux.Handle("GET /api/v1/games", chain(http.HandlerFunc(h.ListGames)))
	mux.Handle("POST /api/v1/games", chain(http.HandlerFunc(h.CreateGame)))
	mux.Handle("GET /api/v1/games/{id}", chain(http.HandlerFunc(h.GetGame)))
	mux.Handle("POST /api/v1/games/{id}/stop", chain(http.HandlerFunc(h.StopGame)))

	// Commands
	mux.Handle("POST /api/v1/games/{id}/commands", chain(http.HandlerFunc(h.SubmitCommand)))
	mux.Handle("GET /api/v1/games/{id}/ws", chain(http.HandlerFunc(h.GameSocket)))
}
