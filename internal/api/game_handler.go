package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/shaiso/SpaceBattle/internal/game"
)

// gameID разбирает {id} из пути. При ошибке ответ уже отправлен.
func gameID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid game id")
		return uuid.Nil, false
	}
	return id, true
}

// CreateGame создаёт игру и запускает её воркер.
// POST /api/v1/games
func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	info, err := h.games.Create(r.Context(), req.ToSpec())
	if HandleError(w, h.logger, err) {
		return
	}

	Created(w, info)
}

// ListGames возвращает сводки всех игр.
// GET /api/v1/games
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	games := h.games.List()
	List(w, games, len(games))
}

// GetGame возвращает снимок игры.
// GET /api/v1/games/{id}
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	id, ok := gameID(w, r)
	if !ok {
		return
	}

	snap, err := h.games.Snapshot(r.Context(), id)
	if HandleError(w, h.logger, err) {
		return
	}

	Success(w, snap)
}

// SubmitCommand ставит команду в очередь игры.
// POST /api/v1/games/{id}/commands
func (h *Handler) SubmitCommand(w http.ResponseWriter, r *http.Request) {
	id, ok := gameID(w, r)
	if !ok {
		return
	}

	var req game.CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if HandleError(w, h.logger, h.games.SubmitRequest(r.Context(), id, req)) {
		return
	}

	Accepted(w, CommandAcceptedResponse{GameID: id, Key: req.Key, ShipID: req.ShipID})
}

// StopGame останавливает игру.
// POST /api/v1/games/{id}/stop
func (h *Handler) StopGame(w http.ResponseWriter, r *http.Request) {
	id, ok := gameID(w, r)
	if !ok {
		return
	}

	var req StopGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		BadRequest(w, "invalid request body")
		return
	}

	info, err := h.games.Stop(r.Context(), id, req.IsSoft())
	if HandleError(w, h.logger, err) {
		return
	}

	Success(w, info)
}
