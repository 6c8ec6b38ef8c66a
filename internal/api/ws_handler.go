package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/shaiso/SpaceBattle/internal/telemetry"
)

const (
	wsReadLimit    = 4096
	wsWriteTimeout = 5 * time.Second
)

// GameSocket принимает команды игры по websocket.
// GET /api/v1/games/{id}/ws
//
// Каждое сообщение клиента получает ровно один ответ: accepted,
// snapshot или error. Соединение живёт, пока клиент его не закроет.
func (h *Handler) GameSocket(w http.ResponseWriter, r *http.Request) {
	id, ok := gameID(w, r)
	if !ok {
		return
	}
	if _, err := h.games.Get(id); HandleError(w, h.logger, err) {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		h.logger.Warn("websocket upgrade failed", "game_id", id, "error", err)
		return
	}
	defer conn.Close()

	logger := telemetry.ForGame(telemetry.FromContext(r.Context()), id, "")
	logger.Debug("websocket connected")

	conn.SetReadLimit(wsReadLimit)

	for {
		var req WSRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		reply := h.handleSocketMessage(r.Context(), id, req)

		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(reply); err != nil {
			logger.Warn("websocket write failed", "error", err)
			return
		}
	}
}

// handleSocketMessage выполняет одно сообщение клиента.
func (h *Handler) handleSocketMessage(ctx context.Context, id uuid.UUID, req WSRequest) WSReply {
	switch req.Type {
	case WSTypeCommand:
		if err := h.games.SubmitRequest(ctx, id, req.CommandRequest); err != nil {
			return socketError(req.ID, err)
		}
		return WSReply{Type: WSTypeAccepted, ID: req.ID}

	case WSTypeSnapshot:
		snap, err := h.games.Snapshot(ctx, id)
		if err != nil {
			return socketError(req.ID, err)
		}
		return WSReply{Type: WSTypeSnapshot, ID: req.ID, Snapshot: &snap}

	default:
		return WSReply{
			Type:  WSTypeError,
			ID:    req.ID,
			Error: &ErrorDetail{Code: ErrCodeBadRequest, Message: "unknown message type: " + req.Type},
		}
	}
}

func socketError(reqID string, err error) WSReply {
	_, code, ok := Classify(err)
	msg := err.Error()
	if !ok && !errors.Is(err, context.Canceled) {
		msg = "internal server error"
	}
	return WSReply{Type: WSTypeError, ID: reqID, Error: &ErrorDetail{Code: code, Message: msg}}
}

