package api

import (
	"github.com/google/uuid"

	"github.com/shaiso/SpaceBattle/internal/game"
	"github.com/shaiso/SpaceBattle/internal/space"
)

// CreateGameRequest — запрос на создание игры.
type CreateGameRequest struct {
	Name  string       `json:"name,omitempty"`
	Ships []space.Ship `json:"ships"`
}

// ToSpec конвертирует запрос в game.CreateSpec.
func (r CreateGameRequest) ToSpec() game.CreateSpec {
	return game.CreateSpec{Name: r.Name, Ships: r.Ships}
}

// StopGameRequest — запрос на остановку игры.
// Пустое тело — мягкая остановка.
type StopGameRequest struct {
	Soft *bool `json:"soft,omitempty"`
}

// IsSoft возвращает режим остановки (по умолчанию мягкий).
func (r StopGameRequest) IsSoft() bool {
	return r.Soft == nil || *r.Soft
}

// CommandAcceptedResponse — команда принята в очередь игры.
type CommandAcceptedResponse struct {
	GameID uuid.UUID `json:"game_id"`
	Key    string    `json:"key"`
	ShipID string    `json:"ship_id,omitempty"`
}

// WebSocket-сообщения.
const (
	WSTypeCommand  = "command"
	WSTypeSnapshot = "snapshot"
	WSTypeAccepted = "accepted"
	WSTypeError    = "error"
)

// WSRequest — сообщение клиента.
type WSRequest struct {
	// Type — command или snapshot.
	Type string `json:"type"`

	// ID возвращается в ответе без изменений.
	ID string `json:"id,omitempty"`

	game.CommandRequest
}

// WSReply — ответ сервера.
type WSReply struct {
	Type     string         `json:"type"`
	ID       string         `json:"id,omitempty"`
	Snapshot *game.Snapshot `json:"snapshot,omitempty"`
	Error    *ErrorDetail   `json:"error,omitempty"`
}
