package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CommandRequest — команда игре в виде, пригодном для передачи по сети.
type CommandRequest struct {
	// Key — ключ IoC в scope игры (Ship.Move, Game.Tick, ...).
	Key string `json:"key"`

	// ShipID — аргумент корабельных команд.
	ShipID string `json:"ship_id,omitempty"`
}

// Args возвращает аргументы разрешения ключа.
func (r CommandRequest) Args() []any {
	if r.ShipID == "" {
		return nil
	}
	return []any{r.ShipID}
}

// Validate проверяет запрос до обращения к IoC.
func (r CommandRequest) Validate() error {
	if r.Key == "" {
		return fmt.Errorf("%w: key is required", ErrInvalidRequest)
	}
	return nil
}

// SubmitRequest — Submit для сетевого запроса.
func (m *Manager) SubmitRequest(ctx context.Context, id uuid.UUID, req CommandRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return m.Submit(ctx, id, req.Key, req.Args()...)
}
