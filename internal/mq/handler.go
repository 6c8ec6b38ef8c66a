package mq

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/shaiso/SpaceBattle/internal/game"
)

// Submitter принимает команды игр. Реализуется game.Manager.
type Submitter interface {
	SubmitRequest(ctx context.Context, id uuid.UUID, req game.CommandRequest) error
}

// CommandHandler возвращает обработчик сообщений command.submit.
//
// Отказы игры (неизвестный ключ, остановленная игра, неверный аргумент)
// не исправятся повтором, поэтому сообщение уходит в DLQ.
func CommandHandler(sub Submitter) Handler {
	return func(ctx context.Context, msg *Message) error {
		if msg.Type != MessageTypeCommandSubmit {
			return Permanent(fmt.Errorf("%w: %s", ErrUnexpectedType, msg.Type))
		}

		payload, err := ParsePayload[CommandSubmitPayload](msg)
		if err != nil {
			return Permanent(err)
		}
		if payload.GameID == uuid.Nil {
			return Permanent(fmt.Errorf("%w: game_id is required", game.ErrInvalidRequest))
		}

		if err := sub.SubmitRequest(ctx, payload.GameID, payload.CommandRequest); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return Permanent(err)
		}
		return nil
	}
}
