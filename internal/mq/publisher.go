package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/SpaceBattle/internal/game"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeCommandSubmit MessageType = "command.submit"
	MessageTypeGameStopped   MessageType = "game.stopped"
)

// Message — конверт сообщения.
type Message struct {
	ID        string      `json:"id"`
	Type      MessageType `json:"type"`
	Payload   any         `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewMessage создаёт конверт с новым ID.
func NewMessage(msgType MessageType, payload any) *Message {
	return &Message{
		ID:        uuid.New().String(),
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// CommandSubmitPayload — команда игре.
type CommandSubmitPayload struct {
	GameID uuid.UUID `json:"game_id"`
	game.CommandRequest
}

// GameStoppedPayload — событие остановки игры.
type GameStoppedPayload struct {
	GameID    uuid.UUID  `json:"game_id"`
	Name      string     `json:"name,omitempty"`
	Status    string     `json:"status"`
	Errors    []string   `json:"errors,omitempty"`
	StoppedAt *time.Time `json:"stopped_at,omitempty"`
}

// NewGameStoppedPayload собирает событие из сводки игры.
func NewGameStoppedPayload(info game.Info) GameStoppedPayload {
	return GameStoppedPayload{
		GameID:    info.ID,
		Name:      info.Name,
		Status:    string(info.Status),
		Errors:    info.Errors,
		StoppedAt: info.StoppedAt,
	}
}

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher. nil logger — slog.Default().
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Publish публикует сообщение в exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),   // exchange
			string(routingKey), // routing key
			false,              // mandatory
			false,              // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    msg.ID,
				Type:         string(msg.Type),
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)
		return nil
	})
}

// PublishCommand ставит команду игре в очередь games.commands.
func (p *Publisher) PublishCommand(ctx context.Context, gameID uuid.UUID, req game.CommandRequest) error {
	msg := NewMessage(MessageTypeCommandSubmit, CommandSubmitPayload{GameID: gameID, CommandRequest: req})
	return p.Publish(ctx, ExchangeGames, RoutingKeyCommand, msg)
}

// GameStopped публикует событие game.stopped. Реализует game.Notifier.
func (p *Publisher) GameStopped(ctx context.Context, info game.Info) error {
	msg := NewMessage(MessageTypeGameStopped, NewGameStoppedPayload(info))
	return p.Publish(ctx, ExchangeEvents, RoutingKeyGameStopped, msg)
}
