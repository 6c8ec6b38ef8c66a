package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangeGames  Exchange = "spacebattle.games"
	ExchangeEvents Exchange = "spacebattle.events"
	ExchangeDLQ    Exchange = "spacebattle.dlq"
)

// Queues — имена очередей.
const (
	QueueGameCommands Queue = "games.commands"
	QueueGameEvents   Queue = "games.events"
	QueueDLQCommands  Queue = "dlq.commands"
)

// Routing keys.
const (
	RoutingKeyCommand     RoutingKey = "command"
	RoutingKeyGameStopped RoutingKey = "game.stopped"
	RoutingKeyAllEvents   RoutingKey = "game.#"
	RoutingKeyDLQCommands RoutingKey = "commands"
)

// SetupTopology объявляет exchanges, queues и bindings.
// Повторный вызов с той же топологией безопасен.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		if err := declareExchanges(ch); err != nil {
			return err
		}
		if err := declareQueues(ch); err != nil {
			return err
		}
		return bindQueues(ch)
	})
}

func declareExchanges(ch *amqp.Channel) error {
	exchanges := []struct {
		name Exchange
		kind string
	}{
		{ExchangeGames, amqp.ExchangeDirect},
		{ExchangeEvents, amqp.ExchangeTopic},
		{ExchangeDLQ, amqp.ExchangeDirect},
	}

	for _, ex := range exchanges {
		err := ch.ExchangeDeclare(
			string(ex.name), // name
			ex.kind,         // type
			true,            // durable
			false,           // auto-deleted
			false,           // internal
			false,           // no-wait
			nil,             // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ex.name, err)
		}
	}

	return nil
}

func declareQueues(ch *amqp.Channel) error {
	// Команды, отклонённые без requeue, уходят в DLQ
	dlqArgs := amqp.Table{
		"x-dead-letter-exchange":    string(ExchangeDLQ),
		"x-dead-letter-routing-key": string(RoutingKeyDLQCommands),
	}

	queues := []struct {
		name Queue
		args amqp.Table
	}{
		{QueueGameCommands, dlqArgs},
		{QueueGameEvents, nil},
		{QueueDLQCommands, nil},
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			string(q.name), // name
			true,           // durable
			false,          // delete when unused
			false,          // exclusive
			false,          // no-wait
			q.args,         // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", q.name, err)
		}
	}

	return nil
}

func bindQueues(ch *amqp.Channel) error {
	for _, b := range bindings() {
		err := ch.QueueBind(
			string(b.queue),      // queue name
			string(b.routingKey), // routing key
			string(b.exchange),   // exchange
			false,                // no-wait
			nil,                  // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
		}
	}

	return nil
}

type binding struct {
	queue      Queue
	routingKey RoutingKey
	exchange   Exchange
}

func bindings() []binding {
	return []binding{
		{QueueGameCommands, RoutingKeyCommand, ExchangeGames},
		{QueueGameEvents, RoutingKeyAllEvents, ExchangeEvents},
		{QueueDLQCommands, RoutingKeyDLQCommands, ExchangeDLQ},
	}
}

// TopologyInfo возвращает описание топологии для логирования.
func TopologyInfo() string {
	return `
  SpaceBattle RabbitMQ Topology:

    spacebattle.games (direct)
    └── games.commands [routing: command]
            Consumer: spacebattle-server (command.submit)
            DLQ: dlq.commands

    spacebattle.events (topic)
    └── games.events [routing: game.#]
            Consumers: external observers (game.stopped)

    spacebattle.dlq (direct)
    └── dlq.commands [routing: commands]
            Manual processing
  `
}
