package mq

import "errors"

var (
	// ErrNoChannel — AMQP канал ещё не открыт или потерян.
	ErrNoChannel = errors.New("no channel available")

	// ErrUnexpectedType — сообщение другого типа в очереди.
	ErrUnexpectedType = errors.New("unexpected message type")
)
