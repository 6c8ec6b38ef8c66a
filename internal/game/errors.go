package game

import "errors"

// Ошибки игр.
var (
	// ErrGameNotFound — игры с таким ID нет.
	ErrGameNotFound = errors.New("game not found")

	// ErrGameStopped — игра остановлена и не принимает команды.
	ErrGameStopped = errors.New("game stopped")

	// ErrShipNotFound — в игре нет корабля с таким ID.
	ErrShipNotFound = errors.New("ship not found")

	// ErrInvalidSpec — некорректное описание новой игры.
	ErrInvalidSpec = errors.New("invalid game spec")
)

// ErrInvalidRequest — некорректный сетевой запрос команды.
var ErrInvalidRequest = errors.New("invalid command request")
