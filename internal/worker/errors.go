package worker

import "errors"

// Ошибки воркера.
var (
	// ErrAlreadyStarted — повторный Start без остановки.
	ErrAlreadyStarted = errors.New("worker already started")

	// ErrCommandPanic — команда запаниковала при выполнении.
	ErrCommandPanic = errors.New("command panicked")
)
