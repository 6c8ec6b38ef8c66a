package ioc

import "errors"

// Ошибки разрешения.
var (
	// ErrUnknownKey — ключ не найден ни на одном шаге разрешения.
	ErrUnknownKey = errors.New("unknown key")

	// ErrInvalid — аргументы не подходят фабрике.
	ErrInvalid = errors.New("invalid argument")
)
