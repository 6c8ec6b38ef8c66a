package command

import "errors"

// Ошибки команд.
var (
	// ErrReleased — контекст owned-команды уже освобождён.
	ErrReleased = errors.New("command context released")

	// ErrControlCommand — управляющая команда не выполняется через Execute.
	ErrControlCommand = errors.New("control command is not executable")

	// ErrNotExecutable — у команды нет функции выполнения.
	ErrNotExecutable = errors.New("command has no exec function")
)
