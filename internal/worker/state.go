package worker

import (
	"github.com/shaiso/SpaceBattle/internal/command"
)

// State — состояние воркера.
type State uint8

const (
	// StateNormal — команды выполняются.
	StateNormal State = iota

	// StateForwarding — команды пересылаются во внешнюю цель.
	StateForwarding
)

// String возвращает имя состояния.
func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateForwarding:
		return "forwarding"
	default:
		return "unknown"
	}
}

// HardStop — управляющая команда немедленной остановки.
func HardStop() *command.Command {
	return command.Control(command.KindHardStop, nil)
}

// MoveTo — управляющая команда перехода в Forwarding с целью target.
func MoveTo(target command.Target) *command.Command {
	return command.Control(command.KindMoveTo, target)
}

// Run — управляющая команда возврата в Normal.
func Run() *command.Command {
	return command.Control(command.KindRun, nil)
}
