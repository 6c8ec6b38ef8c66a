package space

import (
	"github.com/shaiso/SpaceBattle/internal/command"
)

// Теги доменных команд.
const (
	TagMove     = "move"
	TagRotate   = "rotate"
	TagFuel     = "check_fuel"
	TagBurn     = "burn_fuel"
	TagFire     = "fire"
	TagReload   = "reload"
	TagMoveBurn = "move_burn"
)

// MoveCommand — команда одного шага движения.
func MoveCommand(p Positionable) *command.Command {
	return command.New(TagMove, func(*command.Queue) error { return Move(p) })
}

// RotateCommand — команда одного шага поворота.
func RotateCommand(o Orientable) *command.Command {
	return command.New(TagRotate, func(*command.Queue) error { return Rotate(o) })
}

// CheckFuelCommand — проверка топлива.
func CheckFuelCommand(f FuelConsumer) *command.Command {
	return command.New(TagFuel, func(*command.Queue) error { return CheckFuel(f) })
}

// BurnFuelCommand — списание топлива.
func BurnFuelCommand(f FuelConsumer) *command.Command {
	return command.New(TagBurn, func(*command.Queue) error { return BurnFuel(f) })
}

// FireCommand — выстрел.
func FireCommand(a Armed) *command.Command {
	return command.New(TagFire, func(*command.Queue) error { return a.Fire() })
}

// ReloadCommand — перезарядка.
func ReloadCommand(a Armed) *command.Command {
	return command.New(TagReload, func(*command.Queue) error { return a.Reload() })
}

// MoveBurnCommand — движение с расходом топлива: проверка, шаг, списание.
// Без топлива корабль не двигается.
func MoveBurnCommand(s interface {
	Positionable
	FuelConsumer
}) *command.Command {
	return command.Macro(TagMoveBurn, CheckFuelCommand(s), MoveCommand(s), BurnFuelCommand(s))
}
