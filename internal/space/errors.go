package space

import "errors"

// Доменные ошибки.
var (
	// ErrOutOfFuel — топлива меньше, чем расходует шаг.
	ErrOutOfFuel = errors.New("out of fuel")

	// ErrNotMovable — объект нельзя двигать.
	ErrNotMovable = errors.New("object is not movable")

	// ErrNotRotatable — объект нельзя поворачивать.
	ErrNotRotatable = errors.New("object is not rotatable")

	// ErrOutOfAmmo — боезапас пуст.
	ErrOutOfAmmo = errors.New("out of ammo")
)
