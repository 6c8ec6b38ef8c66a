package space

// Positionable — объект, который можно двигать.
type Positionable interface {
	Position() (Vector, error)
	Velocity() (Vector, error)
	SetPosition(v Vector) error
}

// Orientable — объект, который можно поворачивать.
//
// Направление — номер сектора из Directions(), по часовой стрелке.
type Orientable interface {
	Orientation() (int, error)
	AngularVelocity() (int, error)
	Directions() (int, error)
	SetOrientation(d int) error
}

// FuelConsumer — объект, расходующий топливо на движение.
type FuelConsumer interface {
	Fuel() (int, error)
	FuelRate() (int, error)
	SetFuel(f int) error
}

// Armed — объект с оружием.
type Armed interface {
	Ammo() (int, error)
	Fire() error
	Reload() error
}
