package space

import (
	"fmt"
)

// Ship — корабль. Реализует Positionable, Orientable, FuelConsumer и Armed.
//
// Ship не защищён мьютексом: все изменения идут через команды
// воркера игры.
type Ship struct {
	ID              string `json:"id"`
	Pos             Vector `json:"position"`
	Vel             Vector `json:"velocity"`
	Dir             int    `json:"direction"`
	AngularVel      int    `json:"angular_velocity"`
	DirectionsCount int    `json:"directions"`
	FuelLevel       int    `json:"fuel"`
	FuelBurn        int    `json:"fuel_rate"`
	AmmoCount       int    `json:"ammo"`
	AmmoCapacity    int    `json:"ammo_capacity"`

	// Static — корабль нельзя двигать и поворачивать.
	Static bool `json:"static,omitempty"`
}

// Position возвращает текущую позицию.
func (s *Ship) Position() (Vector, error) {
	if s.Static {
		return Vector{}, fmt.Errorf("%w: ship %s", ErrNotMovable, s.ID)
	}
	return s.Pos, nil
}

// Velocity возвращает скорость.
func (s *Ship) Velocity() (Vector, error) {
	if s.Static {
		return Vector{}, fmt.Errorf("%w: ship %s", ErrNotMovable, s.ID)
	}
	return s.Vel, nil
}

// SetPosition задаёт позицию.
func (s *Ship) SetPosition(v Vector) error {
	if s.Static {
		return fmt.Errorf("%w: ship %s", ErrNotMovable, s.ID)
	}
	s.Pos = v
	return nil
}

// Orientation возвращает направление.
func (s *Ship) Orientation() (int, error) {
	if s.Static {
		return 0, fmt.Errorf("%w: ship %s", ErrNotRotatable, s.ID)
	}
	return s.Dir, nil
}

// AngularVelocity возвращает угловую скорость.
func (s *Ship) AngularVelocity() (int, error) {
	if s.Static {
		return 0, fmt.Errorf("%w: ship %s", ErrNotRotatable, s.ID)
	}
	return s.AngularVel, nil
}

// Directions возвращает количество направлений.
func (s *Ship) Directions() (int, error) {
	return s.DirectionsCount, nil
}

// SetOrientation задаёт направление.
func (s *Ship) SetOrientation(d int) error {
	if s.Static {
		return fmt.Errorf("%w: ship %s", ErrNotRotatable, s.ID)
	}
	s.Dir = d
	return nil
}

// Fuel возвращает запас топлива.
func (s *Ship) Fuel() (int, error) {
	return s.FuelLevel, nil
}

// FuelRate возвращает расход топлива за шаг.
func (s *Ship) FuelRate() (int, error) {
	return s.FuelBurn, nil
}

// SetFuel задаёт запас топлива.
func (s *Ship) SetFuel(f int) error {
	s.FuelLevel = f
	return nil
}

// Ammo возвращает боезапас.
func (s *Ship) Ammo() (int, error) {
	return s.AmmoCount, nil
}

// Fire тратит один заряд.
func (s *Ship) Fire() error {
	if s.AmmoCount <= 0 {
		return fmt.Errorf("%w: ship %s", ErrOutOfAmmo, s.ID)
	}
	s.AmmoCount--
	return nil
}

// Reload восстанавливает боезапас до ёмкости.
func (s *Ship) Reload() error {
	s.AmmoCount = s.AmmoCapacity
	return nil
}
