package space

import (
	"fmt"
)

// Move сдвигает объект на его скорость.
func Move(p Positionable) error {
	pos, err := p.Position()
	if err != nil {
		return err
	}
	vel, err := p.Velocity()
	if err != nil {
		return err
	}
	return p.SetPosition(pos.Add(vel))
}

// Rotate поворачивает объект на его угловую скорость.
func Rotate(o Orientable) error {
	dir, err := o.Orientation()
	if err != nil {
		return err
	}
	av, err := o.AngularVelocity()
	if err != nil {
		return err
	}
	n, err := o.Directions()
	if err != nil {
		return err
	}
	if n <= 0 {
		return fmt.Errorf("%w: directions = %d", ErrNotRotatable, n)
	}

	next := (dir + av) % n
	if next < 0 {
		next += n
	}
	return o.SetOrientation(next)
}

// CheckFuel проверяет, что топлива хватает на один шаг.
func CheckFuel(f FuelConsumer) error {
	fuel, err := f.Fuel()
	if err != nil {
		return err
	}
	rate, err := f.FuelRate()
	if err != nil {
		return err
	}
	if fuel < rate {
		return fmt.Errorf("%w: have %d, need %d", ErrOutOfFuel, fuel, rate)
	}
	return nil
}

// BurnFuel списывает топливо за один шаг.
func BurnFuel(f FuelConsumer) error {
	if err := CheckFuel(f); err != nil {
		return err
	}
	fuel, err := f.Fuel()
	if err != nil {
		return err
	}
	rate, err := f.FuelRate()
	if err != nil {
		return err
	}
	return f.SetFuel(fuel - rate)
}
