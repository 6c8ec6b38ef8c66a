package adapter

import (
	"context"

	"github.com/shaiso/SpaceBattle/internal/ioc"
	"github.com/shaiso/SpaceBattle/internal/space"
)

// Суффиксы методов.
const (
	PositionGet        = "position.get"
	VelocityGet        = "velocity.get"
	PositionSet        = "position.set"
	OrientationGet     = "orientation.get"
	AngularVelocityGet = "angular_velocity.get"
	DirectionsGet      = "directions.get"
	OrientationSet     = "orientation.set"
	AmmoGet            = "ammo.get"
	Fire               = "fire"
	Reload             = "reload"
)

// Имена интерфейсов по умолчанию.
const (
	MovableInterface   = "Spaceship.Operations.IMovable"
	RotatableInterface = "Spaceship.Operations.IRotatable"
	WeaponInterface    = "Spaceship.Operations.IWeapon"
)

// Наборы методов.
var (
	MovableMethods = MethodSet{
		Getters: []string{PositionGet, VelocityGet},
		Setters: []string{PositionSet},
	}

	RotatableMethods = MethodSet{
		Getters: []string{OrientationGet, AngularVelocityGet, DirectionsGet},
		Setters: []string{OrientationSet},
	}

	WeaponMethods = MethodSet{
		Getters: []string{AmmoGet},
		Actions: []string{Fire, Reload},
	}
)

// Movable — адаптер движения. Реализует space.Positionable.
type Movable struct {
	*Proxy
}

// Position возвращает позицию.
func (m Movable) Position() (space.Vector, error) {
	return Get[space.Vector](m.Proxy, PositionGet)
}

// Velocity возвращает скорость.
func (m Movable) Velocity() (space.Vector, error) {
	return Get[space.Vector](m.Proxy, VelocityGet)
}

// SetPosition задаёт позицию.
func (m Movable) SetPosition(v space.Vector) error {
	return Set(m.Proxy, PositionSet, v)
}

// Rotatable — адаптер поворота. Реализует space.Orientable.
type Rotatable struct {
	*Proxy
}

// Orientation возвращает направление.
func (r Rotatable) Orientation() (int, error) {
	return Get[int](r.Proxy, OrientationGet)
}

// AngularVelocity возвращает угловую скорость.
func (r Rotatable) AngularVelocity() (int, error) {
	return Get[int](r.Proxy, AngularVelocityGet)
}

// Directions возвращает количество направлений.
func (r Rotatable) Directions() (int, error) {
	return Get[int](r.Proxy, DirectionsGet)
}

// SetOrientation задаёт направление.
func (r Rotatable) SetOrientation(d int) error {
	return Set(r.Proxy, OrientationSet, d)
}

// Weapon — адаптер оружия. Реализует space.Armed.
type Weapon struct {
	*Proxy
}

// Ammo возвращает боезапас.
func (w Weapon) Ammo() (int, error) {
	return Get[int](w.Proxy, AmmoGet)
}

// Fire стреляет.
func (w Weapon) Fire() error {
	return w.Do(Fire)
}

// Reload перезаряжает.
func (w Weapon) Reload() error {
	return w.Do(Reload)
}

var (
	_ space.Positionable = Movable{}
	_ space.Orientable   = Rotatable{}
	_ space.Armed        = Weapon{}
)

// InstallMovable регистрирует builder Movable для iface.
func InstallMovable(ctx context.Context, r ioc.Resolver, iface string) error {
	return Install(ctx, r, iface, MovableMethods, func(p *Proxy) Movable { return Movable{p} })
}

// InstallRotatable регистрирует builder Rotatable для iface.
func InstallRotatable(ctx context.Context, r ioc.Resolver, iface string) error {
	return Install(ctx, r, iface, RotatableMethods, func(p *Proxy) Rotatable { return Rotatable{p} })
}

// InstallWeapon регистрирует builder Weapon для iface.
func InstallWeapon(ctx context.Context, r ioc.Resolver, iface string) error {
	return Install(ctx, r, iface, WeaponMethods, func(p *Proxy) Weapon { return Weapon{p} })
}

// RegisterMovable регистрирует в текущем scope фабрики методов iface
// для любого space.Positionable.
func RegisterMovable(ctx context.Context, r ioc.Resolver, iface string) error {
	return registerAll(ctx, r, iface, map[string]ioc.Factory{
		PositionGet: GetterFactory(space.Positionable.Position),
		VelocityGet: GetterFactory(space.Positionable.Velocity),
		PositionSet: SetterFactory(space.Positionable.SetPosition),
	})
}

// RegisterRotatable регистрирует в текущем scope фабрики методов iface
// для любого space.Orientable.
func RegisterRotatable(ctx context.Context, r ioc.Resolver, iface string) error {
	return registerAll(ctx, r, iface, map[string]ioc.Factory{
		OrientationGet:     GetterFactory(space.Orientable.Orientation),
		AngularVelocityGet: GetterFactory(space.Orientable.AngularVelocity),
		DirectionsGet:      GetterFactory(space.Orientable.Directions),
		OrientationSet:     SetterFactory(space.Orientable.SetOrientation),
	})
}

// RegisterWeapon регистрирует в текущем scope фабрики методов iface
// для любого space.Armed.
func RegisterWeapon(ctx context.Context, r ioc.Resolver, iface string) error {
	return registerAll(ctx, r, iface, map[string]ioc.Factory{
		AmmoGet: GetterFactory(space.Armed.Ammo),
		Fire:    ActionFactory(space.Armed.Fire),
		Reload:  ActionFactory(space.Armed.Reload),
	})
}

func registerAll(ctx context.Context, r ioc.Resolver, iface string, factories map[string]ioc.Factory) error {
	for suffix, f := range factories {
		if err := ioc.Register(ctx, r, ioc.Key(iface, suffix), f); err != nil {
			return err
		}
	}
	return nil
}
