package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/SpaceBattle/internal/ioc"
	"github.com/shaiso/SpaceBattle/internal/space"
)

const iface = "Iface"

// object — объект, о котором адаптер ничего не знает.
type object struct {
	pos space.Vector
}

func setup(t *testing.T) (context.Context, *ioc.Container) {
	t.Helper()
	c := ioc.New(ioc.Config{})
	ctx := ioc.NewCaller(context.Background())
	require.NoError(t, InstallMovable(ctx, c, iface))
	return ctx, c
}

// --- Proxy Tests ---

func TestMovable_RoundTrip(t *testing.T) {
	ctx, c := setup(t)
	obj := &object{pos: space.Vector{X: 2, Y: 2}}

	m, err := Make[Movable](ctx, c, iface, obj)
	require.NoError(t, err)

	_, err = m.Position()
	require.ErrorIs(t, err, ioc.ErrUnknownKey)

	require.NoError(t, ioc.Register(ctx, c, ioc.Key(iface, PositionGet),
		GetterFactory(func(o *object) (space.Vector, error) { return o.pos, nil })))

	pos, err := m.Position()
	require.NoError(t, err)
	assert.Equal(t, space.Vector{X: 2, Y: 2}, pos)

	require.NoError(t, ioc.Register(ctx, c, ioc.Key(iface, PositionSet),
		SetterFactory(func(o *object, v space.Vector) error {
			o.pos = v
			return nil
		})))

	require.NoError(t, m.SetPosition(space.Vector{X: 9, Y: 9}))

	pos, err = m.Position()
	require.NoError(t, err)
	assert.Equal(t, space.Vector{X: 9, Y: 9}, pos)
	assert.Equal(t, space.Vector{X: 9, Y: 9}, obj.pos)
}

func TestMovable_DrivesMoveStep(t *testing.T) {
	ctx, c := setup(t)
	require.NoError(t, RegisterMovable(ctx, c, iface))

	ship := &space.Ship{Pos: space.Vector{X: 12, Y: 5}, Vel: space.Vector{X: -7, Y: 3}}
	m, err := Make[Movable](ctx, c, iface, ship)
	require.NoError(t, err)

	require.NoError(t, space.Move(m))
	assert.Equal(t, space.Vector{X: 5, Y: 8}, ship.Pos)
}

func TestMovable_PropagatesDomainError(t *testing.T) {
	ctx, c := setup(t)
	require.NoError(t, RegisterMovable(ctx, c, iface))

	rock := &space.Ship{ID: "rock", Static: true}
	m, err := Make[Movable](ctx, c, iface, rock)
	require.NoError(t, err)

	assert.ErrorIs(t, space.Move(m), space.ErrNotMovable)
}

func TestProxy_UndeclaredSuffix(t *testing.T) {
	ctx, c := setup(t)
	m, err := Make[Movable](ctx, c, iface, &object{})
	require.NoError(t, err)

	_, err = Get[int](m.Proxy, "fuel.get")
	assert.ErrorIs(t, err, ioc.ErrInvalid)

	// position.get объявлен как getter, а не action
	assert.ErrorIs(t, m.Do(PositionGet), ioc.ErrInvalid)
}

func TestMake_InvalidTargetOrOut(t *testing.T) {
	ctx, c := setup(t)

	_, err := Make[Movable](ctx, c, iface, nil)
	assert.ErrorIs(t, err, ioc.ErrInvalid)

	_, err = Make[Weapon](ctx, c, iface, &object{})
	assert.ErrorIs(t, err, ioc.ErrInvalid, "builder for Movable cannot fill Weapon")

	_, err = Make[Weapon](ctx, c, "Unregistered", &object{})
	assert.ErrorIs(t, err, ioc.ErrUnknownKey)
}

func TestRotatable_DrivesRotateStep(t *testing.T) {
	c := ioc.New(ioc.Config{})
	ctx := ioc.NewCaller(context.Background())
	require.NoError(t, InstallRotatable(ctx, c, RotatableInterface))
	require.NoError(t, RegisterRotatable(ctx, c, RotatableInterface))

	ship := &space.Ship{Dir: 7, AngularVel: 2, DirectionsCount: 8}
	r, err := Make[Rotatable](ctx, c, RotatableInterface, ship)
	require.NoError(t, err)

	require.NoError(t, space.Rotate(r))
	assert.Equal(t, 1, ship.Dir)
}

// --- Shared Method Set Tests ---

func TestWeapon_TwoInterfacesShareObject(t *testing.T) {
	const (
		primary   = "Spaceship.IWeapon"
		secondary = "Spaceship.ISidearm"
	)

	c := ioc.New(ioc.Config{})
	ctx := ioc.NewCaller(context.Background())

	require.NoError(t, InstallWeapon(ctx, c, primary))
	require.NoError(t, InstallWeapon(ctx, c, secondary))
	require.NoError(t, RegisterWeapon(ctx, c, primary))

	ship := &space.Ship{ID: "s1", AmmoCount: 3, AmmoCapacity: 3}

	w1, err := Make[Weapon](ctx, c, primary, ship)
	require.NoError(t, err)
	w2, err := Make[Weapon](ctx, c, secondary, ship)
	require.NoError(t, err)

	// Интерфейсы независимы: у secondary пока нет фабрик
	_, err = w2.Ammo()
	require.ErrorIs(t, err, ioc.ErrUnknownKey)

	require.NoError(t, RegisterWeapon(ctx, c, secondary))

	require.NoError(t, w1.Fire())

	ammo, err := w2.Ammo()
	require.NoError(t, err)
	assert.Equal(t, 2, ammo, "fire through one adapter is visible through the other")

	require.NoError(t, w2.Fire())
	require.NoError(t, w2.Fire())
	assert.ErrorIs(t, w1.Fire(), space.ErrOutOfAmmo)

	require.NoError(t, w1.Reload())
	ammo, err = w2.Ammo()
	require.NoError(t, err)
	assert.Equal(t, 3, ammo)
}

func TestProxy_ResolvesInCreatorScope(t *testing.T) {
	c := ioc.New(ioc.Config{})
	ctx := ioc.NewCaller(context.Background())

	require.NoError(t, InstallMovable(ctx, c, iface))
	require.NoError(t, ioc.SetCurrent(ctx, c, "game"))
	require.NoError(t, RegisterMovable(ctx, c, iface))

	ship := &space.Ship{Pos: space.Vector{X: 1, Y: 1}}
	m, err := Make[Movable](ctx, c, iface, ship)
	require.NoError(t, err)

	other := ioc.NewCaller(context.Background())
	foreign, err := Make[Movable](other, c, iface, ship)
	require.NoError(t, err)

	pos, err := m.Position()
	require.NoError(t, err)
	assert.Equal(t, space.Vector{X: 1, Y: 1}, pos)

	_, err = foreign.Position()
	assert.ErrorIs(t, err, ioc.ErrUnknownKey, "other caller resolves in root")
}
