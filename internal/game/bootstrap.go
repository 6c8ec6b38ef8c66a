package game

import (
	"fmt"

	"github.com/shaiso/SpaceBattle/internal/adapter"
	"github.com/shaiso/SpaceBattle/internal/command"
	"github.com/shaiso/SpaceBattle/internal/ioc"
	"github.com/shaiso/SpaceBattle/internal/space"
)

// Ключи scope игры.
const (
	KeyShipMove   = "Ship.Move"
	KeyShipRotate = "Ship.Rotate"
	KeyShipFire   = "Ship.Fire"
	KeyShipReload = "Ship.Reload"
	KeyGameTick   = "Game.Tick"
)

// Теги служебных команд.
const (
	tagTick     = "tick"
	tagSnapshot = "snapshot"
)

func shipNotFound(id string) error {
	return fmt.Errorf("%w: %s", ErrShipNotFound, id)
}

// installAdapters регистрирует builder'ы адаптеров кораблей.
// Builder'ы общие для всех игр; фабрики методов — в scope каждой игры.
func (m *Manager) installAdapters() error {
	m.adaptersOnce.Do(func() {
		ctx := ioc.NewCaller(m.baseCtx)
		for _, install := range []func() error{
			func() error { return adapter.InstallMovable(ctx, m.container, adapter.MovableInterface) },
			func() error { return adapter.InstallRotatable(ctx, m.container, adapter.RotatableInterface) },
			func() error { return adapter.InstallWeapon(ctx, m.container, adapter.WeaponInterface) },
		} {
			if err := install(); err != nil {
				m.adaptersErr = err
				return
			}
		}
	})
	return m.adaptersErr
}

// bootstrap создаёт scope игры и регистрирует в нём фабрики.
func (m *Manager) bootstrap(g *Game) error {
	ctx, c := g.ctx, m.container

	if err := ioc.NewScope(ctx, c, g.Scope); err != nil {
		return fmt.Errorf("create scope: %w", err)
	}
	if err := ioc.SetCurrent(ctx, c, g.Scope); err != nil {
		return fmt.Errorf("bind scope: %w", err)
	}

	factories := map[string]ioc.Factory{
		KeyShipMove:   m.shipFactory(g, space.TagMove, m.moveShip),
		KeyShipRotate: m.shipFactory(g, space.TagRotate, m.rotateShip),
		KeyShipFire:   m.shipFactory(g, space.TagFire, m.fire),
		KeyShipReload: m.shipFactory(g, space.TagReload, m.reload),
		KeyGameTick:   m.tickFactory(g),
	}
	for key, f := range factories {
		if err := ioc.Register(ctx, c, key, f); err != nil {
			return fmt.Errorf("register %s: %w", key, err)
		}
	}

	if err := adapter.RegisterMovable(ctx, c, adapter.MovableInterface); err != nil {
		return fmt.Errorf("register movable: %w", err)
	}
	if err := adapter.RegisterRotatable(ctx, c, adapter.RotatableInterface); err != nil {
		return fmt.Errorf("register rotatable: %w", err)
	}
	if err := adapter.RegisterWeapon(ctx, c, adapter.WeaponInterface); err != nil {
		return fmt.Errorf("register weapon: %w", err)
	}
	return nil
}

// shipFactory — фабрика команды над одним кораблём: аргумент (shipID string).
func (m *Manager) shipFactory(g *Game, tag string, run func(g *Game, s *space.Ship) error) ioc.Factory {
	return func(args ...any) (*command.Command, error) {
		id, err := ioc.Arg[string](args, 0)
		if err != nil {
			return nil, err
		}
		// Набор кораблей не меняется после создания игры.
		s, err := g.ship(id)
		if err != nil {
			return nil, err
		}
		return command.New(tag, func(*command.Queue) error {
			return run(g, s)
		}), nil
	}
}

func (m *Manager) moveShip(g *Game, s *space.Ship) error {
	mv, err := adapter.Make[adapter.Movable](g.ctx, m.container, adapter.MovableInterface, s)
	if err != nil {
		return err
	}
	if err := space.CheckFuel(s); err != nil {
		return err
	}
	if err := space.Move(mv); err != nil {
		return err
	}
	return space.BurnFuel(s)
}

func (m *Manager) rotateShip(g *Game, s *space.Ship) error {
	rt, err := adapter.Make[adapter.Rotatable](g.ctx, m.container, adapter.RotatableInterface, s)
	if err != nil {
		return err
	}
	return space.Rotate(rt)
}

func (m *Manager) fire(g *Game, s *space.Ship) error {
	w, err := adapter.Make[adapter.Weapon](g.ctx, m.container, adapter.WeaponInterface, s)
	if err != nil {
		return err
	}
	return w.Fire()
}

func (m *Manager) reload(g *Game, s *space.Ship) error {
	w, err := adapter.Make[adapter.Weapon](g.ctx, m.container, adapter.WeaponInterface, s)
	if err != nil {
		return err
	}
	return w.Reload()
}

// tickFactory — Game.Tick: ставит Ship.Move для каждого подвижного корабля.
func (m *Manager) tickFactory(g *Game) ioc.Factory {
	return func(...any) (*command.Command, error) {
		return command.New(tagTick, func(q *command.Queue) error {
			g.tick++
			for _, id := range g.shipIDs() {
				s := g.ships[id]
				if s.Static || s.Vel == (space.Vector{}) {
					continue
				}
				cmd, err := m.container.Resolve(g.ctx, KeyShipMove, id)
				if err != nil {
					return err
				}
				q.PushBack(cmd)
			}
			return nil
		}), nil
	}
}
