// Package game управляет жизненным циклом игр.
//
// # Обзор
//
// Каждая игра — это:
//   - собственный IoC scope "game:<id>" с фабриками команд игры
//   - вызывающий (ioc.NewCaller), постоянно привязанный к этому scope
//   - воркер, последовательно выполняющий команды игры
//   - корабли, которые меняются только командами воркера
//
// Manager создаёт игры, принимает команды (Submit), отдаёт состояние
// (Snapshot) и останавливает игры мягко или жёстко (Stop).
//
//	m := game.New(game.Config{Container: c, Policy: config.PolicyRetryOnce})
//
//	info, err := m.Create(ctx, game.CreateSpec{Name: "duel", Ships: ships})
//	err = m.Submit(ctx, info.ID, game.KeyShipMove, "alpha")
//	snap, err := m.Snapshot(ctx, info.ID)
//	_, err = m.Stop(ctx, info.ID, true)
//
// # Ключи scope игры
//
//   - Ship.Move (shipID) — шаг движения с расходом топлива
//   - Ship.Rotate (shipID) — шаг поворота
//   - Ship.Fire (shipID), Ship.Reload (shipID) — оружие
//   - Game.Tick () — Ship.Move для каждого подвижного корабля
//
// Фабрики кораблей работают через адаптеры (adapter.Movable,
// adapter.Rotatable, adapter.Weapon), а не через space.Ship напрямую.
//
// # Политика ошибок
//
// Воркер не повторяет упавшие команды. Manager оборачивает каждую
// принятую команду в прогон chain.Processor с политикой из Config.Policy;
// строки лога попадают в LogBuffer игры и видны в Info.Errors.
package game
