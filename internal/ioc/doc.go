// Package ioc реализует IoC-контейнер: разрешение строковых ключей в команды.
//
// # Обзор
//
// Container хранит:
//   - scopes — именованные таблицы ключ → Factory (scope "root" есть всегда)
//   - привязку вызывающего к текущему scope
//   - admin-операции (регистрация фабрик, создание и смена scope)
//   - adapter builders для ключей вида "Adapter.<interface>"
//
// Единственная точка входа — Resolve:
//
//	cmd, err := c.Resolve(ctx, "Ship.Move", ship)
//	if err != nil {
//	    return err
//	}
//	err = cmd.Execute(command.NewQueue())
//
// # Порядок разрешения
//
//  1. Ключ с префиксом "Adapter." и зарегистрированным builder'ом для
//     интерфейса — вызывается builder.
//  2. Ключ admin-операции — вызывается операция.
//  3. Ключ текущего scope вызывающего.
//  4. Иначе — ErrUnknownKey.
//
// # Вызывающий
//
// Текущий scope привязан к вызывающему, а не к горутине: идентичность
// передаётся в context.Context через NewCaller. Контекст без
// идентичности всегда разрешает ключи в scope "root": Scopes.Current
// для него возвращает ErrInvalid. Непривязанный вызывающий тоже
// разрешает ключи в "root".
//
//	ctx = ioc.NewCaller(ctx)
//	_ = ioc.SetCurrent(ctx, c, "game:42")
//	defer c.Release(ctx)
//
// # Admin-операции
//
// Admin-операции — обычные команды: Resolve возвращает команду, а
// изменение контейнера происходит при её выполнении. Вызывающий и его
// текущий scope фиксируются в момент Resolve.
//
//   - IoC.Register (key string, f Factory) — фабрика в текущий scope
//   - Scopes.New (name string) — создать scope, идемпотентно
//   - Scopes.Current (name string) — привязать вызывающего к scope
//   - IoC.Admin.Register (key string, op AdminFunc) — новая admin-операция
//   - Adapter.Register (iface string, b AdapterBuilder) — adapter builder
//
// Мьютекс контейнера удерживается только на время работы с таблицами и
// никогда — во время вызова фабрики или выполнения команды.
package ioc
