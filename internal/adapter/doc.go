// Package adapter строит типизированные прокси поверх IoC.
//
// # Обзор
//
// Прокси связывает объект (target) с именем интерфейса. Каждый метод
// прокси формирует ключ "<iface>:<suffix>", разрешает его через IoC с
// target и слотом результата и выполняет команду на одноразовой очереди.
// Ни прокси, ни его потребители не знают конкретного типа target: любой
// объект удовлетворяет интерфейсу, если для его ключей зарегистрированы
// фабрики.
//
//	_ = adapter.InstallMovable(ctx, c, "Spaceship.Operations.IMovable")
//	_ = adapter.RegisterMovable(ctx, c, "Spaceship.Operations.IMovable")
//
//	m, err := adapter.Make[adapter.Movable](ctx, c, "Spaceship.Operations.IMovable", ship)
//	if err != nil {
//	    return err
//	}
//	err = space.Move(m)
//
// # Форма методов
//
// MethodSet объявляет суффиксы по форме:
//   - Getters — (target, *T), команда записывает результат в слот
//   - Setters — (target, T)
//   - Actions — (target)
//
// Суффикс, не объявленный в MethodSet, отклоняется с ioc.ErrInvalid
// до обращения к контейнеру.
//
// Одно и то же MethodSet может быть установлено под разными именами
// интерфейсов: фабрики и прокси для них независимы, а общий target
// разделяет состояние.
package adapter
