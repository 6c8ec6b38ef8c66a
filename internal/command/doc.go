// Package command содержит единицу работы системы — Command — и очереди команд.
//
// # Обзор
//
// Command — type-erased единица работы: функция выполнения, тег источника,
// вид (Kind) и необязательная функция освобождения контекста. Все разнородные
// действия игрового сервера (движение корабля, retry-обёртки, записи в лог,
// управляющие команды воркера) имеют один runtime-тип *Command.
//
// # Владение контекстом
//
// Команда либо владеет контекстом (Owned() == true), либо заимствует его:
//
//	f := command.Factory[Counter]{Tag: "inc", Exec: incrementCounter}
//
//	borrowed := f.Make(&counter)     // контекст живёт у вызывающего
//	owned := f.MakeOwned(Counter{})  // контекст принадлежит команде
//	defer owned.Release()            // Release идемпотентен
//
// Ровно один участник (processing loop, воркер или явная очистка)
// вызывает Release для owned-команды. Повторные вызовы — no-op.
// Wrap передаёт владение обёртке, поэтому Release исходной команды
// после Wrap ничего не делает.
//
// # Очереди
//
//   - Queue — упорядоченная очередь без синхронизации (push-front, push-back, pop-front)
//   - SyncQueue — та же очередь под мьютексом, используется как цель пересылки
//
// # Файлы пакета
//
//   - command.go — Command, Kind, Wrap, Control
//   - factory.go — Factory[T]: Make / MakeOwned
//   - queue.go   — Queue и SyncQueue
//   - macro.go   — Macro: последовательная композиция команд
//   - errors.go  — ошибки пакета
package command
