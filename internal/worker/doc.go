// Package worker выполняет очередь команд в отдельном потоке ОС.
//
// # Обзор
//
// Worker — одна фоновая горутина, закреплённая за потоком ОС
// (runtime.LockOSThread), и потокобезопасная очередь команд.
// Enqueue никогда не блокирует вызывающего дольше захвата мьютекса.
//
//	w := worker.New(worker.Config{Name: "game:42", Logger: logger})
//	if err := w.Start(ctx); err != nil {
//	    return err
//	}
//	w.Enqueue(cmd)
//	w.SoftStopJoin()
//
// # Состояния
//
//   - Normal — команда выполняется воркером
//   - Forwarding — команда пересылается во внешний command.Target
//
// Управляющие команды обрабатываются состоянием, а не Execute:
//   - HardStop() — немедленный выход из цикла
//   - MoveTo(target) — переход в Forwarding
//   - Run() — возврат в Normal
//
// # Остановка
//
// HardStopJoin — «остановиться сейчас»: команды, оставшиеся в очереди,
// не выполняются. Они остаются в очереди до Discard или повторного Start.
//
// SoftStopJoin — «доработать и остановиться»: цикл выходит только на
// пустой очереди, поэтому каждая команда, поставленная до вызова,
// выполняется ровно один раз.
//
// Выполняющаяся команда никогда не прерывается.
//
// # Ошибки команд
//
// Ошибки выполняемых команд не повторяются и не логируются цепочкой:
// воркер пишет их в DEBUG, считает в метриках и передаёт в
// Config.OnError, если он задан. Политика повторов закладывается
// в саму команду до постановки в очередь.
package worker
