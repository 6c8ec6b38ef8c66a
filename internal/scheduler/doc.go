// Package scheduler периодически отправляет Game.Tick работающим играм.
//
// Расписание задаётся cron-выражением (с опциональными секундами)
// или дескриптором вида "@every 1s".
//
// Структура:
//   - scheduler.go — Scheduler (Tick, Start, Stop, Run)
//   - cron.go      — разбор расписания и вычисление следующего тика
//
// Использование:
//
//	sched := scheduler.New(scheduler.Config{
//	    Ticker: manager,
//	    Spec:   cfg.TickSpec,
//	    Logger: logger,
//	})
//
//	g.Go(func() error { return sched.Run(ctx) })
package scheduler
