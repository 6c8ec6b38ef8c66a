package command

import (
	"fmt"
	"sync/atomic"
)

// Factory связывает типизированный контекст T и функцию выполнения
// в конструкторы команд.
//
// Пример:
//
//	type counter struct{ n int }
//
//	inc := command.Factory[counter]{
//	    Tag: "inc",
//	    Exec: func(c *counter, _ *command.Queue) error {
//	        c.n++
//	        return nil
//	    },
//	}
//
//	cmd := inc.Make(&c)  // заимствует &c
type Factory[T any] struct {
	// Tag — тег создаваемых команд.
	Tag string

	// Exec — функция выполнения над контекстом.
	Exec func(ctx *T, q *Queue) error

	// Drop — необязательная функция уничтожения owned-контекста.
	// Вызывается ровно один раз из Release.
	Drop func(ctx *T)
}

// Make создаёт команду, заимствующую контекст.
// Контекст должен пережить выполнение команды.
func (f Factory[T]) Make(ctx *T) *Command {
	return New(f.Tag, func(q *Queue) error {
		return f.Exec(ctx, q)
	})
}

// MakeOwned создаёт команду, владеющую копией value.
//
// После Release контекст уничтожен: Drop вызван, а повторное выполнение
// (например, через retry-обёртку, которой владение не передавали)
// возвращает ErrReleased.
func (f Factory[T]) MakeOwned(value T) *Command {
	var slot atomic.Pointer[T]
	slot.Store(&value)

	exec := func(q *Queue) error {
		ctx := slot.Load()
		if ctx == nil {
			return fmt.Errorf("%w: %s", ErrReleased, f.Tag)
		}
		return f.Exec(ctx, q)
	}

	release := func() {
		ctx := slot.Swap(nil)
		if ctx != nil && f.Drop != nil {
			f.Drop(ctx)
		}
	}

	return NewOwned(f.Tag, exec, release)
}
