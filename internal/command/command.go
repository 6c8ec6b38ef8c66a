package command

import (
	"fmt"
	"sync/atomic"
)

// Kind — вид команды.
//
// Вид заменяет флаги is_wrapper / is_log: обработчики ошибок и воркер
// принимают решения по виду, а не по типу контекста.
type Kind uint8

const (
	// KindTask — обычная доменная команда.
	KindTask Kind = iota

	// KindRetry — retry-обёртка над упавшей командой.
	KindRetry

	// KindLog — запись в LogBuffer.
	KindLog

	// KindHardStop — немедленная остановка воркера.
	KindHardStop

	// KindMoveTo — перевод воркера в режим пересылки.
	KindMoveTo

	// KindRun — возврат воркера в нормальный режим.
	KindRun
)

// String возвращает строковое представление Kind.
func (k Kind) String() string {
	switch k {
	case KindTask:
		return "task"
	case KindRetry:
		return "retry"
	case KindLog:
		return "log"
	case KindHardStop:
		return "hard_stop"
	case KindMoveTo:
		return "move_to"
	case KindRun:
		return "run"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// IsControl возвращает true для управляющих команд воркера.
func (k Kind) IsControl() bool {
	switch k {
	case KindHardStop, KindMoveTo, KindRun:
		return true
	default:
		return false
	}
}

// ExecFunc — функция выполнения команды.
// Очередь q принадлежит тому, кто выполняет команду; в неё можно
// добавлять новые команды (например, продолжения или retry).
type ExecFunc func(q *Queue) error

// Target — получатель пересылаемых команд.
//
// Реализации: *Queue (только из одной горутины), *SyncQueue, *worker.Worker.
type Target interface {
	PushBack(cmd *Command)
}

// Command — type-erased единица работы.
type Command struct {
	tag        string
	source     string
	kind       Kind
	retryStage uint8

	exec    ExecFunc
	release func()

	// released — Release уже вызывался (owned-контекст уничтожен или передан).
	released atomic.Bool

	// target — цель пересылки для KindMoveTo.
	target Target
}

// New создаёт команду, заимствующую контекст (без освобождения).
func New(tag string, exec ExecFunc) *Command {
	return &Command{
		tag:    tag,
		source: tag,
		kind:   KindTask,
		exec:   exec,
	}
}

// NewKind создаёт заимствующую команду заданного вида.
// Управляющие виды создаются через Control.
func NewKind(kind Kind, tag string, exec ExecFunc) *Command {
	cmd := New(tag, exec)
	cmd.kind = kind
	return cmd
}

// NewOwned создаёт команду, владеющую контекстом.
// release вызывается ровно один раз — при первом Release().
func NewOwned(tag string, exec ExecFunc, release func()) *Command {
	cmd := New(tag, exec)
	if release == nil {
		release = func() {}
	}
	cmd.release = release
	return cmd
}

// Control создаёт управляющую команду воркера.
// target используется только для KindMoveTo.
func Control(kind Kind, target Target) *Command {
	return &Command{
		tag:    kind.String(),
		source: kind.String(),
		kind:   kind,
		target: target,
	}
}

// Wrap оборачивает упавшую команду в retry-команду с тегом tag и стадией stage.
//
// Владение контекстом inner переходит к обёртке: Release обёртки освобождает
// контекст, Release исходной команды после Wrap — no-op.
func Wrap(inner *Command, tag string, stage uint8) *Command {
	w := &Command{
		tag:        tag,
		source:     inner.Source(),
		kind:       KindRetry,
		retryStage: stage,
		exec:       inner.exec,
	}
	if inner.release != nil && !inner.released.Load() {
		w.release = inner.release
		inner.release = nil
	}
	return w
}

// Tag возвращает тег команды (например, "move", "retry_once").
func (c *Command) Tag() string {
	return c.tag
}

// Source возвращает тег исходной команды.
// Для retry-обёрток это тег команды, которую повторяют.
func (c *Command) Source() string {
	return c.source
}

// Kind возвращает вид команды.
func (c *Command) Kind() Kind {
	return c.kind
}

// RetryStage возвращает номер повтора (0 — не повтор, 1 — retry_once, 2 — retry_twice).
func (c *Command) RetryStage() uint8 {
	return c.retryStage
}

// IsRetry возвращает true для retry-обёрток.
func (c *Command) IsRetry() bool {
	return c.kind == KindRetry
}

// IsLog возвращает true для команд записи в лог.
func (c *Command) IsLog() bool {
	return c.kind == KindLog
}

// Target возвращает цель пересылки (только для KindMoveTo).
func (c *Command) Target() Target {
	return c.target
}

// Owned возвращает true, если команда владеет своим контекстом.
func (c *Command) Owned() bool {
	return c.release != nil
}

// Execute выполняет команду. Ошибка exec возвращается без изменений.
func (c *Command) Execute(q *Queue) error {
	if c.kind.IsControl() {
		return fmt.Errorf("%w: %s", ErrControlCommand, c.kind)
	}
	if c.exec == nil {
		return fmt.Errorf("%w: %s", ErrNotExecutable, c.tag)
	}
	return c.exec(q)
}

// Release освобождает owned-контекст. Повторные вызовы и вызовы
// для заимствующих команд ничего не делают.
func (c *Command) Release() {
	if c.release == nil {
		return
	}
	if c.released.Swap(true) {
		return
	}
	c.release()
}

// Released возвращает true, если Release уже освободил контекст.
func (c *Command) Released() bool {
	return c.released.Load()
}

// String возвращает описание команды для логов.
func (c *Command) String() string {
	if c.kind == KindRetry {
		return fmt.Sprintf("%s(%s, stage=%d)", c.tag, c.source, c.retryStage)
	}
	return fmt.Sprintf("%s[%s]", c.tag, c.kind)
}
