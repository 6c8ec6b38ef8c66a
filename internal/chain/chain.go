package chain

import (
	"log/slog"

	"github.com/shaiso/SpaceBattle/internal/command"
	"github.com/shaiso/SpaceBattle/internal/telemetry"
)

// Handler обрабатывает ошибку упавшей команды.
//
// Возвращает true, если ошибка «забрана» и дальше по цепочке не идёт.
// Handler может добавлять команды в q, но не должен выполнять их сам.
type Handler interface {
	Handle(err error, failed *command.Command, q *command.Queue) bool
}

// HandlerFunc — адаптер функции к Handler.
type HandlerFunc func(err error, failed *command.Command, q *command.Queue) bool

// Handle вызывает f.
func (f HandlerFunc) Handle(err error, failed *command.Command, q *command.Queue) bool {
	return f(err, failed, q)
}

// named — Handler с именем для метрик.
type named struct {
	name string
	fn   HandlerFunc
}

func (n named) Handle(err error, failed *command.Command, q *command.Queue) bool {
	return n.fn(err, failed, q)
}

// Name возвращает имя обработчика.
func (n named) Name() string {
	return n.name
}

// handlerName возвращает имя обработчика для label метрики.
func handlerName(h Handler) string {
	if n, ok := h.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "custom"
}

// Stats — итоги одного прохода Process.
type Stats struct {
	// Executed — успешно выполненные команды.
	Executed int `json:"executed"`

	// Failed — упавшие команды (включая забранные обработчиками).
	Failed int `json:"failed"`

	// Claimed — ошибки, забранные каким-либо обработчиком.
	Claimed int `json:"claimed"`

	// Unclaimed — ошибки, которые не забрал никто.
	Unclaimed int `json:"unclaimed"`
}

// Processor — цепочка обработчиков с логгером.
type Processor struct {
	handlers []Handler
	logger   *slog.Logger
}

// Config — конфигурация Processor.
type Config struct {
	// Handlers — обработчики в порядке приоритета.
	Handlers []Handler

	// Logger — логгер для незабранных ошибок.
	Logger *slog.Logger
}

// New создаёт Processor.
func New(cfg Config) *Processor {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Processor{
		handlers: cfg.Handlers,
		logger:   cfg.Logger,
	}
}

// Run выполняет очередь до опустошения.
//
// Команды, добавленные во время обработки (продолжения, retry, лог),
// выполняются в этом же проходе.
func (p *Processor) Run(q *command.Queue) Stats {
	var stats Stats

	for {
		cmd, ok := q.PopFront()
		if !ok {
			return stats
		}

		err := cmd.Execute(q)
		if err == nil {
			cmd.Release()
			stats.Executed++
			continue
		}

		stats.Failed++
		if p.dispatch(err, cmd, q) {
			stats.Claimed++
		} else {
			stats.Unclaimed++
			p.logger.Debug("unclaimed command failure", "command", cmd.String(), "error", err)
		}

		// Wrap уже забрал контекст у retry-кандидата, тогда это no-op.
		cmd.Release()
	}
}

func (p *Processor) dispatch(err error, failed *command.Command, q *command.Queue) bool {
	for _, h := range p.handlers {
		if h.Handle(err, failed, q) {
			telemetry.ChainClaims.WithLabelValues(handlerName(h)).Inc()
			return true
		}
	}
	return false
}

// Process выполняет очередь с цепочкой handlers и логгером по умолчанию.
func Process(q *command.Queue, handlers ...Handler) Stats {
	return New(Config{Handlers: handlers}).Run(q)
}
