package worker

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/shaiso/SpaceBattle/internal/command"
	"github.com/shaiso/SpaceBattle/internal/telemetry"
)

const defaultName = "worker"

// Worker — очередь команд с выделенным потоком и машиной состояний.
type Worker struct {
	name    string
	logger  *slog.Logger
	onError func(cmd *command.Command, err error)

	mu    sync.Mutex
	cond  *sync.Cond
	queue command.Queue

	// Состояние цикла, защищено mu
	state  State
	target command.Target

	started  bool
	running  bool
	hardStop bool
	softStop bool
	done     chan struct{}
}

// Config — конфигурация Worker.
type Config struct {
	// Name — имя для логов и метрик (default: "worker").
	Name string

	// OnError — необязательный обработчик ошибок выполненных команд.
	// Вызывается из потока воркера.
	OnError func(cmd *command.Command, err error)

	// Logger
	Logger *slog.Logger
}

// New создаёт остановленный Worker.
func New(cfg Config) *Worker {
	name := cfg.Name
	if name == "" {
		name = defaultName
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w := &Worker{
		name:    name,
		logger:  logger.With("worker", name),
		onError: cfg.OnError,
	}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// Name возвращает имя воркера.
func (w *Worker) Name() string {
	return w.name
}

// Start запускает цикл воркера и ждёт, пока он начнёт работу.
//
// Отмена ctx запрашивает жёсткую остановку; join по-прежнему нужен.
// Повторный Start до HardStopJoin/SoftStopJoin — ErrAlreadyStarted.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyStarted, w.name)
	}

	w.started = true
	w.hardStop = false
	w.softStop = false
	w.state = StateNormal
	w.target = nil
	w.done = make(chan struct{})
	done := w.done
	pending := w.queue.Len()
	w.mu.Unlock()

	ready := make(chan struct{})
	go w.loop(ready, done)
	go w.watch(ctx, done)
	<-ready

	w.logger.Info("worker started", "pending", pending)
	return nil
}

// watch запрашивает жёсткую остановку при отмене ctx.
func (w *Worker) watch(ctx context.Context, done <-chan struct{}) {
	select {
	case <-ctx.Done():
		w.mu.Lock()
		if w.done == done {
			w.hardStop = true
			w.cond.Broadcast()
		}
		w.mu.Unlock()
	case <-done:
	}
}

// loop — цикл воркера.
func (w *Worker) loop(ready, done chan struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	w.mu.Lock()
	w.running = true
	close(ready)

	for {
		if w.hardStop {
			break
		}
		if w.queue.IsEmpty() {
			if w.softStop {
				break
			}
			w.cond.Wait()
			continue
		}

		cmd, _ := w.queue.PopFront()
		telemetry.WorkerQueueDepth.WithLabelValues(w.name).Set(float64(w.queue.Len()))

		if cmd.Kind().IsControl() {
			w.control(cmd)
			continue
		}

		state, target := w.state, w.target
		w.mu.Unlock()

		if state == StateForwarding {
			target.PushBack(cmd)
			telemetry.WorkerCommands.WithLabelValues(w.name, telemetry.ResultForwarded).Inc()
		} else {
			w.execute(cmd)
		}

		w.mu.Lock()
	}

	w.running = false
	w.cond.Broadcast()
	w.mu.Unlock()

	w.logger.Info("worker loop exited")
	close(done)
}

// control обрабатывает управляющую команду. Требует w.mu.
func (w *Worker) control(cmd *command.Command) {
	switch cmd.Kind() {
	case command.KindHardStop:
		w.hardStop = true
	case command.KindMoveTo:
		switch target := cmd.Target(); {
		case target == nil:
			w.logger.Warn("move_to without target ignored")
			return
		case target == command.Target(w):
			w.logger.Warn("move_to self ignored")
			return
		}
		w.state = StateForwarding
		w.target = cmd.Target()
		telemetry.WorkerTransitions.WithLabelValues(StateForwarding.String()).Inc()
		w.logger.Debug("worker state changed", "state", StateForwarding)
	case command.KindRun:
		w.state = StateNormal
		w.target = nil
		telemetry.WorkerTransitions.WithLabelValues(StateNormal.String()).Inc()
		w.logger.Debug("worker state changed", "state", StateNormal)
	}
}

// execute выполняет команду в состоянии Normal.
//
// Команды, добавленные выполняемой командой в свою очередь, переносятся
// в конец очереди воркера.
func (w *Worker) execute(cmd *command.Command) {
	scratch := command.NewQueue()
	err := safeExecute(cmd, scratch)
	cmd.Release()

	if err != nil {
		telemetry.WorkerCommands.WithLabelValues(w.name, telemetry.ResultFailed).Inc()
		w.logger.Debug("command failed", "command", cmd.String(), "error", err)
		if w.onError != nil {
			w.onError(cmd, err)
		}
	} else {
		telemetry.WorkerCommands.WithLabelValues(w.name, telemetry.ResultExecuted).Inc()
	}

	if !scratch.IsEmpty() {
		w.mu.Lock()
		w.queue.Append(scratch)
		w.mu.Unlock()
	}
}

func safeExecute(cmd *command.Command, q *command.Queue) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrCommandPanic, cmd.Tag(), r)
		}
	}()
	return cmd.Execute(q)
}

// Enqueue добавляет команду в конец очереди и будит воркер.
func (w *Worker) Enqueue(cmd *command.Command) {
	w.mu.Lock()
	w.queue.PushBack(cmd)
	w.cond.Signal()
	w.mu.Unlock()
}

// PushBack реализует command.Target: воркер может быть целью пересылки.
func (w *Worker) PushBack(cmd *command.Command) {
	w.Enqueue(cmd)
}

// HardStopJoin останавливает воркер немедленно и ждёт выхода из цикла.
// Оставшиеся в очереди команды не выполняются.
func (w *Worker) HardStopJoin() {
	w.stopJoin(func() { w.hardStop = true })
}

// SoftStopJoin останавливает воркер после опустошения очереди и ждёт выхода.
func (w *Worker) SoftStopJoin() {
	w.stopJoin(func() { w.softStop = true })
}

func (w *Worker) stopJoin(request func()) {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	request()
	w.cond.Broadcast()
	done := w.done
	w.mu.Unlock()

	<-done

	w.mu.Lock()
	if w.done == done {
		w.started = false
	}
	pending := w.queue.Len()
	w.mu.Unlock()

	w.logger.Info("worker stopped", "pending", pending)
}

// Discard отбрасывает ожидающие команды, освобождая owned-контексты.
// Возвращает количество отброшенных команд.
func (w *Worker) Discard() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := w.queue.Discard()
	telemetry.WorkerQueueDepth.WithLabelValues(w.name).Set(0)
	return n
}

// Retire удаляет метрики воркера. Воркер должен быть остановлен;
// после Retire он не перезапускается.
func (w *Worker) Retire() {
	w.mu.Lock()
	defer w.mu.Unlock()
	telemetry.ForgetWorker(w.name)
}

// Pending возвращает количество команд в очереди.
func (w *Worker) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.queue.Len()
}

// State возвращает текущее состояние.
func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// IsRunning возвращает true, пока цикл воркера работает.
func (w *Worker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
