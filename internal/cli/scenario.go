package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/shaiso/SpaceBattle/internal/adapter"
	"github.com/shaiso/SpaceBattle/internal/chain"
	"github.com/shaiso/SpaceBattle/internal/command"
	"github.com/shaiso/SpaceBattle/internal/ioc"
	"github.com/shaiso/SpaceBattle/internal/space"
	"github.com/shaiso/SpaceBattle/internal/worker"
)

// Сценарии выполняются в процессе CLI, без сервера.

var errFlaky = errors.New("flaky failure")

// discardLogger глушит логи компонентов в сценариях.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewScenarioCmd создаёт группу демонстрационных сценариев.
func NewScenarioCmd(outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Run in-process demonstration scenarios",
	}

	cmd.AddCommand(
		newScenarioStrategiesCmd(outputFn),
		newScenarioWorkerCmd(outputFn),
		newScenarioAdapterCmd(outputFn),
	)

	return cmd
}

// --- strategies ---

// StrategyResult — итог прогона одной стратегии обработки ошибок.
type StrategyResult struct {
	Strategy   string      `json:"strategy"`
	Failures   int         `json:"failures"`
	Executions int         `json:"executions"`
	Stats      chain.Stats `json:"stats"`
	Log        []string    `json:"log"`
}

// RunStrategies прогоняет команду, падающую failures раз (-1 — всегда),
// через каждую стратегию обработки ошибок.
func RunStrategies(failures int) []StrategyResult {
	presets := []struct {
		name     string
		handlers func(*chain.LogBuffer) []chain.Handler
	}{
		{"log_only", chain.LogOnly},
		{"retry_once", chain.RetryOnceThenLog},
		{"retry_twice", chain.RetryTwiceThenLog},
	}

	results := make([]StrategyResult, 0, len(presets))
	for _, p := range presets {
		calls := 0
		flaky := command.New("flaky", func(*command.Queue) error {
			calls++
			if failures < 0 || calls <= failures {
				return errFlaky
			}
			return nil
		})

		buf := chain.NewLogBuffer(nil)
		stats := chain.Process(command.NewQueue(flaky), p.handlers(buf)...)

		results = append(results, StrategyResult{
			Strategy:   p.name,
			Failures:   failures,
			Executions: calls,
			Stats:      stats,
			Log:        buf.Lines(),
		})
	}
	return results
}

func newScenarioStrategiesCmd(outputFn func() *Output) *cobra.Command {
	var failures int

	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "Compare error-handling strategies on a flaky command",
		RunE: func(cmd *cobra.Command, args []string) error {
			results := RunStrategies(failures)

			rows := make([][]string, len(results))
			for i, r := range results {
				rows[i] = []string{
					r.Strategy,
					strconv.Itoa(r.Executions),
					strconv.Itoa(r.Stats.Failed),
					strconv.Itoa(r.Stats.Claimed),
					strconv.Itoa(len(r.Log)),
				}
			}

			outputFn().Print([]string{"STRATEGY", "EXECUTIONS", "FAILED", "CLAIMED", "LOG_LINES"}, rows, results)
			return nil
		},
	}

	cmd.Flags().IntVar(&failures, "failures", -1, "How many times the command fails before succeeding (-1: always)")

	return cmd
}

// --- worker ---

// WorkerResult — итог сценария воркера.
type WorkerResult struct {
	Commands     int   `json:"commands"`
	SoftExecuted int64 `json:"soft_executed"`
	HardExecuted int64 `json:"hard_executed"`
	HardPending  int   `json:"hard_pending"`
	Forwarded    int   `json:"forwarded"`
}

// RunWorkerScenario показывает мягкую и жёсткую остановку и пересылку.
func RunWorkerScenario(ctx context.Context, n int) (WorkerResult, error) {
	res := WorkerResult{Commands: n}
	logger := discardLogger()

	var executed atomic.Int64
	inc := func() *command.Command {
		return command.New("inc", func(*command.Queue) error {
			executed.Add(1)
			return nil
		})
	}

	// Мягкая остановка выполняет всё принятое.
	soft := worker.New(worker.Config{Name: "soft", Logger: logger})
	if err := soft.Start(ctx); err != nil {
		return res, err
	}
	for range n {
		soft.Enqueue(inc())
	}
	soft.SoftStopJoin()
	res.SoftExecuted = executed.Swap(0)

	// HardStop первым в очереди: ничего не выполняется, очередь сохраняется.
	hard := worker.New(worker.Config{Name: "hard", Logger: logger})
	hard.Enqueue(worker.HardStop())
	for range n {
		hard.Enqueue(inc())
	}
	if err := hard.Start(ctx); err != nil {
		return res, err
	}
	hard.HardStopJoin()
	res.HardExecuted = executed.Swap(0)
	res.HardPending = hard.Discard()

	// MoveTo: команды уходят в другую очередь без выполнения.
	sink := command.NewSyncQueue()
	fwd := worker.New(worker.Config{Name: "forward", Logger: logger})
	fwd.Enqueue(worker.MoveTo(sink))
	for range n {
		fwd.Enqueue(inc())
	}
	if err := fwd.Start(ctx); err != nil {
		return res, err
	}
	fwd.SoftStopJoin()
	res.Forwarded = sink.Len()

	return res, nil
}

func newScenarioWorkerCmd(outputFn func() *Output) *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Demonstrate soft stop, hard stop and forwarding",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := RunWorkerScenario(cmd.Context(), n)
			if err != nil {
				return err
			}

			rows := [][]string{
				{"soft stop", "executed", strconv.FormatInt(res.SoftExecuted, 10)},
				{"hard stop", "executed", strconv.FormatInt(res.HardExecuted, 10)},
				{"hard stop", "left pending", strconv.Itoa(res.HardPending)},
				{"move_to", "forwarded", strconv.Itoa(res.Forwarded)},
			}
			outputFn().Print([]string{"MODE", "METRIC", "COUNT"}, rows, res)
			return nil
		},
	}

	cmd.Flags().IntVarP(&n, "commands", "n", 1000, "Number of commands per mode")

	return cmd
}

// --- adapter ---

// AdapterResult — итог сценария адаптера.
type AdapterResult struct {
	Before    space.Vector `json:"before"`
	After     space.Vector `json:"after"`
	Direction int          `json:"direction"`
	Error     string       `json:"static_error"`
}

// RunAdapterScenario двигает корабль через сгенерированный адаптер,
// затем пытается сдвинуть неподвижный объект.
func RunAdapterScenario(ctx context.Context) (AdapterResult, error) {
	var res AdapterResult

	c := ioc.New(ioc.Config{Logger: discardLogger()})
	ctx = ioc.NewCaller(ctx)

	setup := []func() error{
		func() error { return adapter.InstallMovable(ctx, c, adapter.MovableInterface) },
		func() error { return adapter.InstallRotatable(ctx, c, adapter.RotatableInterface) },
		func() error { return adapter.RegisterMovable(ctx, c, adapter.MovableInterface) },
		func() error { return adapter.RegisterRotatable(ctx, c, adapter.RotatableInterface) },
	}
	for _, step := range setup {
		if err := step(); err != nil {
			return res, err
		}
	}

	ship := &space.Ship{
		ID:              "alpha",
		Pos:             space.Vector{X: 12, Y: 5},
		Vel:             space.Vector{X: -7, Y: 3},
		AngularVel:      1,
		DirectionsCount: 8,
	}
	res.Before = ship.Pos

	mv, err := adapter.Make[adapter.Movable](ctx, c, adapter.MovableInterface, ship)
	if err != nil {
		return res, err
	}
	rot, err := adapter.Make[adapter.Rotatable](ctx, c, adapter.RotatableInterface, ship)
	if err != nil {
		return res, err
	}

	q := command.NewQueue(space.MoveCommand(mv), space.RotateCommand(rot))
	if stats := chain.Process(q); stats.Failed > 0 {
		return res, fmt.Errorf("adapter scenario: %d commands failed", stats.Failed)
	}
	res.After = ship.Pos
	res.Direction = ship.Dir

	rock := &space.Ship{ID: "rock", Static: true}
	rockMv, err := adapter.Make[adapter.Movable](ctx, c, adapter.MovableInterface, rock)
	if err != nil {
		return res, err
	}
	if err := space.Move(rockMv); err != nil {
		res.Error = err.Error()
	}

	return res, nil
}

func newScenarioAdapterCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "adapter",
		Short: "Move a ship through a generated adapter",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := RunAdapterScenario(cmd.Context())
			if err != nil {
				return err
			}

			rows := [][]string{
				{"position before", res.Before.String()},
				{"position after", res.After.String()},
				{"direction after", strconv.Itoa(res.Direction)},
				{"static object", res.Error},
			}
			outputFn().Print([]string{"STEP", "RESULT"}, rows, res)
			return nil
		},
	}
}
