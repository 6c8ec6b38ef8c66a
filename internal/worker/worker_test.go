package worker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/SpaceBattle/internal/command"
)

const waitFor = 2 * time.Second

var incFactory = command.Factory[atomic.Int64]{
	Tag: "inc",
	Exec: func(c *atomic.Int64, _ *command.Queue) error {
		c.Add(1)
		return nil
	},
}

func startWorker(t *testing.T, cfg Config) *Worker {
	t.Helper()
	w := New(cfg)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(w.HardStopJoin)
	return w
}

// --- Stop Tests ---

func TestWorker_SoftStopDrainsQueue(t *testing.T) {
	var counter atomic.Int64
	w := startWorker(t, Config{})

	for range 20 {
		w.Enqueue(incFactory.Make(&counter))
	}
	w.SoftStopJoin()

	assert.Equal(t, int64(20), counter.Load())
	assert.Equal(t, 0, w.Pending())
	assert.False(t, w.IsRunning())
}

func TestWorker_HardStopDropsLaterCommands(t *testing.T) {
	var counter atomic.Int64
	w := startWorker(t, Config{})

	w.HardStopJoin()

	for range 100_000 {
		w.Enqueue(incFactory.Make(&counter))
	}

	assert.Equal(t, int64(0), counter.Load())
	assert.Equal(t, 100_000, w.Pending())
	assert.False(t, w.IsRunning())

	assert.Equal(t, 100_000, w.Discard())
	assert.Equal(t, 0, w.Pending())
}

func TestWorker_HardStopCommand(t *testing.T) {
	var counter atomic.Int64
	w := startWorker(t, Config{})

	w.Enqueue(incFactory.Make(&counter))
	w.Enqueue(HardStop())
	w.Enqueue(incFactory.Make(&counter))

	// Цикл выйдет на HardStop, не дойдя до пустой очереди.
	w.SoftStopJoin()

	assert.Equal(t, int64(1), counter.Load())
	assert.Equal(t, 1, w.Pending())
}

func TestWorker_ContextCancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := New(Config{})
	require.NoError(t, w.Start(ctx))

	cancel()

	require.Eventually(t, func() bool { return !w.IsRunning() }, waitFor, time.Millisecond)
	w.HardStopJoin()
}

func TestWorker_JoinWithoutStart(t *testing.T) {
	w := New(Config{})
	w.HardStopJoin()
	w.SoftStopJoin()
	assert.False(t, w.IsRunning())
}

// --- Lifecycle Tests ---

func TestWorker_AlreadyStarted(t *testing.T) {
	w := startWorker(t, Config{})

	err := w.Start(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyStarted)
	assert.True(t, w.IsRunning())
}

func TestWorker_RestartRunsPending(t *testing.T) {
	var counter atomic.Int64
	w := startWorker(t, Config{})
	w.HardStopJoin()

	for range 5 {
		w.Enqueue(incFactory.Make(&counter))
	}
	require.Equal(t, int64(0), counter.Load())

	require.NoError(t, w.Start(context.Background()))
	w.SoftStopJoin()

	assert.Equal(t, int64(5), counter.Load())
	assert.Equal(t, StateNormal, w.State())
}

// --- State Machine Tests ---

func TestWorker_MoveToAndRun(t *testing.T) {
	var counter atomic.Int64
	ext := command.NewSyncQueue()
	w := startWorker(t, Config{})

	w.Enqueue(MoveTo(ext))
	w.Enqueue(incFactory.Make(&counter))

	require.Eventually(t, func() bool { return ext.Len() == 1 }, waitFor, time.Millisecond)
	assert.Equal(t, int64(0), counter.Load(), "forwarded command must not run on worker")
	assert.Equal(t, StateForwarding, w.State())

	q := ext.TakeAll()
	for !q.IsEmpty() {
		cmd, _ := q.PopFront()
		require.NoError(t, cmd.Execute(q))
	}
	assert.Equal(t, int64(1), counter.Load())

	w.Enqueue(Run())
	w.Enqueue(incFactory.Make(&counter))
	w.SoftStopJoin()

	assert.Equal(t, int64(2), counter.Load())
	assert.Equal(t, 0, ext.Len())
	assert.Equal(t, StateNormal, w.State())
}

func TestWorker_ForwardsToAnotherWorker(t *testing.T) {
	var counter atomic.Int64
	dst := startWorker(t, Config{Name: "dst"})
	src := startWorker(t, Config{Name: "src"})

	src.Enqueue(MoveTo(dst))
	for range 10 {
		src.Enqueue(incFactory.Make(&counter))
	}
	src.SoftStopJoin()
	dst.SoftStopJoin()

	assert.Equal(t, int64(10), counter.Load())
}

func TestWorker_ForwardingKeepsOwnership(t *testing.T) {
	drops := 0
	f := command.Factory[int]{
		Tag:  "owned",
		Exec: func(*int, *command.Queue) error { return nil },
		Drop: func(*int) { drops++ },
	}

	ext := command.NewSyncQueue()
	w := startWorker(t, Config{})
	w.Enqueue(MoveTo(ext))
	w.Enqueue(f.MakeOwned(1))
	w.SoftStopJoin()

	require.Equal(t, 0, drops, "forwarded command is released by its new owner")

	q := ext.TakeAll()
	assert.Equal(t, 1, q.Discard())
	assert.Equal(t, 1, drops)
}

func TestWorker_MoveToNilTargetIgnored(t *testing.T) {
	var counter atomic.Int64
	w := startWorker(t, Config{})

	w.Enqueue(MoveTo(nil))
	w.Enqueue(incFactory.Make(&counter))
	w.SoftStopJoin()

	assert.Equal(t, int64(1), counter.Load())
	assert.Equal(t, StateNormal, w.State())
}

func TestWorker_MoveToSelfIgnored(t *testing.T) {
	var counter atomic.Int64
	w := startWorker(t, Config{})

	w.Enqueue(MoveTo(w))
	w.Enqueue(incFactory.Make(&counter))
	w.SoftStopJoin()

	assert.Equal(t, int64(1), counter.Load())
	assert.Equal(t, StateNormal, w.State())
	assert.Equal(t, 0, w.Pending())
}

// --- Execution Tests ---

func TestWorker_ErrorsDiscarded(t *testing.T) {
	errBoom := errors.New("boom")

	var mu sync.Mutex
	var failed []string

	var counter atomic.Int64
	w := startWorker(t, Config{
		OnError: func(cmd *command.Command, err error) {
			mu.Lock()
			defer mu.Unlock()
			failed = append(failed, cmd.Tag()+": "+err.Error())
		},
	})

	w.Enqueue(command.New("boom", func(*command.Queue) error { return errBoom }))
	w.Enqueue(command.New("panic", func(*command.Queue) error { panic("bad state") }))
	w.Enqueue(incFactory.Make(&counter))
	w.SoftStopJoin()

	assert.Equal(t, int64(1), counter.Load(), "worker continues after failures")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, failed, 2)
	assert.Equal(t, "boom: boom", failed[0])
	assert.Contains(t, failed[1], ErrCommandPanic.Error())
}

func TestWorker_ContinuationsAppended(t *testing.T) {
	var order []string
	var mu sync.Mutex
	record := func(tag string) *command.Command {
		return command.New(tag, func(*command.Queue) error {
			mu.Lock()
			order = append(order, tag)
			mu.Unlock()
			return nil
		})
	}

	// Обе команды в очереди до старта цикла.
	w := New(Config{})
	w.Enqueue(command.New("parent", func(q *command.Queue) error {
		q.PushBack(record("child"))
		return nil
	}))
	w.Enqueue(record("sibling"))

	require.NoError(t, w.Start(context.Background()))
	w.SoftStopJoin()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"sibling", "child"}, order)
}

func TestWorker_ReleasesOwnedAfterExecution(t *testing.T) {
	drops := 0
	f := command.Factory[int]{
		Tag:  "owned",
		Exec: func(*int, *command.Queue) error { return nil },
		Drop: func(*int) { drops++ },
	}

	w := startWorker(t, Config{})
	for range 3 {
		w.Enqueue(f.MakeOwned(0))
	}
	w.SoftStopJoin()

	assert.Equal(t, 3, drops)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "normal", StateNormal.String())
	assert.Equal(t, "forwarding", StateForwarding.String())
	assert.Equal(t, "unknown", State(9).String())
}

// --- Metrics Tests ---

// workerSeries считает серии метрик spacebattle_worker_* с label worker=name.
func workerSeries(t *testing.T, name string) int {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	n := 0
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "spacebattle_worker_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "worker" && lp.GetValue() == name {
					n++
				}
			}
		}
	}
	return n
}

func TestWorker_RetireDropsMetrics(t *testing.T) {
	var counter atomic.Int64
	w := startWorker(t, Config{Name: "retire-me"})

	w.Enqueue(incFactory.Make(&counter))
	w.SoftStopJoin()
	require.Positive(t, workerSeries(t, "retire-me"))

	w.Retire()
	assert.Zero(t, workerSeries(t, "retire-me"))
}
