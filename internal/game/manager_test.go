package game

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/SpaceBattle/internal/config"
	"github.com/shaiso/SpaceBattle/internal/ioc"
	"github.com/shaiso/SpaceBattle/internal/space"
)

// fakeNotifier запоминает события остановки.
type fakeNotifier struct {
	mu      sync.Mutex
	stopped []Info
}

func (f *fakeNotifier) GameStopped(_ context.Context, info Info) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = append(f.stopped, info)
	return nil
}

func duelSpec() CreateSpec {
	return CreateSpec{
		Name: "duel",
		Ships: []space.Ship{
			{ID: "alpha", Pos: space.Vector{X: 12, Y: 5}, Vel: space.Vector{X: -7, Y: 3}, FuelLevel: 10, FuelBurn: 1, AmmoCount: 1, AmmoCapacity: 2, AngularVel: 1},
			{ID: "beta", Pos: space.Vector{X: 0, Y: 0}, Vel: space.Vector{X: 1, Y: 1}, FuelLevel: 0, FuelBurn: 1},
			{ID: "rock", Static: true},
		},
	}
}

func newManager(t *testing.T, policy string) (*Manager, *fakeNotifier) {
	t.Helper()
	n := &fakeNotifier{}
	m := New(Config{Policy: policy, Notifier: n})
	t.Cleanup(func() { _ = m.Shutdown(context.Background(), false) })
	return m, n
}

func shipByID(t *testing.T, snap Snapshot, id string) space.Ship {
	t.Helper()
	for _, s := range snap.Ships {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("ship %s not in snapshot", id)
	return space.Ship{}
}

// --- Create Tests ---

func TestCreate(t *testing.T) {
	m, _ := newManager(t, config.PolicyRetryOnce)
	ctx := context.Background()

	info, err := m.Create(ctx, duelSpec())
	require.NoError(t, err)

	assert.Equal(t, StatusRunning, info.Status)
	assert.Equal(t, ScopePrefix+info.ID.String(), info.Scope)
	assert.Equal(t, 3, info.Ships)
	assert.Contains(t, m.Container().Scopes(), info.Scope)
	assert.Subset(t, m.Container().Keys(info.Scope), []string{KeyShipMove, KeyShipRotate, KeyShipFire, KeyShipReload, KeyGameTick})

	snap, err := m.Snapshot(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, DefaultDirections, shipByID(t, snap, "alpha").DirectionsCount)
}

func TestCreate_InvalidSpec(t *testing.T) {
	m, _ := newManager(t, config.PolicyRetryOnce)

	tests := []struct {
		name  string
		ships []space.Ship
	}{
		{"empty id", []space.Ship{{ID: ""}}},
		{"duplicate id", []space.Ship{{ID: "a"}, {ID: "a"}}},
		{"negative fuel", []space.Ship{{ID: "a", FuelLevel: -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Create(context.Background(), CreateSpec{Ships: tt.ships})
			assert.ErrorIs(t, err, ErrInvalidSpec)
		})
	}
	assert.Empty(t, m.List())
}

// --- Submit Tests ---

func TestSubmit_MoveThroughAdapter(t *testing.T) {
	m, _ := newManager(t, config.PolicyRetryOnce)
	ctx := context.Background()

	info, err := m.Create(ctx, duelSpec())
	require.NoError(t, err)

	require.NoError(t, m.Submit(ctx, info.ID, KeyShipMove, "alpha"))
	require.NoError(t, m.Submit(ctx, info.ID, KeyShipRotate, "alpha"))
	require.NoError(t, m.Submit(ctx, info.ID, KeyShipFire, "alpha"))

	snap, err := m.Snapshot(ctx, info.ID)
	require.NoError(t, err)

	alpha := shipByID(t, snap, "alpha")
	assert.Equal(t, space.Vector{X: 5, Y: 8}, alpha.Pos)
	assert.Equal(t, 9, alpha.FuelLevel)
	assert.Equal(t, 1, alpha.Dir)
	assert.Equal(t, 0, alpha.AmmoCount)
	assert.Empty(t, snap.Errors)
}

func TestSubmit_Rejections(t *testing.T) {
	m, _ := newManager(t, config.PolicyRetryOnce)
	ctx := context.Background()

	info, err := m.Create(ctx, duelSpec())
	require.NoError(t, err)

	assert.ErrorIs(t, m.Submit(ctx, info.ID, "Ship.Teleport", "alpha"), ioc.ErrUnknownKey)
	assert.ErrorIs(t, m.Submit(ctx, info.ID, ioc.KeyScopesCurrent, "root"), ioc.ErrUnknownKey)
	assert.ErrorIs(t, m.Submit(ctx, info.ID, KeyShipMove, "gamma"), ErrShipNotFound)
	assert.ErrorIs(t, m.Submit(ctx, info.ID, KeyShipMove, 42), ioc.ErrInvalid)
	assert.ErrorIs(t, m.Submit(ctx, uuid.New(), KeyShipMove, "alpha"), ErrGameNotFound)
}

func TestSubmit_FailureLoggedByPolicy(t *testing.T) {
	tests := []struct {
		policy string
		lines  int
		tag    string
	}{
		{config.PolicyRetryOnce, 1, "retry_once"},
		{config.PolicyRetryTwice, 2, "retry_twice"},
		{config.PolicyLogOnly, 1, space.TagMove},
		{config.PolicyNone, 1, space.TagMove},
	}

	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			m, _ := newManager(t, tt.policy)
			ctx := context.Background()

			info, err := m.Create(ctx, duelSpec())
			require.NoError(t, err)

			// beta без топлива
			require.NoError(t, m.Submit(ctx, info.ID, KeyShipMove, "beta"))

			snap, err := m.Snapshot(ctx, info.ID)
			require.NoError(t, err)

			require.Len(t, snap.Errors, tt.lines)
			last := snap.Errors[len(snap.Errors)-1]
			assert.Contains(t, last, tt.tag)
			assert.Contains(t, last, space.ErrOutOfFuel.Error())
			assert.Equal(t, space.Vector{}, shipByID(t, snap, "beta").Pos)
		})
	}
}

func TestTick(t *testing.T) {
	// С политикой Ship.Move выполняются внутри прогона тика,
	// поэтому снимок видит их результат.
	m, _ := newManager(t, config.PolicyRetryOnce)
	ctx := context.Background()

	info, err := m.Create(ctx, duelSpec())
	require.NoError(t, err)

	assert.Equal(t, 1, m.Tick(ctx))
	assert.Equal(t, 1, m.Tick(ctx))

	snap, err := m.Snapshot(ctx, info.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(2), snap.Tick)
	assert.Equal(t, space.Vector{X: -2, Y: 11}, shipByID(t, snap, "alpha").Pos)
	assert.Equal(t, space.Vector{}, shipByID(t, snap, "rock").Pos)
	// beta без топлива: две ошибки
	assert.Len(t, snap.Errors, 2)
}

func TestGames_Isolated(t *testing.T) {
	m, _ := newManager(t, config.PolicyRetryOnce)
	ctx := context.Background()

	first, err := m.Create(ctx, duelSpec())
	require.NoError(t, err)
	second, err := m.Create(ctx, duelSpec())
	require.NoError(t, err)

	require.NoError(t, m.Submit(ctx, first.ID, KeyShipMove, "alpha"))

	s1, err := m.Snapshot(ctx, first.ID)
	require.NoError(t, err)
	s2, err := m.Snapshot(ctx, second.ID)
	require.NoError(t, err)

	assert.Equal(t, space.Vector{X: 5, Y: 8}, shipByID(t, s1, "alpha").Pos)
	assert.Equal(t, space.Vector{X: 12, Y: 5}, shipByID(t, s2, "alpha").Pos)

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
}

// --- Stop Tests ---

func TestStop_Soft(t *testing.T) {
	m, n := newManager(t, config.PolicyRetryOnce)
	ctx := context.Background()

	info, err := m.Create(ctx, duelSpec())
	require.NoError(t, err)

	for range 5 {
		require.NoError(t, m.Submit(ctx, info.ID, KeyShipMove, "alpha"))
	}

	stopped, err := m.Stop(ctx, info.ID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusStopped, stopped.Status)
	assert.Equal(t, 0, stopped.Pending)
	assert.NotNil(t, stopped.StoppedAt)

	snap, err := m.Snapshot(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, 10-shipByID(t, snap, "alpha").FuelLevel)

	assert.ErrorIs(t, m.Submit(ctx, info.ID, KeyShipMove, "alpha"), ErrGameStopped)
	_, err = m.Stop(ctx, info.ID, true)
	assert.ErrorIs(t, err, ErrGameStopped)

	assert.NotContains(t, m.Container().Scopes(), info.Scope)
	assert.Empty(t, m.Running())

	n.mu.Lock()
	defer n.mu.Unlock()
	require.Len(t, n.stopped, 1)
	assert.Equal(t, info.ID, n.stopped[0].ID)
}

func TestStop_Hard(t *testing.T) {
	m, _ := newManager(t, config.PolicyRetryOnce)
	ctx := context.Background()

	info, err := m.Create(ctx, duelSpec())
	require.NoError(t, err)

	stopped, err := m.Stop(ctx, info.ID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusStopped, stopped.Status)
	assert.Equal(t, 0, stopped.Pending)

	_, err = m.Stop(ctx, uuid.New(), false)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestStop_HardRacingSubmitLeavesNothingPending(t *testing.T) {
	m, _ := newManager(t, config.PolicyNone)
	ctx := context.Background()

	for range 20 {
		info, err := m.Create(ctx, duelSpec())
		require.NoError(t, err)

		submitted := make(chan error, 1)
		go func() {
			for {
				if err := m.Submit(ctx, info.ID, KeyShipRotate, "alpha"); err != nil {
					submitted <- err
					return
				}
			}
		}()

		_, err = m.Stop(ctx, info.ID, false)
		require.NoError(t, err)
		require.ErrorIs(t, <-submitted, ErrGameStopped)

		got, err := m.Get(info.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Pending)
	}
}

func TestStop_SnapshotWhileStopping(t *testing.T) {
	m, _ := newManager(t, config.PolicyRetryOnce)
	ctx := context.Background()

	info, err := m.Create(ctx, duelSpec())
	require.NoError(t, err)

	snaps := make(chan error, 8)
	for range cap(snaps) {
		go func() {
			_, err := m.Snapshot(ctx, info.ID)
			snaps <- err
		}()
	}

	_, err = m.Stop(ctx, info.ID, false)
	require.NoError(t, err)

	for range cap(snaps) {
		select {
		case err := <-snaps:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("snapshot did not return after stop")
		}
	}
}

// workerSeries считает серии метрик spacebattle_worker_* воркера name.
func workerSeries(t *testing.T, name string) int {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	n := 0
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "spacebattle_worker_") {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == "worker" && lp.GetValue() == name {
					n++
				}
			}
		}
	}
	return n
}

func TestStop_DropsWorkerMetrics(t *testing.T) {
	m, _ := newManager(t, config.PolicyRetryOnce)
	ctx := context.Background()

	scopes := make([]string, 0, 10)
	for i := range 10 {
		info, err := m.Create(ctx, duelSpec())
		require.NoError(t, err)
		scopes = append(scopes, info.Scope)

		require.Equal(t, i+1, m.Tick(ctx))
		_, err = m.Snapshot(ctx, info.ID)
		require.NoError(t, err)
		require.Positive(t, workerSeries(t, info.Scope))
	}

	require.NoError(t, m.Shutdown(ctx, true))

	for _, scope := range scopes {
		assert.Zero(t, workerSeries(t, scope), scope)
	}
}

func TestShutdown(t *testing.T) {
	m, n := newManager(t, config.PolicyRetryOnce)
	ctx := context.Background()

	for range 3 {
		_, err := m.Create(ctx, duelSpec())
		require.NoError(t, err)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, m.Shutdown(shutdownCtx, true))

	assert.Empty(t, m.Running())
	n.mu.Lock()
	defer n.mu.Unlock()
	assert.Len(t, n.stopped, 3)
}
