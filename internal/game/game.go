package game

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/SpaceBattle/internal/chain"
	"github.com/shaiso/SpaceBattle/internal/command"
	"github.com/shaiso/SpaceBattle/internal/space"
	"github.com/shaiso/SpaceBattle/internal/worker"
)

// DefaultDirections — количество направлений корабля по умолчанию.
const DefaultDirections = 8

// CreateSpec — описание новой игры.
type CreateSpec struct {
	// Name — имя игры (необязательно).
	Name string `json:"name,omitempty"`

	// Ships — корабли. ID кораблей уникальны в пределах игры.
	Ships []space.Ship `json:"ships"`
}

// Info — сводка об игре.
type Info struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name,omitempty"`
	Scope       string     `json:"scope"`
	Status      Status     `json:"status"`
	Ships       int        `json:"ships"`
	Pending     int        `json:"pending"`
	WorkerState string     `json:"worker_state"`
	Errors      []string   `json:"errors,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StoppedAt   *time.Time `json:"stopped_at,omitempty"`
}

// Snapshot — состояние игры на момент выполнения команды снимка.
type Snapshot struct {
	Info
	Tick  int64        `json:"tick"`
	Ships []space.Ship `json:"ship_states"`
}

// Game — одна игра.
type Game struct {
	ID        uuid.UUID
	Name      string
	Scope     string
	CreatedAt time.Time

	// ctx — вызывающий, привязанный к Scope.
	ctx       context.Context
	worker    *worker.Worker
	log       *chain.LogBuffer
	processor *chain.Processor

	// Изменяются только командами воркера.
	ships map[string]*space.Ship
	tick  int64

	mu        sync.RWMutex
	status    Status
	stoppedAt *time.Time

	// stopped закрывается после остановки воркера.
	stopped chan struct{}
}

// Status возвращает текущий статус.
func (g *Game) Status() Status {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.status
}

func (g *Game) setStatus(s Status) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.status = s
	if s == StatusStopped && g.stoppedAt == nil {
		now := time.Now()
		g.stoppedAt = &now
		close(g.stopped)
	}
}

// enqueue ставит команду в очередь воркера, пока игра принимает команды.
// Проверка статуса и постановка идут под g.mu, поэтому Stop не может
// вклиниться между ними.
func (g *Game) enqueue(cmd *command.Command) error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.status.AcceptsCommands() {
		cmd.Release()
		return fmt.Errorf("%w: %s", ErrGameStopped, g.ID)
	}
	g.worker.Enqueue(cmd)
	return nil
}

// info собирает сводку. Не читает корабли.
func (g *Game) info() Info {
	g.mu.RLock()
	status, stoppedAt := g.status, g.stoppedAt
	g.mu.RUnlock()

	return Info{
		ID:          g.ID,
		Name:        g.Name,
		Scope:       g.Scope,
		Status:      status,
		Ships:       len(g.ships),
		Pending:     g.worker.Pending(),
		WorkerState: g.worker.State().String(),
		Errors:      g.log.Lines(),
		CreatedAt:   g.CreatedAt,
		StoppedAt:   stoppedAt,
	}
}

// snapshot копирует состояние кораблей. Вызывается из потока воркера
// или после его остановки.
func (g *Game) snapshot() Snapshot {
	ships := make([]space.Ship, 0, len(g.ships))
	for _, id := range g.shipIDs() {
		ships = append(ships, *g.ships[id])
	}
	return Snapshot{
		Info:  g.info(),
		Tick:  g.tick,
		Ships: ships,
	}
}

// shipIDs возвращает отсортированные ID кораблей.
func (g *Game) shipIDs() []string {
	ids := make([]string, 0, len(g.ships))
	for id := range g.ships {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (g *Game) ship(id string) (*space.Ship, error) {
	s, ok := g.ships[id]
	if !ok {
		return nil, shipNotFound(id)
	}
	return s, nil
}
