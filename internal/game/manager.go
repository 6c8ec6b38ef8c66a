package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/shaiso/SpaceBattle/internal/chain"
	"github.com/shaiso/SpaceBattle/internal/command"
	"github.com/shaiso/SpaceBattle/internal/config"
	"github.com/shaiso/SpaceBattle/internal/ioc"
	"github.com/shaiso/SpaceBattle/internal/space"
	"github.com/shaiso/SpaceBattle/internal/telemetry"
	"github.com/shaiso/SpaceBattle/internal/worker"
)

// ScopePrefix — префикс IoC scope игры.
const ScopePrefix = "game:"

// Notifier получает события жизненного цикла игр.
type Notifier interface {
	GameStopped(ctx context.Context, info Info) error
}

// Manager управляет играми.
type Manager struct {
	container *ioc.Container
	policy    string
	notifier  Notifier
	logger    *slog.Logger

	// baseCtx — родитель контекстов игр; не отменяется запросами.
	baseCtx context.Context

	adaptersOnce sync.Once
	adaptersErr  error

	games map[uuid.UUID]*Game
	mu    sync.RWMutex
}

// Config — конфигурация Manager.
type Config struct {
	// Container — IoC-контейнер (если nil — создаётся новый).
	Container *ioc.Container

	// Policy — политика ошибок команд (config.Policy*, default: retry_once).
	Policy string

	// Notifier — получатель событий (необязательно).
	Notifier Notifier

	// Logger
	Logger *slog.Logger
}

// New создаёт Manager.
func New(cfg Config) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	container := cfg.Container
	if container == nil {
		container = ioc.New(ioc.Config{Logger: logger})
	}

	policy := cfg.Policy
	if policy == "" {
		policy = config.PolicyRetryOnce
	}

	return &Manager{
		container: container,
		policy:    policy,
		notifier:  cfg.Notifier,
		logger:    logger,
		baseCtx:   context.Background(),
		games:     make(map[uuid.UUID]*Game),
	}
}

// Container возвращает IoC-контейнер менеджера.
func (m *Manager) Container() *ioc.Container {
	return m.container
}

// policyHandlers возвращает цепочку обработчиков для политики.
func (m *Manager) policyHandlers(buf *chain.LogBuffer) []chain.Handler {
	switch m.policy {
	case config.PolicyNone:
		return nil
	case config.PolicyLogOnly:
		return chain.LogOnly(buf)
	case config.PolicyRetryTwice:
		return chain.RetryTwiceThenLog(buf)
	case config.PolicyRetryOnce:
		return chain.RetryOnceThenLog(buf)
	default:
		m.logger.Warn("unknown command policy, using retry_once", "policy", m.policy)
		return chain.RetryOnceThenLog(buf)
	}
}

func validateSpec(spec CreateSpec) error {
	seen := make(map[string]bool, len(spec.Ships))
	for i, s := range spec.Ships {
		if s.ID == "" {
			return fmt.Errorf("%w: ship %d has empty id", ErrInvalidSpec, i)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate ship id %s", ErrInvalidSpec, s.ID)
		}
		if s.FuelLevel < 0 || s.FuelBurn < 0 || s.AmmoCount < 0 || s.AmmoCapacity < 0 {
			return fmt.Errorf("%w: ship %s has negative resources", ErrInvalidSpec, s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

// Create создаёт игру и запускает её воркер.
func (m *Manager) Create(ctx context.Context, spec CreateSpec) (Info, error) {
	if err := validateSpec(spec); err != nil {
		return Info{}, err
	}
	if err := m.installAdapters(); err != nil {
		return Info{}, fmt.Errorf("install adapters: %w", err)
	}

	id := uuid.New()
	scope := ScopePrefix + id.String()
	logger := telemetry.ForGame(m.logger, id, scope)

	g := &Game{
		ID:        id,
		Name:      spec.Name,
		Scope:     scope,
		CreatedAt: time.Now(),
		ctx:       ioc.NewCaller(m.baseCtx),
		log:       chain.NewLogBuffer(logger),
		ships:     make(map[string]*space.Ship, len(spec.Ships)),
		status:    StatusRunning,
		stopped:   make(chan struct{}),
	}
	for _, s := range spec.Ships {
		if s.DirectionsCount == 0 {
			s.DirectionsCount = DefaultDirections
		}
		g.ships[s.ID] = &s
	}

	if handlers := m.policyHandlers(g.log); handlers != nil {
		g.processor = chain.New(chain.Config{Handlers: handlers, Logger: logger})
	}

	g.worker = worker.New(worker.Config{
		Name: scope,
		OnError: func(cmd *command.Command, err error) {
			_ = chain.LogCommand(g.log, cmd.Tag(), err).Execute(command.NewQueue())
		},
		Logger: logger,
	})

	if err := m.bootstrap(g); err != nil {
		m.container.Release(g.ctx)
		_ = m.container.DropScope(scope)
		return Info{}, err
	}

	if err := g.worker.Start(m.baseCtx); err != nil {
		return Info{}, err
	}

	m.mu.Lock()
	m.games[id] = g
	m.mu.Unlock()

	logger.Info("game created", "name", spec.Name, "ships", len(g.ships), "policy", m.policy)

	return g.info(), nil
}

func (m *Manager) get(id uuid.UUID) (*Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return g, nil
}

// Get возвращает сводку об игре.
func (m *Manager) Get(id uuid.UUID) (Info, error) {
	g, err := m.get(id)
	if err != nil {
		return Info{}, err
	}
	return g.info(), nil
}

// List возвращает сводки всех игр в порядке создания.
func (m *Manager) List() []Info {
	m.mu.RLock()
	games := make([]*Game, 0, len(m.games))
	for _, g := range m.games {
		games = append(games, g)
	}
	m.mu.RUnlock()

	slices.SortFunc(games, func(a, b *Game) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})

	infos := make([]Info, 0, len(games))
	for _, g := range games {
		infos = append(infos, g.info())
	}
	return infos
}

// Submit разрешает key в scope игры и ставит команду в очередь воркера.
//
// Принимаются только ключи, зарегистрированные в scope игры:
// admin-операции и adapter builder'ы снаружи недоступны.
func (m *Manager) Submit(ctx context.Context, id uuid.UUID, key string, args ...any) error {
	g, err := m.get(id)
	if err != nil {
		return err
	}
	stopped := func() error {
		return fmt.Errorf("%w: %s", ErrGameStopped, id)
	}
	if !g.Status().AcceptsCommands() {
		return stopped()
	}
	if !slices.Contains(m.container.Keys(g.Scope), key) {
		// Scope игры удаляется при остановке
		if !g.Status().AcceptsCommands() {
			return stopped()
		}
		return fmt.Errorf("%w: %s (scope %s)", ioc.ErrUnknownKey, key, g.Scope)
	}

	cmd, err := m.container.Resolve(g.ctx, key, args...)
	if err != nil {
		if errors.Is(err, ioc.ErrUnknownKey) && !g.Status().AcceptsCommands() {
			return stopped()
		}
		return err
	}

	if err := g.enqueue(g.withPolicy(cmd)); err != nil {
		return err
	}

	telemetry.FromContext(ctx).Debug("command submitted", telemetry.AttrGameID, id, "key", key)
	return nil
}

// Snapshot возвращает состояние игры.
//
// Для работающей игры снимок делает команда на воркере, поэтому он
// согласован с уже принятыми командами.
func (m *Manager) Snapshot(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	g, err := m.get(id)
	if err != nil {
		return Snapshot{}, err
	}
	if g.Status() == StatusStopped {
		return g.snapshot(), nil
	}

	done := make(chan Snapshot, 1)
	err = g.enqueue(command.New(tagSnapshot, func(*command.Queue) error {
		done <- g.snapshot()
		return nil
	}))
	if err != nil {
		// Игра останавливается: снимок будет после остановки воркера
		select {
		case <-g.stopped:
			return g.snapshot(), nil
		case <-ctx.Done():
			return Snapshot{}, ctx.Err()
		}
	}

	select {
	case s := <-done:
		return s, nil
	case <-g.stopped:
		// Команда снимка отброшена жёсткой остановкой
		return g.snapshot(), nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Stop останавливает игру.
//
// soft — дождаться выполнения всех принятых команд; иначе остановить
// воркер сразу и отбросить очередь.
func (m *Manager) Stop(ctx context.Context, id uuid.UUID, soft bool) (Info, error) {
	g, err := m.get(id)
	if err != nil {
		return Info{}, err
	}

	g.mu.Lock()
	if g.status != StatusRunning {
		g.mu.Unlock()
		return Info{}, fmt.Errorf("%w: %s", ErrGameStopped, id)
	}
	g.status = StatusStopping
	g.mu.Unlock()

	logger := telemetry.ForGame(m.logger, id, g.Scope)

	if soft {
		g.worker.SoftStopJoin()
	} else {
		g.worker.HardStopJoin()
		if n := g.worker.Discard(); n > 0 {
			logger.Info("discarded pending commands", "count", n)
		}
	}

	g.worker.Retire()
	g.setStatus(StatusStopped)
	m.container.Release(g.ctx)
	if err := m.container.DropScope(g.Scope); err != nil {
		logger.Warn("failed to drop game scope", "error", err)
	}

	info := g.info()
	logger.Info("game stopped", "soft", soft, "errors", len(info.Errors))

	if m.notifier != nil {
		if err := m.notifier.GameStopped(ctx, info); err != nil {
			logger.Warn("failed to publish game.stopped", "error", err)
		}
	}

	return info, nil
}

// Running возвращает ID работающих игр.
func (m *Manager) Running() []uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(m.games))
	for id, g := range m.games {
		if g.Status() == StatusRunning {
			ids = append(ids, id)
		}
	}
	return ids
}

// Tick отправляет Game.Tick всем работающим играм.
// Возвращает количество игр, принявших тик.
func (m *Manager) Tick(ctx context.Context) int {
	n := 0
	for _, id := range m.Running() {
		if err := m.Submit(ctx, id, KeyGameTick); err != nil {
			m.logger.Debug("tick skipped", "game_id", id, "error", err)
			continue
		}
		n++
	}
	return n
}

// Shutdown останавливает все работающие игры параллельно.
func (m *Manager) Shutdown(ctx context.Context, soft bool) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, id := range m.Running() {
		g.Go(func() error {
			if _, err := m.Stop(ctx, id, soft); err != nil && !errors.Is(err, ErrGameStopped) {
				return err
			}
			return nil
		})
	}
	return g.Wait()
}
