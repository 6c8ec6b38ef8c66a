package ioc

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/shaiso/SpaceBattle/internal/command"
	"github.com/shaiso/SpaceBattle/internal/telemetry"
)

// RootScope — scope по умолчанию, существует всегда.
const RootScope = "root"

// AdapterPrefix — префикс ключей, разрешаемых adapter builder'ами.
const AdapterPrefix = "Adapter."

// Зарезервированные ключи admin-операций.
const (
	KeyRegister        = "IoC.Register"
	KeyScopesNew       = "Scopes.New"
	KeyScopesCurrent   = "Scopes.Current"
	KeyAdminRegister   = "IoC.Admin.Register"
	KeyAdapterRegister = AdapterPrefix + "Register"
)

// Шаги разрешения (label "kind" метрики).
const (
	kindAdapter = "adapter"
	kindAdmin   = "admin"
	kindScope   = "scope"
)

// Factory создаёт команду по аргументам. Смысл аргументов определяет фабрика.
type Factory func(args ...any) (*command.Command, error)

// AdminFunc создаёт команду, меняющую контейнер при выполнении.
// ctx — контекст вызывающего Resolve.
type AdminFunc func(ctx context.Context, args ...any) (*command.Command, error)

// AdapterBuilder создаёт команду, записывающую прокси для target в out.
// ctx — контекст вызывающего Resolve; прокси разрешает методы от его имени.
type AdapterBuilder func(ctx context.Context, target, out any) (*command.Command, error)

// Container — IoC-контейнер.
//
// Один мьютекс защищает scopes, привязки вызывающих и реестры
// admin-операций и adapter builder'ов.
type Container struct {
	mu       sync.RWMutex
	scopes   map[string]map[string]Factory
	current  map[uuid.UUID]string
	admin    map[string]AdminFunc
	adapters map[string]AdapterBuilder

	logger *slog.Logger
}

// Config — конфигурация Container.
type Config struct {
	Logger *slog.Logger
}

// New создаёт контейнер со scope "root" и встроенными admin-операциями.
func New(cfg Config) *Container {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	c := &Container{
		scopes:   map[string]map[string]Factory{RootScope: {}},
		current:  make(map[uuid.UUID]string),
		admin:    make(map[string]AdminFunc),
		adapters: make(map[string]AdapterBuilder),
		logger:   cfg.Logger,
	}

	c.admin[KeyRegister] = c.opRegister
	c.admin[KeyScopesNew] = c.opScopesNew
	c.admin[KeyScopesCurrent] = c.opScopesCurrent
	c.admin[KeyAdminRegister] = c.opAdminRegister
	c.admin[KeyAdapterRegister] = c.opAdapterRegister

	return c
}

// Resolve разрешает key в команду.
func (c *Container) Resolve(ctx context.Context, key string, args ...any) (*command.Command, error) {
	// 1. Adapter builder
	if iface, ok := strings.CutPrefix(key, AdapterPrefix); ok {
		c.mu.RLock()
		builder, found := c.adapters[iface]
		c.mu.RUnlock()

		if found {
			return c.observe(kindAdapter, key)(builder(ctx, arg(args, 0), arg(args, 1)))
		}
	}

	// 2. Admin-операция
	c.mu.RLock()
	op, found := c.admin[key]
	c.mu.RUnlock()
	if found {
		return c.observe(kindAdmin, key)(op(ctx, args...))
	}

	// 3. Текущий scope вызывающего
	c.mu.RLock()
	scope := c.scopeOf(callerOf(ctx))
	factory, found := c.scopes[scope][key]
	c.mu.RUnlock()
	if found {
		return c.observe(kindScope, key)(factory(args...))
	}

	telemetry.IoCResolutions.WithLabelValues(kindScope, telemetry.OutcomeUnknown).Inc()
	return nil, fmt.Errorf("%w: %s (scope %s)", ErrUnknownKey, key, scope)
}

// observe считает исход разрешения и пропускает результат дальше.
func (c *Container) observe(kind, key string) func(*command.Command, error) (*command.Command, error) {
	return func(cmd *command.Command, err error) (*command.Command, error) {
		switch {
		case err == nil && cmd == nil:
			err = fmt.Errorf("%w: %s returned no command", ErrInvalid, key)
			telemetry.IoCResolutions.WithLabelValues(kind, telemetry.OutcomeInvalid).Inc()
		case err != nil:
			telemetry.IoCResolutions.WithLabelValues(kind, telemetry.OutcomeInvalid).Inc()
			c.logger.Debug("factory rejected arguments", "key", key, "error", err)
		default:
			telemetry.IoCResolutions.WithLabelValues(kind, telemetry.OutcomeOK).Inc()
		}
		return cmd, err
	}
}

// scopeOf возвращает текущий scope вызывающего. Требует c.mu.
func (c *Container) scopeOf(id uuid.UUID) string {
	if scope, ok := c.current[id]; ok {
		return scope
	}
	return RootScope
}

// Current возвращает текущий scope вызывающего из ctx.
func (c *Container) Current(ctx context.Context) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scopeOf(callerOf(ctx))
}

// Release забывает привязку вызывающего: он снова разрешает ключи в "root".
func (c *Container) Release(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.current, callerOf(ctx))
}

// Scopes возвращает отсортированные имена scope.
func (c *Container) Scopes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.scopes))
	for name := range c.scopes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Keys возвращает отсортированные ключи фабрик scope.
// Для несуществующего scope возвращает nil.
func (c *Container) Keys(scope string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	table, ok := c.scopes[scope]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// DropScope удаляет scope вместе с его фабриками.
// Вызывающие, привязанные к нему, возвращаются в "root".
func (c *Container) DropScope(name string) error {
	if name == RootScope {
		return fmt.Errorf("%w: scope %s cannot be dropped", ErrInvalid, RootScope)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.scopes, name)
	for id, scope := range c.current {
		if scope == name {
			delete(c.current, id)
		}
	}
	return nil
}

// ensureScope создаёт scope, если его нет. Требует c.mu на запись.
func (c *Container) ensureScope(name string) map[string]Factory {
	table, ok := c.scopes[name]
	if !ok {
		table = make(map[string]Factory)
		c.scopes[name] = table
	}
	return table
}
