package ioc

import (
	"context"
	"fmt"

	"github.com/shaiso/SpaceBattle/internal/command"
)

// asFactory принимает как Factory, так и функцию с той же сигнатурой.
func asFactory(v any) (Factory, error) {
	switch f := v.(type) {
	case Factory:
		if f != nil {
			return f, nil
		}
	case func(args ...any) (*command.Command, error):
		if f != nil {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: factory is %T", ErrInvalid, v)
}

func asAdmin(v any) (AdminFunc, error) {
	switch f := v.(type) {
	case AdminFunc:
		if f != nil {
			return f, nil
		}
	case func(ctx context.Context, args ...any) (*command.Command, error):
		if f != nil {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: admin operation is %T", ErrInvalid, v)
}

func asBuilder(v any) (AdapterBuilder, error) {
	switch f := v.(type) {
	case AdapterBuilder:
		if f != nil {
			return f, nil
		}
	case func(ctx context.Context, target, out any) (*command.Command, error):
		if f != nil {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: adapter builder is %T", ErrInvalid, v)
}

func nonEmpty(args []any, i int, what string) (string, error) {
	s, err := Arg[string](args, i)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", fmt.Errorf("%w: empty %s", ErrInvalid, what)
	}
	return s, nil
}

// opRegister — IoC.Register(key, factory) в текущий scope вызывающего.
func (c *Container) opRegister(ctx context.Context, args ...any) (*command.Command, error) {
	key, err := nonEmpty(args, 0, "key")
	if err != nil {
		return nil, err
	}
	factory, err := asFactory(arg(args, 1))
	if err != nil {
		return nil, err
	}

	scope := c.Current(ctx)

	return command.New(KeyRegister, func(*command.Queue) error {
		c.mu.Lock()
		c.ensureScope(scope)[key] = factory
		c.mu.Unlock()

		c.logger.Debug("factory registered", "scope", scope, "key", key)
		return nil
	}), nil
}

// opScopesNew — Scopes.New(name), идемпотентно.
func (c *Container) opScopesNew(_ context.Context, args ...any) (*command.Command, error) {
	name, err := nonEmpty(args, 0, "scope name")
	if err != nil {
		return nil, err
	}

	return command.New(KeyScopesNew, func(*command.Queue) error {
		c.mu.Lock()
		c.ensureScope(name)
		c.mu.Unlock()
		return nil
	}), nil
}

// opScopesCurrent — Scopes.Current(name): привязка вызывающего к scope.
//
// Контекст без идентичности (ioc.NewCaller) привязать нельзя: такие
// вызывающие всегда разрешают ключи в root.
func (c *Container) opScopesCurrent(ctx context.Context, args ...any) (*command.Command, error) {
	name, err := nonEmpty(args, 0, "scope name")
	if err != nil {
		return nil, err
	}

	id, ok := CallerID(ctx)
	if !ok {
		return nil, fmt.Errorf("%w: %s needs a caller identity", ErrInvalid, KeyScopesCurrent)
	}

	return command.New(KeyScopesCurrent, func(*command.Queue) error {
		c.mu.Lock()
		c.ensureScope(name)
		c.current[id] = name
		c.mu.Unlock()
		return nil
	}), nil
}

// opAdminRegister — IoC.Admin.Register(key, op).
func (c *Container) opAdminRegister(_ context.Context, args ...any) (*command.Command, error) {
	key, err := nonEmpty(args, 0, "admin key")
	if err != nil {
		return nil, err
	}
	op, err := asAdmin(arg(args, 1))
	if err != nil {
		return nil, err
	}

	return command.New(KeyAdminRegister, func(*command.Queue) error {
		c.mu.Lock()
		c.admin[key] = op
		c.mu.Unlock()

		c.logger.Debug("admin operation registered", "key", key)
		return nil
	}), nil
}

// opAdapterRegister — Adapter.Register(iface, builder).
func (c *Container) opAdapterRegister(_ context.Context, args ...any) (*command.Command, error) {
	iface, err := nonEmpty(args, 0, "interface name")
	if err != nil {
		return nil, err
	}
	if AdapterPrefix+iface == KeyAdapterRegister {
		return nil, fmt.Errorf("%w: interface name %q is reserved", ErrInvalid, iface)
	}
	builder, err := asBuilder(arg(args, 1))
	if err != nil {
		return nil, err
	}

	return command.New(KeyAdapterRegister, func(*command.Queue) error {
		c.mu.Lock()
		c.adapters[iface] = builder
		c.mu.Unlock()

		c.logger.Debug("adapter registered", "interface", iface)
		return nil
	}), nil
}
