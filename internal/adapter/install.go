package adapter

import (
	"context"
	"fmt"

	"github.com/shaiso/SpaceBattle/internal/command"
	"github.com/shaiso/SpaceBattle/internal/ioc"
)

// Install регистрирует builder прокси A для интерфейса iface через
// "Adapter.Register". wrap оборачивает Proxy в типизированный адаптер.
func Install[A any](ctx context.Context, r ioc.Resolver, iface string, ms MethodSet, wrap func(*Proxy) A) error {
	builder := func(ctx context.Context, target, out any) (*command.Command, error) {
		if target == nil {
			return nil, fmt.Errorf("%w: adapter %s: nil target", ioc.ErrInvalid, iface)
		}
		dst, ok := out.(*A)
		if !ok || dst == nil {
			return nil, fmt.Errorf("%w: adapter %s: out is %T", ioc.ErrInvalid, iface, out)
		}
		return command.New(ioc.AdapterPrefix+iface, func(*command.Queue) error {
			*dst = wrap(NewProxy(ctx, r, iface, ms, target))
			return nil
		}), nil
	}
	return ioc.RegisterAdapter(ctx, r, iface, builder)
}

// Make разрешает "Adapter.<iface>" и возвращает адаптер для target.
func Make[A any](ctx context.Context, r ioc.Resolver, iface string, target any) (A, error) {
	var out A
	err := ioc.Execute(ctx, r, ioc.AdapterPrefix+iface, target, &out)
	return out, err
}

// GetterFactory — фабрика getter'а: аргументы (target O, out *T).
func GetterFactory[O, T any](get func(O) (T, error)) ioc.Factory {
	return func(args ...any) (*command.Command, error) {
		obj, err := ioc.Arg[O](args, 0)
		if err != nil {
			return nil, err
		}
		out, err := ioc.Arg[*T](args, 1)
		if err != nil {
			return nil, err
		}
		if out == nil {
			return nil, fmt.Errorf("%w: nil output slot", ioc.ErrInvalid)
		}
		return command.New("get", func(*command.Queue) error {
			v, err := get(obj)
			if err != nil {
				return err
			}
			*out = v
			return nil
		}), nil
	}
}

// SetterFactory — фабрика setter'а: аргументы (target O, value T).
func SetterFactory[O, T any](set func(O, T) error) ioc.Factory {
	return func(args ...any) (*command.Command, error) {
		obj, err := ioc.Arg[O](args, 0)
		if err != nil {
			return nil, err
		}
		v, err := ioc.Arg[T](args, 1)
		if err != nil {
			return nil, err
		}
		return command.New("set", func(*command.Queue) error {
			return set(obj, v)
		}), nil
	}
}

// ActionFactory — фабрика действия: аргумент (target O).
func ActionFactory[O any](do func(O) error) ioc.Factory {
	return func(args ...any) (*command.Command, error) {
		obj, err := ioc.Arg[O](args, 0)
		if err != nil {
			return nil, err
		}
		return command.New("do", func(*command.Queue) error {
			return do(obj)
		}), nil
	}
}
