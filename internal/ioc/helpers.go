package ioc

import (
	"context"

	"github.com/shaiso/SpaceBattle/internal/command"
)

// Resolver — то, что умеет разрешать ключи. Реализуется *Container.
type Resolver interface {
	Resolve(ctx context.Context, key string, args ...any) (*command.Command, error)
}

// Execute разрешает key и выполняет команду на одноразовой очереди.
// Команды, добавленные в эту очередь, отбрасываются.
func Execute(ctx context.Context, r Resolver, key string, args ...any) error {
	cmd, err := r.Resolve(ctx, key, args...)
	if err != nil {
		return err
	}
	defer cmd.Release()

	return cmd.Execute(command.NewQueue())
}

// Register регистрирует фабрику в текущем scope вызывающего.
func Register(ctx context.Context, r Resolver, key string, f Factory) error {
	return Execute(ctx, r, KeyRegister, key, f)
}

// NewScope создаёт scope, если его нет.
func NewScope(ctx context.Context, r Resolver, name string) error {
	return Execute(ctx, r, KeyScopesNew, name)
}

// SetCurrent привязывает вызывающего из ctx к scope.
func SetCurrent(ctx context.Context, r Resolver, name string) error {
	return Execute(ctx, r, KeyScopesCurrent, name)
}

// RegisterAdmin регистрирует admin-операцию.
func RegisterAdmin(ctx context.Context, r Resolver, key string, op AdminFunc) error {
	return Execute(ctx, r, KeyAdminRegister, key, op)
}

// RegisterAdapter регистрирует adapter builder для интерфейса.
func RegisterAdapter(ctx context.Context, r Resolver, iface string, b AdapterBuilder) error {
	return Execute(ctx, r, KeyAdapterRegister, iface, b)
}
