package ioc

import (
	"fmt"
	"strings"
)

// Key форматирует ключ метода интерфейса: "<iface>:<suffix>".
func Key(iface, suffix string) string {
	return iface + ":" + suffix
}

// Arg возвращает i-й аргумент как T.
// Отсутствующий аргумент или аргумент другого типа — ErrInvalid.
func Arg[T any](args []any, i int) (T, error) {
	var zero T
	if i >= len(args) {
		return zero, fmt.Errorf("%w: missing argument %d, want %s", ErrInvalid, i, typeName[T]())
	}
	v, ok := args[i].(T)
	if !ok {
		return zero, fmt.Errorf("%w: argument %d is %T, want %s", ErrInvalid, i, args[i], typeName[T]())
	}
	return v, nil
}

// typeName возвращает имя типа T, в том числе для интерфейсов.
func typeName[T any]() string {
	return strings.TrimPrefix(fmt.Sprintf("%T", (*T)(nil)), "*")
}

// arg возвращает i-й аргумент или nil.
func arg(args []any, i int) any {
	if i < len(args) {
		return args[i]
	}
	return nil
}
