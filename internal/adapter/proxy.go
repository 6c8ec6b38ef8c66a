package adapter

import (
	"context"
	"fmt"
	"slices"

	"github.com/shaiso/SpaceBattle/internal/ioc"
)

// MethodSet — суффиксы методов интерфейса по форме.
type MethodSet struct {
	Getters []string
	Setters []string
	Actions []string
}

// Shape — форма метода.
type Shape uint8

const (
	ShapeUnknown Shape = iota
	ShapeGetter
	ShapeSetter
	ShapeAction
)

// Shape возвращает форму метода suffix.
func (ms MethodSet) Shape(suffix string) Shape {
	switch {
	case slices.Contains(ms.Getters, suffix):
		return ShapeGetter
	case slices.Contains(ms.Setters, suffix):
		return ShapeSetter
	case slices.Contains(ms.Actions, suffix):
		return ShapeAction
	default:
		return ShapeUnknown
	}
}

// Proxy — связка (target, iface) с разрешением методов через IoC.
//
// Proxy хранит контекст вызывающего, создавшего прокси: методы
// разрешаются в его текущем scope.
type Proxy struct {
	ctx      context.Context
	resolver ioc.Resolver
	iface    string
	methods  MethodSet
	target   any
}

// NewProxy создаёт прокси.
func NewProxy(ctx context.Context, r ioc.Resolver, iface string, methods MethodSet, target any) *Proxy {
	return &Proxy{
		ctx:      ctx,
		resolver: r,
		iface:    iface,
		methods:  methods,
		target:   target,
	}
}

// Interface возвращает имя интерфейса.
func (p *Proxy) Interface() string {
	return p.iface
}

// Target возвращает объект, к которому привязан прокси.
func (p *Proxy) Target() any {
	return p.target
}

func (p *Proxy) check(suffix string, want Shape) error {
	if got := p.methods.Shape(suffix); got != want {
		return fmt.Errorf("%w: %s is not a declared %s of %s", ioc.ErrInvalid, suffix, shapeName(want), p.iface)
	}
	return nil
}

func shapeName(s Shape) string {
	switch s {
	case ShapeGetter:
		return "getter"
	case ShapeSetter:
		return "setter"
	case ShapeAction:
		return "action"
	default:
		return "method"
	}
}

// Get вызывает getter suffix и возвращает результат.
func Get[T any](p *Proxy, suffix string) (T, error) {
	var out T
	if err := p.check(suffix, ShapeGetter); err != nil {
		return out, err
	}
	err := ioc.Execute(p.ctx, p.resolver, ioc.Key(p.iface, suffix), p.target, &out)
	return out, err
}

// Set вызывает setter suffix со значением v.
func Set[T any](p *Proxy, suffix string, v T) error {
	if err := p.check(suffix, ShapeSetter); err != nil {
		return err
	}
	return ioc.Execute(p.ctx, p.resolver, ioc.Key(p.iface, suffix), p.target, v)
}

// Do вызывает action suffix.
func (p *Proxy) Do(suffix string) error {
	if err := p.check(suffix, ShapeAction); err != nil {
		return err
	}
	return ioc.Execute(p.ctx, p.resolver, ioc.Key(p.iface, suffix), p.target)
}
