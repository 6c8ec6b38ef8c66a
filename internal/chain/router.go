package chain

import (
	"errors"
	"sync"

	"github.com/shaiso/SpaceBattle/internal/command"
)

// AnyTag — тег маршрута, совпадающий с любой командой.
const AnyTag = "*"

type route struct {
	target  error
	handler Handler
}

// Router — Handler, выбирающий обработчики по тегу команды и ошибке.
//
// Порядок: маршруты точного тега, затем маршруты AnyTag, затем fallback
// в порядке регистрации. Маршрут с target == nil совпадает с любой ошибкой.
type Router struct {
	mu       sync.RWMutex
	routes   map[string][]route
	fallback []Handler
}

// NewRouter создаёт Router с упорядоченным списком fallback.
func NewRouter(fallback ...Handler) *Router {
	return &Router{
		routes:   make(map[string][]route),
		fallback: fallback,
	}
}

// Route добавляет маршрут для тега и ошибки target.
func (r *Router) Route(tag string, target error, h Handler) *Router {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.routes[tag] = append(r.routes[tag], route{target: target, handler: h})
	return r
}

// Name возвращает имя обработчика для метрик.
func (r *Router) Name() string {
	return "router"
}

// Handle реализует Handler.
func (r *Router) Handle(err error, failed *command.Command, q *command.Queue) bool {
	r.mu.RLock()
	exact := r.routes[failed.Tag()]
	wildcard := r.routes[AnyTag]
	fallback := r.fallback
	r.mu.RUnlock()

	for _, routes := range [][]route{exact, wildcard} {
		for _, rt := range routes {
			if rt.target != nil && !errors.Is(err, rt.target) {
				continue
			}
			if rt.handler.Handle(err, failed, q) {
				return true
			}
		}
	}

	for _, h := range fallback {
		if h.Handle(err, failed, q) {
			return true
		}
	}
	return false
}
