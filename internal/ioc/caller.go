package ioc

import (
	"context"

	"github.com/google/uuid"
)

type callerKey struct{}

// anonymous — вызывающий для контекстов без идентичности.
// Он не может сменить scope и всегда разрешает ключи в root.
var anonymous = uuid.Nil

// NewCaller возвращает контекст с новой идентичностью вызывающего.
func NewCaller(ctx context.Context) context.Context {
	return context.WithValue(ctx, callerKey{}, uuid.New())
}

// CallerID возвращает идентичность вызывающего.
// Для контекста без идентичности возвращает uuid.Nil и false.
func CallerID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(callerKey{}).(uuid.UUID)
	if !ok {
		return anonymous, false
	}
	return id, true
}

func callerOf(ctx context.Context) uuid.UUID {
	id, _ := CallerID(ctx)
	return id
}
