package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/SpaceBattle/internal/game"
	"github.com/shaiso/SpaceBattle/internal/ioc"
)

type fakeSubmitter struct {
	gameID uuid.UUID
	req    game.CommandRequest
	err    error
	calls  int
}

func (f *fakeSubmitter) SubmitRequest(_ context.Context, id uuid.UUID, req game.CommandRequest) error {
	f.calls++
	f.gameID = id
	f.req = req
	return f.err
}

// roundTrip имитирует доставку: конверт проходит через JSON.
func roundTrip(t *testing.T, msg *Message) *Message {
	t.Helper()

	body, err := json.Marshal(msg)
	require.NoError(t, err)

	var out Message
	require.NoError(t, json.Unmarshal(body, &out))
	return &out
}

// --- Payload Tests ---

func TestParsePayload_CommandSubmit(t *testing.T) {
	gameID := uuid.New()
	msg := roundTrip(t, NewMessage(MessageTypeCommandSubmit, CommandSubmitPayload{
		GameID:         gameID,
		CommandRequest: game.CommandRequest{Key: game.KeyShipMove, ShipID: "alpha"},
	}))

	payload, err := ParsePayload[CommandSubmitPayload](msg)
	require.NoError(t, err)

	assert.Equal(t, gameID, payload.GameID)
	assert.Equal(t, game.KeyShipMove, payload.Key)
	assert.Equal(t, "alpha", payload.ShipID)
	assert.NotEmpty(t, msg.ID)
}

func TestParsePayload_Invalid(t *testing.T) {
	msg := &Message{Type: MessageTypeCommandSubmit, Payload: map[string]any{"game_id": "not-a-uuid"}}

	_, err := ParsePayload[CommandSubmitPayload](msg)
	assert.Error(t, err)
}

func TestNewGameStoppedPayload(t *testing.T) {
	stoppedAt := time.Now().UTC()
	info := game.Info{
		ID:        uuid.New(),
		Name:      "duel",
		Status:    game.StatusStopped,
		Errors:    []string{"command failed: move: out of fuel"},
		StoppedAt: &stoppedAt,
	}

	p := NewGameStoppedPayload(info)

	assert.Equal(t, info.ID, p.GameID)
	assert.Equal(t, "STOPPED", p.Status)
	assert.Equal(t, info.Errors, p.Errors)
	assert.Equal(t, &stoppedAt, p.StoppedAt)
}

// --- Handler Tests ---

func TestCommandHandler_Submits(t *testing.T) {
	sub := &fakeSubmitter{}
	gameID := uuid.New()

	msg := roundTrip(t, NewMessage(MessageTypeCommandSubmit, CommandSubmitPayload{
		GameID:         gameID,
		CommandRequest: game.CommandRequest{Key: game.KeyGameTick},
	}))

	require.NoError(t, CommandHandler(sub)(context.Background(), msg))
	assert.Equal(t, 1, sub.calls)
	assert.Equal(t, gameID, sub.gameID)
	assert.Equal(t, game.KeyGameTick, sub.req.Key)
}

func TestCommandHandler_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		msg       *Message
		subErr    error
		permanent bool
		wantCalls int
	}{
		{
			name:      "wrong type",
			msg:       NewMessage(MessageTypeGameStopped, GameStoppedPayload{}),
			permanent: true,
		},
		{
			name:      "missing game id",
			msg:       NewMessage(MessageTypeCommandSubmit, CommandSubmitPayload{}),
			permanent: true,
		},
		{
			name:      "unknown key",
			msg:       NewMessage(MessageTypeCommandSubmit, CommandSubmitPayload{GameID: uuid.New()}),
			subErr:    ioc.ErrUnknownKey,
			permanent: true,
			wantCalls: 1,
		},
		{
			name:      "cancelled",
			msg:       NewMessage(MessageTypeCommandSubmit, CommandSubmitPayload{GameID: uuid.New()}),
			subErr:    context.Canceled,
			permanent: false,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &fakeSubmitter{err: tt.subErr}

			err := CommandHandler(sub)(context.Background(), roundTrip(t, tt.msg))
			require.Error(t, err)
			assert.Equal(t, tt.permanent, IsPermanent(err))
			assert.Equal(t, tt.wantCalls, sub.calls)
			if tt.subErr != nil {
				assert.ErrorIs(t, err, tt.subErr)
			}
		})
	}
}

// --- Consumer Tests ---

func TestConsumer_HandleSettlement(t *testing.T) {
	errTransient := errors.New("transient")

	tests := []struct {
		name    string
		body    []byte
		handler Handler
		want    settlement
	}{
		{
			name:    "ack",
			body:    []byte(`{"id":"1","type":"command.submit","payload":{}}`),
			handler: func(context.Context, *Message) error { return nil },
			want:    settleAck,
		},
		{
			name:    "requeue",
			body:    []byte(`{"id":"2","type":"command.submit","payload":{}}`),
			handler: func(context.Context, *Message) error { return errTransient },
			want:    settleRequeue,
		},
		{
			name:    "permanent",
			body:    []byte(`{"id":"3","type":"command.submit","payload":{}}`),
			handler: func(context.Context, *Message) error { return Permanent(errTransient) },
			want:    settleDeadLetter,
		},
		{
			name:    "garbage",
			body:    []byte(`{not json`),
			handler: func(context.Context, *Message) error { return nil },
			want:    settleDeadLetter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConsumer(nil, ConsumerConfig{Queue: QueueGameCommands, Handler: tt.handler})
			assert.Equal(t, tt.want, c.handle(context.Background(), tt.body))
		})
	}
}

func TestPermanent(t *testing.T) {
	assert.NoError(t, Permanent(nil))

	err := Permanent(ioc.ErrInvalid)
	assert.True(t, IsPermanent(err))
	assert.ErrorIs(t, err, ioc.ErrInvalid)
	assert.Equal(t, ioc.ErrInvalid.Error(), err.Error())
	assert.False(t, IsPermanent(ioc.ErrInvalid))
}

// --- Topology Tests ---

func TestBindings(t *testing.T) {
	queues := map[Queue]Exchange{}
	for _, b := range bindings() {
		queues[b.queue] = b.exchange
	}

	assert.Equal(t, ExchangeGames, queues[QueueGameCommands])
	assert.Equal(t, ExchangeEvents, queues[QueueGameEvents])
	assert.Equal(t, ExchangeDLQ, queues[QueueDLQCommands])
	assert.Contains(t, TopologyInfo(), string(QueueGameCommands))
}
