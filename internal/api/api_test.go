package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/SpaceBattle/internal/config"
	"github.com/shaiso/SpaceBattle/internal/game"
	"github.com/shaiso/SpaceBattle/internal/ioc"
	"github.com/shaiso/SpaceBattle/internal/space"
	"github.com/shaiso/SpaceBattle/internal/worker"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	m := game.New(game.Config{Policy: config.PolicyRetryOnce})
	t.Cleanup(func() { _ = m.Shutdown(context.Background(), false) })

	mux := http.NewServeMux()
	NewHandler(Config{Games: m}).RegisterRoutes(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func decodeData[T any](t *testing.T, body []byte) T {
	t.Helper()
	var resp struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &resp), string(body))
	return resp.Data
}

func errorCode(t *testing.T, body []byte) ErrorCode {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp), string(body))
	return resp.Error.Code
}

func createDuel(t *testing.T, srv *httptest.Server) game.Info {
	t.Helper()

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/games", CreateGameRequest{
		Name: "duel",
		Ships: []space.Ship{
			{ID: "alpha", Pos: space.Vector{X: 12, Y: 5}, Vel: space.Vector{X: -7, Y: 3}, FuelLevel: 10, FuelBurn: 1},
			{ID: "rock", Static: true},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	return decodeData[game.Info](t, body)
}

// --- REST Tests ---

func TestCreateAndList(t *testing.T) {
	srv := newServer(t)

	info := createDuel(t, srv)
	assert.NotEqual(t, uuid.Nil, info.ID)
	assert.Equal(t, game.StatusRunning, info.Status)
	assert.Equal(t, 2, info.Ships)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/games", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Data  []game.Info `json:"data"`
		Total int         `json:"total"`
	}
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, info.ID, list.Data[0].ID)
}

func TestCreate_BadInput(t *testing.T) {
	srv := newServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/games", "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, ErrCodeBadRequest, errorCode(t, body))

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/v1/games", CreateGameRequest{
		Ships: []space.Ship{{ID: "a"}, {ID: "a"}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, ErrCodeInvalidArgument, errorCode(t, body))
}

func TestSubmitCommand_MovesShip(t *testing.T) {
	srv := newServer(t)
	info := createDuel(t, srv)
	base := fmt.Sprintf("%s/api/v1/games/%s", srv.URL, info.ID)

	resp, body := doJSON(t, http.MethodPost, base+"/commands", game.CommandRequest{Key: game.KeyShipMove, ShipID: "alpha"})
	require.Equal(t, http.StatusAccepted, resp.StatusCode, string(body))
	accepted := decodeData[CommandAcceptedResponse](t, body)
	assert.Equal(t, info.ID, accepted.GameID)

	resp, body = doJSON(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	snap := decodeData[game.Snapshot](t, body)
	require.Len(t, snap.Ships, 2)
	assert.Equal(t, "alpha", snap.Ships[0].ID)
	assert.Equal(t, space.Vector{X: 5, Y: 8}, snap.Ships[0].Pos)
	assert.Equal(t, 9, snap.Ships[0].FuelLevel)
}

func TestSubmitCommand_Errors(t *testing.T) {
	srv := newServer(t)
	info := createDuel(t, srv)
	base := fmt.Sprintf("%s/api/v1/games/%s", srv.URL, info.ID)

	tests := []struct {
		name       string
		url        string
		body       any
		wantStatus int
		wantCode   ErrorCode
	}{
		{"unknown key", base + "/commands", game.CommandRequest{Key: "Ship.Teleport", ShipID: "alpha"}, http.StatusNotFound, ErrCodeUnknownKey},
		{"admin key hidden", base + "/commands", game.CommandRequest{Key: ioc.KeyRegister}, http.StatusNotFound, ErrCodeUnknownKey},
		{"unknown ship", base + "/commands", game.CommandRequest{Key: game.KeyShipMove, ShipID: "gamma"}, http.StatusNotFound, ErrCodeNotFound},
		{"missing ship arg", base + "/commands", game.CommandRequest{Key: game.KeyShipMove}, http.StatusBadRequest, ErrCodeInvalidArgument},
		{"missing key", base + "/commands", game.CommandRequest{}, http.StatusBadRequest, ErrCodeInvalidArgument},
		{"bad body", base + "/commands", "[]", http.StatusBadRequest, ErrCodeBadRequest},
		{"bad id", srv.URL + "/api/v1/games/nope/commands", game.CommandRequest{Key: game.KeyGameTick}, http.StatusBadRequest, ErrCodeBadRequest},
		{"unknown game", fmt.Sprintf("%s/api/v1/games/%s/commands", srv.URL, uuid.New()), game.CommandRequest{Key: game.KeyGameTick}, http.StatusNotFound, ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, http.MethodPost, tt.url, tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode, string(body))
			assert.Equal(t, tt.wantCode, errorCode(t, body))
		})
	}
}

func TestStopGame(t *testing.T) {
	srv := newServer(t)
	info := createDuel(t, srv)
	base := fmt.Sprintf("%s/api/v1/games/%s", srv.URL, info.ID)

	resp, body := doJSON(t, http.MethodPost, base+"/stop", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	stopped := decodeData[game.Info](t, body)
	assert.Equal(t, game.StatusStopped, stopped.Status)
	assert.NotNil(t, stopped.StoppedAt)

	resp, body = doJSON(t, http.MethodPost, base+"/commands", game.CommandRequest{Key: game.KeyGameTick})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, ErrCodeInvalidState, errorCode(t, body))

	resp, body = doJSON(t, http.MethodPost, base+"/stop", StopGameRequest{})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, ErrCodeInvalidState, errorCode(t, body))

	// Остановленная игра всё ещё отдаёт снимок
	resp, _ = doJSON(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStopGameRequest_IsSoft(t *testing.T) {
	hard := false
	assert.True(t, StopGameRequest{}.IsSoft())
	assert.False(t, StopGameRequest{Soft: &hard}.IsSoft())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   ErrorCode
		wantOK     bool
	}{
		{ioc.ErrUnknownKey, http.StatusNotFound, ErrCodeUnknownKey, true},
		{fmt.Errorf("resolve: %w", ioc.ErrInvalid), http.StatusBadRequest, ErrCodeInvalidArgument, true},
		{worker.ErrAlreadyStarted, http.StatusConflict, ErrCodeConflict, true},
		{game.ErrGameNotFound, http.StatusNotFound, ErrCodeNotFound, true},
		{game.ErrGameStopped, http.StatusUnprocessableEntity, ErrCodeInvalidState, true},
		{game.ErrInvalidSpec, http.StatusBadRequest, ErrCodeInvalidArgument, true},
		{fmt.Errorf("disk on fire"), http.StatusInternalServerError, ErrCodeInternalError, false},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, code, ok := Classify(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(nopLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, ErrCodeInternalError, errorCode(t, rec.Body.Bytes()))
}

// --- WebSocket Tests ---

func dialGame(t *testing.T, srv *httptest.Server, id uuid.UUID) *websocket.Conn {
	t.Helper()

	url := fmt.Sprintf("ws%s/api/v1/games/%s/ws", strings.TrimPrefix(srv.URL, "http"), id)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func exchange(t *testing.T, conn *websocket.Conn, req WSRequest) WSReply {
	t.Helper()
	require.NoError(t, conn.WriteJSON(req))

	var reply WSReply
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, req.ID, reply.ID)
	return reply
}

func TestGameSocket(t *testing.T) {
	srv := newServer(t)
	info := createDuel(t, srv)
	conn := dialGame(t, srv, info.ID)

	reply := exchange(t, conn, WSRequest{
		Type:           WSTypeCommand,
		ID:             "1",
		CommandRequest: game.CommandRequest{Key: game.KeyShipMove, ShipID: "alpha"},
	})
	assert.Equal(t, WSTypeAccepted, reply.Type)

	reply = exchange(t, conn, WSRequest{Type: WSTypeSnapshot, ID: "2"})
	require.Equal(t, WSTypeSnapshot, reply.Type)
	require.NotNil(t, reply.Snapshot)
	assert.Equal(t, space.Vector{X: 5, Y: 8}, reply.Snapshot.Ships[0].Pos)

	reply = exchange(t, conn, WSRequest{
		Type:           WSTypeCommand,
		ID:             "3",
		CommandRequest: game.CommandRequest{Key: "Ship.Teleport"},
	})
	require.Equal(t, WSTypeError, reply.Type)
	assert.Equal(t, ErrCodeUnknownKey, reply.Error.Code)

	reply = exchange(t, conn, WSRequest{Type: "dance", ID: "4"})
	require.Equal(t, WSTypeError, reply.Type)
	assert.Equal(t, ErrCodeBadRequest, reply.Error.Code)
}

func TestGameSocket_UnknownGame(t *testing.T) {
	srv := newServer(t)

	url := fmt.Sprintf("ws%s/api/v1/games/%s/ws", strings.TrimPrefix(srv.URL, "http"), uuid.New())
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func nopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
