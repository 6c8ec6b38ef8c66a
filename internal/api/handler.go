package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shaiso/SpaceBattle/internal/game"
)

// Handler — обработчик API игр.
type Handler struct {
	games    *game.Manager
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Games  *game.Manager
	Logger *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		games: cfg.Games,
		upgrader: websocket.Upgrader{
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			HandshakeTimeout: 10 * time.Second,
			// Клиенты — игровые программы, а не браузерные страницы.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}
