// Package api содержит HTTP API сервер игр.
//
// Структура:
//   - handler.go      — Handler с зависимостями (game.Manager, logger)
//   - routes.go       — регистрация маршрутов
//   - middleware.go   — middleware (recovery, logging, IoC-вызывающий)
//   - response.go     — JSON-ответы и перевод доменных ошибок в статусы
//   - dto.go          — запросы и ответы
//   - game_handler.go — REST обработчики /games
//   - ws_handler.go   — приём команд по websocket
//
// Перевод ошибок:
//
//	ioc.ErrUnknownKey         → 404 UNKNOWN_KEY
//	ioc.ErrInvalid            → 400 INVALID_ARGUMENT
//	worker.ErrAlreadyStarted  → 409 CONFLICT
//	game.ErrGameNotFound      → 404 NOT_FOUND
//	game.ErrGameStopped       → 422 INVALID_STATE
package api
