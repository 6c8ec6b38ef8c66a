package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shaiso/SpaceBattle/internal/game"
	"github.com/shaiso/SpaceBattle/internal/ioc"
	"github.com/shaiso/SpaceBattle/internal/worker"
)

// ErrorCode — код ошибки API.
type ErrorCode string

const (
	ErrCodeBadRequest      ErrorCode = "BAD_REQUEST"
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeUnknownKey      ErrorCode = "UNKNOWN_KEY"
	ErrCodeConflict        ErrorCode = "CONFLICT"
	ErrCodeInvalidState    ErrorCode = "INVALID_STATE"
	ErrCodeInternalError   ErrorCode = "INTERNAL_ERROR"
)

// ErrorResponse — структура ответа с ошибкой.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail — детали ошибки.
type ErrorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// DataResponse — структура успешного ответа.
type DataResponse struct {
	Data any `json:"data"`
}

// ListResponse — структура ответа со списком.
type ListResponse struct {
	Data  any `json:"data"`
	Total int `json:"total"`
}

// JSON отправляет JSON ответ.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Success отправляет ответ 200 с данными.
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, DataResponse{Data: data})
}

// Created отправляет ответ 201.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, DataResponse{Data: data})
}

// Accepted отправляет ответ 202: команда принята в очередь игры.
func Accepted(w http.ResponseWriter, data any) {
	JSON(w, http.StatusAccepted, DataResponse{Data: data})
}

// List отправляет ответ со списком.
func List(w http.ResponseWriter, data any, total int) {
	JSON(w, http.StatusOK, ListResponse{Data: data, Total: total})
}

// Error отправляет ответ с ошибкой.
func Error(w http.ResponseWriter, status int, code ErrorCode, message string) {
	JSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// BadRequest отправляет ошибку 400.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// InternalError отправляет ошибку 500.
func InternalError(w http.ResponseWriter, logger *slog.Logger, err error) {
	logger.Error("internal error", "error", err)
	Error(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
}

// Classify сопоставляет доменной ошибке HTTP статус и код.
// ok == false — ошибка не доменная.
func Classify(err error) (status int, code ErrorCode, ok bool) {
	switch {
	case errors.Is(err, ioc.ErrUnknownKey):
		return http.StatusNotFound, ErrCodeUnknownKey, true
	case errors.Is(err, ioc.ErrInvalid),
		errors.Is(err, game.ErrInvalidSpec),
		errors.Is(err, game.ErrInvalidRequest):
		return http.StatusBadRequest, ErrCodeInvalidArgument, true
	case errors.Is(err, game.ErrGameNotFound),
		errors.Is(err, game.ErrShipNotFound):
		return http.StatusNotFound, ErrCodeNotFound, true
	case errors.Is(err, worker.ErrAlreadyStarted):
		return http.StatusConflict, ErrCodeConflict, true
	case errors.Is(err, game.ErrGameStopped):
		return http.StatusUnprocessableEntity, ErrCodeInvalidState, true
	default:
		return http.StatusInternalServerError, ErrCodeInternalError, false
	}
}

// HandleError преобразует ошибку в HTTP ответ.
// Возвращает true, если ответ уже отправлен.
func HandleError(w http.ResponseWriter, logger *slog.Logger, err error) bool {
	if err == nil {
		return false
	}

	status, code, ok := Classify(err)
	if !ok {
		InternalError(w, logger, err)
		return true
	}

	Error(w, status, code, err.Error())
	return true
}
