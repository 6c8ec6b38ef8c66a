package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Форматы вывода логов (LOG_FORMAT).
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Ключи атрибутов, общие для всех пакетов.
const (
	AttrGameID   = "game_id"
	AttrScope    = "scope"
	AttrCallerID = "caller_id"
)

// ParseLevel разбирает уровень логов: DEBUG, INFO, WARN, ERROR
// в любом регистре, допускается смещение вида "DEBUG-2".
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
	return level, nil
}

// NewLogger создаёт логгер, пишущий в w.
// Пустой format означает JSON. На уровне DEBUG и ниже в записи
// добавляется место вызова.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	}

	switch strings.ToLower(format) {
	case FormatJSON, "":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case FormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// SetupLogger создаёт логгер в stdout и делает его slog.Default.
func SetupLogger(level, format string) (*slog.Logger, error) {
	logger, err := NewLogger(os.Stdout, level, format)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

type loggerKey struct{}

// WithLogger кладёт логгер запроса в ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext возвращает логгер из ctx или slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// ForGame — логгер игры: её ID и IoC scope.
// Пустой scope не добавляется.
func ForGame(logger *slog.Logger, gameID uuid.UUID, scope string) *slog.Logger {
	logger = logger.With(AttrGameID, gameID.String())
	if scope != "" {
		logger = logger.With(AttrScope, scope)
	}
	return logger
}

// ForCaller — логгер вызывающего IoC.
func ForCaller(logger *slog.Logger, callerID uuid.UUID) *slog.Logger {
	return logger.With(AttrCallerID, callerID.String())
}
