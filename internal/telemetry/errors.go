package telemetry

import "errors"

// Ошибки настройки логирования.
var (
	// ErrUnknownLevel — LOG_LEVEL не распознан.
	ErrUnknownLevel = errors.New("unknown log level")

	// ErrUnknownFormat — LOG_FORMAT не json и не text.
	ErrUnknownFormat = errors.New("unknown log format")
)
