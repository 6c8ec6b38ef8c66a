package scheduler

import "errors"

var (
	// ErrInvalidSpec — расписание не разбирается cron-парсером.
	ErrInvalidSpec = errors.New("invalid tick spec")

	// ErrAlreadyStarted — планировщик уже запущен.
	ErrAlreadyStarted = errors.New("scheduler already started")
)
