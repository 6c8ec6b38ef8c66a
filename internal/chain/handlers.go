package chain

import (
	"github.com/shaiso/SpaceBattle/internal/command"
)

// Теги retry-обёрток.
const (
	TagRetryOnce  = "retry_once"
	TagRetryTwice = "retry_twice"
)

// RetryOnFirstFailure забирает любую команду, кроме retry и log,
// и ставит её повтор ("retry_once", стадия 1) в начало очереди.
func RetryOnFirstFailure() Handler {
	return named{name: "retry_on_first_failure", fn: func(_ error, failed *command.Command, q *command.Queue) bool {
		if failed.IsRetry() || failed.IsLog() {
			return false
		}
		q.PushFront(command.Wrap(failed, TagRetryOnce, 1))
		return true
	}}
}

// LogAfterRetryOnce забирает упавший первый повтор и пишет его ошибку в лог.
func LogAfterRetryOnce(buf *LogBuffer) Handler {
	return named{name: "log_after_retry_once", fn: func(err error, failed *command.Command, q *command.Queue) bool {
		if failed.RetryStage() != 1 {
			return false
		}
		q.PushBack(LogCommand(buf, failed.Tag(), err))
		return true
	}}
}

// RetrySecondTime забирает упавший первый повтор и ставит второй повтор
// ("retry_twice", стадия 2) в начало очереди.
//
// Если buf не nil, ошибка первого повтора дополнительно пишется в лог
// (в конец очереди). Так команда, упавшая дважды и затем выполнившаяся,
// оставляет ровно одну строку лога.
func RetrySecondTime(buf *LogBuffer) Handler {
	return named{name: "retry_second_time", fn: func(err error, failed *command.Command, q *command.Queue) bool {
		if failed.RetryStage() != 1 {
			return false
		}
		q.PushFront(command.Wrap(failed, TagRetryTwice, 2))
		if buf != nil {
			q.PushBack(LogCommand(buf, failed.Tag(), err))
		}
		return true
	}}
}

// LogAfterSecondRetry забирает упавший второй повтор и пишет его ошибку в лог.
func LogAfterSecondRetry(buf *LogBuffer) Handler {
	return named{name: "log_after_second_retry", fn: func(err error, failed *command.Command, q *command.Queue) bool {
		if failed.RetryStage() != 2 {
			return false
		}
		q.PushBack(LogCommand(buf, failed.Tag(), err))
		return true
	}}
}

// LogAlways пишет в лог любую ошибку, кроме ошибок самих log-команд.
func LogAlways(buf *LogBuffer) Handler {
	return named{name: "log_always", fn: func(err error, failed *command.Command, q *command.Queue) bool {
		if failed.IsLog() {
			return false
		}
		q.PushBack(LogCommand(buf, failed.Tag(), err))
		return true
	}}
}

// RetryOnceThenLog — политика «повторить один раз, затем лог».
func RetryOnceThenLog(buf *LogBuffer) []Handler {
	return []Handler{RetryOnFirstFailure(), LogAfterRetryOnce(buf)}
}

// RetryTwiceThenLog — политика «повторить дважды, затем лог».
func RetryTwiceThenLog(buf *LogBuffer) []Handler {
	return []Handler{RetryOnFirstFailure(), RetrySecondTime(buf), LogAfterSecondRetry(buf)}
}

// LogOnly — политика «без повторов, только лог».
func LogOnly(buf *LogBuffer) []Handler {
	return []Handler{LogAlways(buf)}
}
