package game

// Status — статус игры.
//
// Жизненный цикл:
//
//	RUNNING → STOPPING → STOPPED
type Status string

const (
	// StatusRunning — игра принимает и выполняет команды.
	StatusRunning Status = "RUNNING"

	// StatusStopping — идёт остановка воркера, новые команды не принимаются.
	StatusStopping Status = "STOPPING"

	// StatusStopped — воркер остановлен.
	StatusStopped Status = "STOPPED"
)

// AcceptsCommands возвращает true, если игра принимает команды.
func (s Status) AcceptsCommands() bool {
	return s == StatusRunning
}
