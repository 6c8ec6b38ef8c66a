package game

import (
	"github.com/shaiso/SpaceBattle/internal/command"
)

// withPolicy оборачивает команду прогоном цепочки обработчиков игры.
// Без политики команда возвращается как есть.
func (g *Game) withPolicy(cmd *command.Command) *command.Command {
	if g.processor == nil {
		return cmd
	}

	exec := func(*command.Queue) error {
		g.processor.Run(command.NewQueue(cmd))
		return nil
	}
	if !cmd.Owned() {
		return command.New(cmd.Tag(), exec)
	}
	// Отброшенная без выполнения обёртка освобождает исходную команду.
	return command.NewOwned(cmd.Tag(), exec, cmd.Release)
}
