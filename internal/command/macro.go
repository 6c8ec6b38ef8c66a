package command

// Macro создаёт команду, последовательно выполняющую cmds.
//
// Первая ошибка прерывает выполнение и возвращается без изменений.
// Если хотя бы одна вложенная команда владеет контекстом, макрокоманда
// тоже owned: её Release освобождает все вложенные команды.
func Macro(tag string, cmds ...*Command) *Command {
	exec := func(q *Queue) error {
		for _, cmd := range cmds {
			if err := cmd.Execute(q); err != nil {
				return err
			}
		}
		return nil
	}

	owned := false
	for _, cmd := range cmds {
		if cmd.Owned() {
			owned = true
			break
		}
	}
	if !owned {
		return New(tag, exec)
	}

	return NewOwned(tag, exec, func() {
		for _, cmd := range cmds {
			cmd.Release()
		}
	})
}
