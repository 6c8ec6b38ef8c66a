package chain

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/shaiso/SpaceBattle/internal/command"
)

// TagLog — тег команды записи в лог.
const TagLog = "log"

// LogBuffer — потокобезопасный append-only лог ошибок команд.
//
// Пополняется только выполнением LogCommand.
type LogBuffer struct {
	mu     sync.Mutex
	lines  []string
	logger *slog.Logger
}

// NewLogBuffer создаёт LogBuffer. Если logger не nil, каждая строка
// дублируется в него на уровне WARN.
func NewLogBuffer(logger *slog.Logger) *LogBuffer {
	return &LogBuffer{logger: logger}
}

func (b *LogBuffer) append(line string) {
	b.mu.Lock()
	b.lines = append(b.lines, line)
	b.mu.Unlock()

	if b.logger != nil {
		b.logger.Warn(line)
	}
}

// Lines возвращает копию записанных строк.
func (b *LogBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Len возвращает количество строк.
func (b *LogBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines)
}

// FormatLine форматирует строку лога для упавшей команды.
func FormatLine(sourceTag string, err error) string {
	return fmt.Sprintf("command failed: %s: %v", sourceTag, err)
}

// LogCommand создаёт команду, которая пишет (sourceTag, err) в buf.
func LogCommand(buf *LogBuffer, sourceTag string, err error) *command.Command {
	line := FormatLine(sourceTag, err)
	return command.NewKind(command.KindLog, TagLog, func(*command.Queue) error {
		buf.append(line)
		return nil
	})
}
