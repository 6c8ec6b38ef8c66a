// Package cli реализует инструмент командной строки SpaceBattle.
//
// # Client
//
// HTTP-клиент для API игр. Не импортирует серверные пакеты: типы
// ответов продублированы, ошибки сервера приходят как *APIError.
//
//	client := cli.NewClient("http://localhost:8090")
//	games, err := client.ListGames()
//
// # Output
//
// Форматирование вывода: таблицы (text/tabwriter) по умолчанию,
// JSON с флагом --json. Данные идут в stdout, сообщения — в stderr:
//
//	spacebattle game list --json | jq .
//
// # Commands
//
//   - game: create, list, show, stop, command — через HTTP API
//   - scenario: strategies, worker, adapter — в процессе CLI, без сервера
//
// Группы создаются фабричными функциями (NewGameCmd, NewScenarioCmd),
// принимающими clientFn и outputFn — замыкания, которые создают Client
// и Output после разбора PersistentFlags.
package cli
