// Package telemetry — логи и метрики SpaceBattle.
//
// # Логи
//
// Логгер строится из LOG_LEVEL и LOG_FORMAT (поля config.Server):
//
//	logger, err := telemetry.SetupLogger(cfg.LogLevel, cfg.LogFormat)
//
// Логгер запроса живёт в context.Context (WithLogger / FromContext).
// HTTP middleware кладёт туда логгер с caller_id; игра пишет с game_id
// и scope своего IoC scope (ForGame, ForCaller).
//
// # Метрики
//
// Метрики регистрируются через promauto в реестре по умолчанию и
// отдаются сервером на /metrics:
//
//   - spacebattle_worker_commands_total{worker,result} — executed / failed / forwarded
//   - spacebattle_worker_queue_depth{worker}
//   - spacebattle_worker_state_transitions_total{to}
//   - spacebattle_ioc_resolutions_total{kind,outcome}
//   - spacebattle_chain_claims_total{handler}
//
// Label worker — имя воркера, у игры это её scope "game:<uuid>".
// ForgetWorker удаляет серии воркера после остановки игры.
package telemetry
