package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Результаты выполнения команды воркером (label "result").
const (
	ResultExecuted  = "executed"
	ResultFailed    = "failed"
	ResultForwarded = "forwarded"
)

// Исходы разрешения ключа в IoC (label "outcome").
const (
	OutcomeOK      = "ok"
	OutcomeUnknown = "unknown"
	OutcomeInvalid = "invalid"
)

var (
	// WorkerCommands — команды, обработанные воркерами.
	WorkerCommands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spacebattle_worker_commands_total",
		Help: "Commands handled by workers, by worker name and result",
	}, []string{"worker", "result"})

	// WorkerQueueDepth — длина очереди воркера.
	WorkerQueueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "spacebattle_worker_queue_depth",
		Help: "Pending commands in worker queue",
	}, []string{"worker"})

	// WorkerTransitions — переходы между состояниями воркера.
	WorkerTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spacebattle_worker_state_transitions_total",
		Help: "Worker state machine transitions, by target state",
	}, []string{"to"})

	// IoCResolutions — вызовы Container.Resolve.
	IoCResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spacebattle_ioc_resolutions_total",
		Help: "IoC resolutions, by resolution step and outcome",
	}, []string{"kind", "outcome"})

	// ChainClaims — ошибки, обработанные цепочкой handlers.
	ChainClaims = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spacebattle_chain_claims_total",
		Help: "Failures claimed by handler chain, by handler name",
	}, []string{"handler"})
)

// ForgetWorker удаляет серии метрик воркера name.
// Вызывается, когда воркер остановлен и больше не будет запущен.
func ForgetWorker(name string) {
	for _, result := range []string{ResultExecuted, ResultFailed, ResultForwarded} {
		WorkerCommands.DeleteLabelValues(name, result)
	}
	WorkerQueueDepth.DeleteLabelValues(name)
}
