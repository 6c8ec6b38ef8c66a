package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Ticker — получатель тиков. Реализуется game.Manager.
type Ticker interface {
	// Tick отправляет тик всем работающим играм и возвращает число игр, принявших его.
	Tick(ctx context.Context) int
}

// Scheduler — планировщик, периодически отправляющий Game.Tick.
type Scheduler struct {
	ticker Ticker
	spec   string
	logger *slog.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

// Config — конфигурация Scheduler.
type Config struct {
	Ticker Ticker
	Spec   string // cron-выражение или дескриптор (default: "@every 1s")
	Logger *slog.Logger
}

// New создаёт новый Scheduler.
func New(cfg Config) *Scheduler {
	spec := cfg.Spec
	if spec == "" {
		spec = "@every 1s"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		ticker: cfg.Ticker,
		spec:   spec,
		logger: logger,
	}
}

// Spec возвращает расписание тиков.
func (s *Scheduler) Spec() string {
	return s.spec
}

// Tick выполняет один тик планировщика.
func (s *Scheduler) Tick(ctx context.Context) int {
	start := time.Now()
	n := s.ticker.Tick(ctx)

	s.logger.Debug("scheduler tick completed",
		"games", n,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return n
}

// Start регистрирует задачу тика и запускает cron.
// Тик, не успевший завершиться до следующего срабатывания, не дублируется.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return ErrAlreadyStarted
	}
	if err := ValidateSpec(s.spec); err != nil {
		return err
	}

	c := cron.New(
		cron.WithParser(cronParser),
		cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddFunc(s.spec, func() { s.Tick(ctx) }); err != nil {
		return err
	}
	c.Start()
	s.cron = c

	s.logger.Info("scheduler started", "spec", s.spec)
	return nil
}

// Stop останавливает cron и ждёт завершения текущего тика.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// Run запускает планировщик и блокируется до отмены ctx.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}
