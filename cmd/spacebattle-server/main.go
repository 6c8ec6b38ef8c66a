// SpaceBattle server — игровой сервер: HTTP/WS API, приём команд из
// RabbitMQ и периодические тики игр.
//
// Конфигурация — переменные окружения (см. internal/config).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/shaiso/SpaceBattle/internal/api"
	"github.com/shaiso/SpaceBattle/internal/config"
	"github.com/shaiso/SpaceBattle/internal/game"
	"github.com/shaiso/SpaceBattle/internal/ioc"
	"github.com/shaiso/SpaceBattle/internal/mq"
	"github.com/shaiso/SpaceBattle/internal/scheduler"
	"github.com/shaiso/SpaceBattle/internal/telemetry"
)

var startTime = time.Now()

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger, err := telemetry.SetupLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		slog.Error("setup logger", "error", err)
		os.Exit(1)
	}
	logger.Info("starting spacebattle-server", "addr", cfg.Addr(), "policy", cfg.CommandPolicy)

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("stopped")
}

func run(cfg config.Server, logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	container := ioc.New(ioc.Config{Logger: logger})

	// RabbitMQ необязателен: без него работают только HTTP и WS.
	var (
		conn      *mq.Connection
		publisher *mq.Publisher
		notifier  game.Notifier
	)
	if cfg.RabbitMQURL != "" {
		c, err := mq.NewConnection(cfg.RabbitMQURL, logger)
		if err != nil {
			return fmt.Errorf("connect rabbitmq: %w", err)
		}
		conn = c
		defer conn.Close()

		if err := mq.SetupTopology(ctx, conn); err != nil {
			return fmt.Errorf("setup topology: %w", err)
		}
		logger.Debug(mq.TopologyInfo())

		publisher = mq.NewPublisher(conn, logger)
		notifier = publisher
	}

	games := game.New(game.Config{
		Container: container,
		Policy:    cfg.CommandPolicy,
		Notifier:  notifier,
		Logger:    logger,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if conn != nil && !conn.IsConnected() {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprint(w, "rabbitmq disconnected")
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("/metrics", promhttp.Handler())

	api.NewHandler(api.Config{Games: games, Logger: logger}).RegisterRoutes(mux)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if conn != nil {
		consumer := mq.NewConsumer(conn, mq.ConsumerConfig{
			Queue:   mq.QueueGameCommands,
			Handler: mq.CommandHandler(games),
			Logger:  logger,
		})
		g.Go(func() error { return consumer.Run(gctx) })
	}

	if cfg.TickEnabled {
		sched := scheduler.New(scheduler.Config{
			Ticker: games,
			Spec:   cfg.TickSpec,
			Logger: logger,
		})
		g.Go(func() error { return sched.Run(gctx) })
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()

		httpErr := server.Shutdown(shutdownCtx)
		gamesErr := games.Shutdown(shutdownCtx, cfg.SoftStopOnShutdown)
		return errors.Join(httpErr, gamesErr)
	})

	return g.Wait()
}
