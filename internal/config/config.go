package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Политики обработки ошибок команд игры.
const (
	PolicyNone       = "none"
	PolicyLogOnly    = "log_only"
	PolicyRetryOnce  = "retry_once"
	PolicyRetryTwice = "retry_twice"
)

// ErrInvalidConfig — значение конфигурации вне допустимого набора.
var ErrInvalidConfig = errors.New("invalid config")

// Server — конфигурация spacebattle-server.
type Server struct {
	HTTPPort           int           `env:"SPACEBATTLE_PORT"      envDefault:"8090"`
	RabbitMQURL        string        `env:"RABBITMQ_URL"`
	TickSpec           string        `env:"TICK_SPEC"             envDefault:"@every 1s"`
	TickEnabled        bool          `env:"TICK_ENABLED"          envDefault:"true"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT"      envDefault:"10s"`
	SoftStopOnShutdown bool          `env:"SOFT_STOP_ON_SHUTDOWN" envDefault:"true"`
	CommandPolicy      string        `env:"COMMAND_POLICY"        envDefault:"retry_once"`
	LogLevel           string        `env:"LOG_LEVEL"             envDefault:"INFO"`
	LogFormat          string        `env:"LOG_FORMAT"            envDefault:"json"`
}

// CLI — конфигурация spacebattle-cli.
type CLI struct {
	APIURL string `env:"SPACEBATTLE_API_URL" envDefault:"http://localhost:8090"`
}

// ParseEnv загружает target из переменных окружения.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadServer загружает и проверяет конфигурацию сервера.
func LoadServer() (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate проверяет значения, которые env не может проверить сам.
func (s Server) Validate() error {
	if s.HTTPPort <= 0 || s.HTTPPort > 65535 {
		return fmt.Errorf("%w: SPACEBATTLE_PORT=%d", ErrInvalidConfig, s.HTTPPort)
	}
	if s.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: SHUTDOWN_TIMEOUT=%s", ErrInvalidConfig, s.ShutdownTimeout)
	}
	switch s.CommandPolicy {
	case PolicyNone, PolicyLogOnly, PolicyRetryOnce, PolicyRetryTwice:
	default:
		return fmt.Errorf("%w: COMMAND_POLICY=%q", ErrInvalidConfig, s.CommandPolicy)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return fmt.Errorf("%w: LOG_LEVEL=%q", ErrInvalidConfig, s.LogLevel)
	}
	switch strings.ToLower(s.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: LOG_FORMAT=%q", ErrInvalidConfig, s.LogFormat)
	}
	return nil
}

// Addr возвращает адрес HTTP-сервера.
func (s Server) Addr() string {
	return fmt.Sprintf(":%d", s.HTTPPort)
}
