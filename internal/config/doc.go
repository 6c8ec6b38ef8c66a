// Package config загружает конфигурацию сервисов из переменных окружения.
package config
