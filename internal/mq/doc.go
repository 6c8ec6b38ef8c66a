// Package mq подключает игры к RabbitMQ.
//
// Структура:
//   - connection.go — соединение с переподключением
//   - topology.go   — exchanges, queues, bindings
//   - publisher.go  — конверт Message и публикация
//   - consumer.go   — потребление с ack/nack и DLQ
//   - handler.go    — обработчик command.submit поверх game.Manager
//
// Типы сообщений:
//   - command.submit — команда игре (game_id, key, ship_id)
//   - game.stopped   — игра остановлена
//
// Exchanges:
//   - spacebattle.games  — входящие команды
//   - spacebattle.events — события игр
//   - spacebattle.dlq    — отклонённые команды
package mq
