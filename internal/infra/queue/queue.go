package queue

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/m04kA/SMC-RepairService/internal/config"
	"github.com/m04kA/SMC-RepairService/internal/notification"
)

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
	Fatal(format string, v ...interface{})
}

// RedisClientOpt параметры подключения asynq к redis
func RedisClientOpt(cfg config.QueueConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

// NewClient создает клиента для постановки задач
func NewClient(cfg config.QueueConfig) *asynq.Client {
	return asynq.NewClient(RedisClientOpt(cfg))
}

// NewServer создает сервер воркеров; логи asynq идут в наш логгер
func NewServer(cfg config.QueueConfig, logger Logger) *asynq.Server {
	return asynq.NewServer(RedisClientOpt(cfg), asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues: map[string]int{
			notification.QueueName: 1,
		},
		Logger: NewLogger(logger),
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			logger.Error("queue: task %s failed (attempt %d/%d): %v", task.Type(), retried+1, maxRetry+1, err)
		}),
	})
}

// asynqLogger адаптер printf-логгера к интерфейсу asynq.Logger
type asynqLogger struct {
	logger Logger
}

// NewLogger оборачивает логгер для asynq
func NewLogger(logger Logger) asynq.Logger {
	return &asynqLogger{logger: logger}
}

func (l *asynqLogger) Debug(args ...interface{}) { l.logger.Debug("asynq: %s", join(args)) }
func (l *asynqLogger) Info(args ...interface{})  { l.logger.Info("asynq: %s", join(args)) }
func (l *asynqLogger) Warn(args ...interface{})  { l.logger.Warn("asynq: %s", join(args)) }
func (l *asynqLogger) Error(args ...interface{}) { l.logger.Error("asynq: %s", join(args)) }
func (l *asynqLogger) Fatal(args ...interface{}) { l.logger.Fatal("asynq: %s", join(args)) }

func join(args []interface{}) string {
	return fmt.Sprint(args...)
}
