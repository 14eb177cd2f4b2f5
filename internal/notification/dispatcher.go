package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hibiken/asynq"
)

// Sender доставляет уведомление получателю
type Sender interface {
	SendStatusChanged(ctx context.Context, event StatusChanged) error
}

// Enqueuer ставит задачи в очередь (*asynq.Client)
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// QueueDispatcher публикует событие в очередь, письмо отправляет воркер
type QueueDispatcher struct {
	queue    Enqueuer
	maxRetry int
	logger   Logger
}

// NewQueueDispatcher создает диспетчер поверх очереди
func NewQueueDispatcher(queue Enqueuer, maxRetry int, logger Logger) *QueueDispatcher {
	return &QueueDispatcher{queue: queue, maxRetry: maxRetry, logger: logger}
}

// Dispatch ставит событие в очередь
func (d *QueueDispatcher) Dispatch(ctx context.Context, event StatusChanged) error {
	task, opts, err := NewStatusChangedTask(event, d.maxRetry)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEnqueueFailed, err)
	}

	info, err := d.queue.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		d.logger.Warn("Dispatch: duplicate %s for reservation=%d skipped", TypeStatusChanged, event.ReservationID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: reservation=%d: %w", ErrEnqueueFailed, event.ReservationID, err)
	}

	d.logger.Info("Dispatch: enqueued %s task=%s for reservation=%d", TypeStatusChanged, info.ID, event.ReservationID)
	return nil
}

// DirectDispatcher отправляет письмо сам, в отдельной горутине со своим таймаутом.
// Используется, когда очередь выключена. Ошибки отправки только логируются.
type DirectDispatcher struct {
	sender  Sender
	timeout time.Duration
	logger  Logger
	wg      sync.WaitGroup
}

// NewDirectDispatcher создает диспетчер без очереди
func NewDirectDispatcher(sender Sender, timeout time.Duration, logger Logger) *DirectDispatcher {
	return &DirectDispatcher{sender: sender, timeout: timeout, logger: logger}
}

// Dispatch запускает отправку и сразу возвращает управление
// Контекст запроса не используется: отправка переживает ответ клиенту
func (d *DirectDispatcher) Dispatch(_ context.Context, event StatusChanged) error {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.sender.SendStatusChanged(ctx, event); err != nil {
			d.logger.Error("Dispatch: failed to notify reservation=%d: %v", event.ReservationID, err)
			return
		}
		d.logger.Info("Dispatch: notified reservation=%d (%s -> %s)", event.ReservationID, event.OldStatus, event.NewStatus)
	}()
	return nil
}

// Wait дожидается завершения начатых отправок (graceful shutdown)
func (d *DirectDispatcher) Wait() {
	d.wg.Wait()
}
