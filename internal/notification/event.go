package notification

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

// TypeStatusChanged тип asynq задачи уведомления о смене статуса
const TypeStatusChanged = "reservation:status_changed"

// QueueName очередь asynq для писем клиентам
const QueueName = "notifications"

// StatusChanged событие смены статуса бронирования
type StatusChanged struct {
	ReservationID int64                    `json:"reservationId"`
	Recipient     string                   `json:"recipient"`
	CustomerName  string                   `json:"customerName"`
	OldStatus     domain.ReservationStatus `json:"oldStatus"`
	NewStatus     domain.ReservationStatus `json:"newStatus"`
	ShiftName     string                   `json:"shiftName"`
	StartTime     string                   `json:"startTime"`
	EndTime       string                   `json:"endTime"`
	Date          string                   `json:"date"` // YYYY-MM-DD
	DeviceName    string                   `json:"deviceName"`
	OccurredAt    time.Time                `json:"occurredAt"`
}

// NewStatusChanged собирает событие по бронированию после обновления
func NewStatusChanged(res *domain.Reservation, oldStatus domain.ReservationStatus, now time.Time) StatusChanged {
	return StatusChanged{
		ReservationID: res.ID,
		Recipient:     res.CustomerEmail,
		CustomerName:  res.CustomerName,
		OldStatus:     oldStatus,
		NewStatus:     res.Status,
		ShiftName:     res.ShiftName,
		StartTime:     res.SlotStartTime,
		EndTime:       res.SlotEndTime,
		Date:          res.ScheduledDate.Format(domain.DateFormat),
		DeviceName:    res.DeviceName,
		OccurredAt:    now,
	}
}

// TaskID ключ дедупликации: одно и то же событие не попадает в очередь дважды,
// пока предыдущая задача еще хранится в redis
func TaskID(event StatusChanged) string {
	return fmt.Sprintf("status_changed:%d:%s:%s:%d",
		event.ReservationID, event.OldStatus, event.NewStatus, event.OccurredAt.UnixNano())
}

// NewStatusChangedTask сериализует событие в asynq задачу
func NewStatusChangedTask(event StatusChanged, maxRetry int) (*asynq.Task, []asynq.Option, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal status changed event: %w", err)
	}

	task := asynq.NewTask(TypeStatusChanged, payload)
	opts := []asynq.Option{
		asynq.TaskID(TaskID(event)),
		asynq.Queue(QueueName),
		asynq.MaxRetry(maxRetry),
		asynq.Timeout(30 * time.Second),
	}

	return task, opts, nil
}

// ParseStatusChangedTask достает событие из задачи
func ParseStatusChangedTask(task *asynq.Task) (StatusChanged, error) {
	var event StatusChanged
	if err := json.Unmarshal(task.Payload(), &event); err != nil {
		return StatusChanged{}, fmt.Errorf("invalid %s payload: %w", TypeStatusChanged, err)
	}
	return event, nil
}
