package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/m04kA/SMC-RepairService/internal/integrations/mailer"
	"github.com/m04kA/SMC-RepairService/internal/notification"
)

// Sender доставляет уведомление получателю
type Sender interface {
	SendStatusChanged(ctx context.Context, event notification.StatusChanged) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Handler обработчик задач уведомлений
type Handler struct {
	sender Sender
	logger Logger
}

// NewHandler создает обработчик задач
func NewHandler(sender Sender, logger Logger) *Handler {
	return &Handler{sender: sender, logger: logger}
}

// Register регистрирует обработчики в mux
func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(notification.TypeStatusChanged, h.HandleStatusChanged)
}

// HandleStatusChanged отправляет письмо о смене статуса
// Ошибки, которые не исправятся повтором, помечаются SkipRetry
func (h *Handler) HandleStatusChanged(ctx context.Context, task *asynq.Task) error {
	event, err := notification.ParseStatusChangedTask(task)
	if err != nil {
		h.logger.Error("HandleStatusChanged: bad payload: %v", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	h.logger.Info("HandleStatusChanged: reservation=%d, %s -> %s", event.ReservationID, event.OldStatus, event.NewStatus)

	err = h.sender.SendStatusChanged(ctx, event)
	switch {
	case err == nil:
		h.logger.Info("HandleStatusChanged: email sent for reservation=%d", event.ReservationID)
		return nil

	case errors.Is(err, notification.ErrNoRecipient):
		h.logger.Warn("HandleStatusChanged: reservation=%d has no email, skipping", event.ReservationID)
		return nil

	case errors.Is(err, mailer.ErrInvalidMessage), errors.Is(err, mailer.ErrUnauthorized):
		h.logger.Error("HandleStatusChanged: reservation=%d: %v", event.ReservationID, err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)

	default:
		h.logger.Warn("HandleStatusChanged: reservation=%d, will retry: %v", event.ReservationID, err)
		return err
	}
}
