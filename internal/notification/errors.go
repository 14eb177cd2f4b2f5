package notification

import "errors"

var (
	// ErrNoRecipient у бронирования нет адреса для уведомления
	ErrNoRecipient = errors.New("notification: reservation has no recipient")

	// ErrSendFailed письмо не удалось отправить
	ErrSendFailed = errors.New("notification: send failed")

	// ErrEnqueueFailed задачу не удалось поставить в очередь
	ErrEnqueueFailed = errors.New("notification: enqueue failed")
)
