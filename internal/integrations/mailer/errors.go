package mailer

import "errors"

var (
	// ErrInvalidMessage возвращается, когда API отклонил письмо (адрес, пустая тема и т.п.)
	ErrInvalidMessage = errors.New("mailer client: invalid message")

	// ErrUnauthorized возвращается при неверном API ключе
	ErrUnauthorized = errors.New("mailer client: unauthorized")

	// ErrRateLimited возвращается, когда API ограничил частоту отправки
	ErrRateLimited = errors.New("mailer client: rate limited")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("mailer client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("mailer client: invalid response")
)
