package cancel_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_reservation: invalid input data")

	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("cancel_reservation: reservation not found")

	// ErrAccessDenied возвращается, когда клиент пытается отменить чужое бронирование
	ErrAccessDenied = errors.New("cancel_reservation: access denied")

	// ErrCannotCancel возвращается, когда ремонт уже начат или завершен
	ErrCannotCancel = errors.New("cancel_reservation: reservation can not be cancelled at this stage")

	// ErrUnavailable возвращается, когда транзакция не уложилась в таймауты; запрос можно повторить
	ErrUnavailable = errors.New("cancel_reservation: temporarily unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_reservation: internal error")
)
