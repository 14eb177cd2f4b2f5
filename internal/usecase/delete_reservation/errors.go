package delete_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("delete_reservation: invalid input data")

	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("delete_reservation: reservation not found")

	// ErrReservationInProgress возвращается при попытке удалить бронирование с ремонтом в работе
	ErrReservationInProgress = errors.New("delete_reservation: reservation is in progress")

	// ErrUnavailable возвращается, когда транзакция не уложилась в таймауты; запрос можно повторить
	ErrUnavailable = errors.New("delete_reservation: temporarily unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("delete_reservation: internal error")
)
