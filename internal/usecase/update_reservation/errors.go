package update_reservation

import (
	"errors"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_reservation: invalid input data")

	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("update_reservation: reservation not found")

	// ErrSlotNotFound возвращается, когда новая смена не найдена
	ErrSlotNotFound = errors.New("update_reservation: slot not found")

	// ErrInvalidTransition возвращается при недопустимой смене статуса
	ErrInvalidTransition = errors.New("update_reservation: invalid status transition")

	// ErrNotReschedulable возвращается при попытке перенести завершенное или отмененное бронирование
	ErrNotReschedulable = errors.New("update_reservation: reservation can not be rescheduled")

	// ErrSlotAlreadyBooked возвращается, когда смена уже занята на эту дату
	ErrSlotAlreadyBooked = errors.New("update_reservation: slot already booked for date")

	// ErrUnavailable возвращается, когда транзакция не уложилась в таймауты
	// или не прошла из-за конкурентного доступа; запрос можно повторить
	ErrUnavailable = errors.New("update_reservation: temporarily unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_reservation: internal error")
)

// ConflictError смена уже занята другим активным бронированием
// errors.Is(err, ErrSlotAlreadyBooked) == true
type ConflictError struct {
	Conflict *domain.Conflict
}

func (e *ConflictError) Error() string {
	if e.Conflict == nil {
		return ErrSlotAlreadyBooked.Error()
	}
	return ErrSlotAlreadyBooked.Error() + ": " + e.Conflict.Message()
}

func (e *ConflictError) Unwrap() error {
	return ErrSlotAlreadyBooked
}
