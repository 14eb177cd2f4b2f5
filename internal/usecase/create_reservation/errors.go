package create_reservation

import (
	"errors"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrSlotNotFound возвращается, когда смена не найдена
	ErrSlotNotFound = errors.New("create_reservation: slot not found")

	// ErrDeviceNotFound возвращается, когда модель устройства не найдена
	ErrDeviceNotFound = errors.New("create_reservation: device not found")

	// ErrSlotAlreadyBooked возвращается, когда смена уже занята на эту дату
	ErrSlotAlreadyBooked = errors.New("create_reservation: slot already booked for date")

	// ErrUnavailable возвращается, когда транзакция не уложилась в таймауты
	// или не прошла из-за конкурентного доступа; запрос можно повторить
	ErrUnavailable = errors.New("create_reservation: temporarily unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)

// ConflictError смена уже занята активным бронированием
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
