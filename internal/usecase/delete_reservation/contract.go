package delete_reservation

import (
	"context"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

// ReservationRepository интерфейс журнала бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Delete(ctx context.Context, id int64) error
}

// Coordinator флаг доступности смен
type Coordinator interface {
	LockSlot(ctx context.Context, slotID int64) (*domain.Slot, error)
	Apply(ctx context.Context, changes []domain.FlagChange) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчик исходов операций
type Metrics interface {
	ObserveBooking(operation, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
