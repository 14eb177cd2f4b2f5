package get_slot_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

// SlotRepository интерфейс реестра смен
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	List(ctx context.Context) ([]*domain.Slot, error)
}

// ReservationRepository интерфейс журнала бронирований
type ReservationRepository interface {
	ListWithFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
}

// Coordinator ответ "свободна ли смена в этот день" по журналу
type Coordinator interface {
	CheckConflict(ctx context.Context, slotID int64, date time.Time, excludeID int64) (*domain.Conflict, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
