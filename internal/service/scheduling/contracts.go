package scheduling

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

// ReservationRepository журнал бронирований
type ReservationRepository interface {
	FindActiveOnDay(ctx context.Context, slotID int64, dayStart, dayEnd time.Time, excludeID int64) (*domain.Reservation, error)
}

// SlotRepository реестр смен
type SlotRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Slot, error)
	SetAvailability(ctx context.Context, id int64, available bool) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
