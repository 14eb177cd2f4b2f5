package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

// ReservationRepository интерфейс журнала бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
}

// SlotRepository интерфейс реестра смен
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
}

// CatalogRepository интерфейс справочника устройств и цен
type CatalogRepository interface {
	GetDevice(ctx context.Context, id int64) (*domain.Device, error)
	GetFaultQuotes(ctx context.Context, deviceID int64, faultIDs []int64) ([]*domain.FaultQuote, error)
}

// Coordinator проверка конфликтов и флаг доступности смен
type Coordinator interface {
	LockSlot(ctx context.Context, slotID int64) (*domain.Slot, error)
	CheckConflict(ctx context.Context, slotID int64, date time.Time, excludeID int64) (*domain.Conflict, error)
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
