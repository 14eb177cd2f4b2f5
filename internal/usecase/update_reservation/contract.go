package update_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	"github.com/m04kA/SMC-RepairService/internal/notification"
)

// ReservationRepository интерфейс журнала бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Update(ctx context.Context, res *domain.Reservation) error
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

// Dispatcher отправка уведомлений о смене статуса
type Dispatcher interface {
	Dispatch(ctx context.Context, event notification.StatusChanged) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реализация TimeProvider, использующая реальное время
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
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
