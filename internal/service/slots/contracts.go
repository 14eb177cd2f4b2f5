package slots

import (
	"context"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

// SlotRepository интерфейс реестра смен
// Флаг is_available сервис не пишет: это делает только координатор бронирований
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	List(ctx context.Context) ([]*domain.Slot, error)
	Update(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
	Delete(ctx context.Context, id int64) error
	ExistsByShiftName(ctx context.Context, name string, excludeID int64) (bool, error)
	CountReservations(ctx context.Context, id int64) (int, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
