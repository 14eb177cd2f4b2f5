package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	slotRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/slot"
)

// Coordinator проверяет конфликты бронирований и ведет флаг доступности смен.
// Единственное место, которое пишет slots.is_available.
//
// Методы, меняющие состояние, рассчитаны на вызов внутри транзакции (txCtx):
// проверка конфликта, запись бронирования и запись флага коммитятся вместе.
type Coordinator struct {
	reservations ReservationRepository
	slots        SlotRepository
	logger       Logger
}

// NewCoordinator создает новый координатор
func NewCoordinator(reservations ReservationRepository, slots SlotRepository, logger Logger) *Coordinator {
	return &Coordinator{
		reservations: reservations,
		slots:        slots,
		logger:       logger,
	}
}

// LockSlot блокирует строку смены до конца транзакции
// Все изменения бронирований одной смены выстраиваются в очередь на этой блокировке
func (c *Coordinator) LockSlot(ctx context.Context, slotID int64) (*domain.Slot, error) {
	slot, err := c.slots.GetByIDForUpdate(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("%w: LockSlot - slot=%d: %w", ErrInternal, slotID, err)
	}
	return slot, nil
}

// CheckConflict ищет активное бронирование смены slotID в календарный день date.
// excludeID исключает само обновляемое бронирование.
// Возвращает nil, если смена в этот день свободна.
func (c *Coordinator) CheckConflict(ctx context.Context, slotID int64, date time.Time, excludeID int64) (*domain.Conflict, error) {
	dayStart, dayEnd := domain.DayBounds(date)

	blocking, err := c.reservations.FindActiveOnDay(ctx, slotID, dayStart, dayEnd, excludeID)
	if err != nil {
		return nil, fmt.Errorf("%w: CheckConflict - slot=%d, date=%s: %w",
			ErrInternal, slotID, dayStart.Format(domain.DateFormat), err)
	}
	if blocking == nil {
		return nil, nil
	}

	c.logger.Warn("CheckConflict: slot=%d on %s is held by reservation=%d",
		slotID, dayStart.Format(domain.DateFormat), blocking.ID)

	return domain.NewConflict(blocking), nil
}

// IsFree отвечает, свободна ли смена в конкретный день (по журналу, а не по флагу)
func (c *Coordinator) IsFree(ctx context.Context, slotID int64, date time.Time) (bool, error) {
	conflict, err := c.CheckConflict(ctx, slotID, date, 0)
	if err != nil {
		return false, err
	}
	return conflict == nil, nil
}

// Apply записывает изменения флага доступности смен
func (c *Coordinator) Apply(ctx context.Context, changes []domain.FlagChange) error {
	for _, change := range changes {
		if err := c.slots.SetAvailability(ctx, change.SlotID, change.Available); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: Apply - slot=%d available=%t: %w",
				ErrInternal, change.SlotID, change.Available, err)
		}
		c.logger.Info("Apply: slot=%d isAvailable=%t", change.SlotID, change.Available)
	}
	return nil
}
