package get_slot_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	slotRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-RepairService/pkg/ptr"
)

// UseCase use case занятости смен по датам
// Ответ строится по журналу бронирований; флаг смены возвращается только для справки
type UseCase struct {
	slotRepo        SlotRepository
	reservationRepo ReservationRepository
	coordinator     Coordinator
	txManager       TransactionManager
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	reservationRepo ReservationRepository,
	coordinator Coordinator,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:        slotRepo,
		reservationRepo: reservationRepo,
		coordinator:     coordinator,
		txManager:       txManager,
		logger:          logger,
	}
}

// Execute отвечает, свободна ли смена в указанный день
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*SlotAvailability, error) {
	uc.logger.Info("GetSlotAvailability: slot=%d, date=%s", req.SlotID, req.Date)

	if req.SlotID <= 0 {
		return nil, fmt.Errorf("%w: slotId must be positive", ErrInvalidInput)
	}

	date, err := validateDate(req.Date)
	if err != nil {
		uc.logger.Warn("GetSlotAvailability: validation failed: %v", err)
		return nil, err
	}

	slot, err := uc.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("GetSlotAvailability: slot id=%d not found", req.SlotID)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("GetSlotAvailability: failed to get slot id=%d: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}

	conflict, err := uc.coordinator.CheckConflict(ctx, slot.ID, date, 0)
	if err != nil {
		uc.logger.Error("GetSlotAvailability: failed to check slot id=%d: %v", slot.ID, err)
		return nil, fmt.Errorf("%w: failed to check slot: %v", ErrInternal, err)
	}

	result := newSlotAvailability(slot, date)
	if conflict != nil {
		result.Free = false
		result.ReservationID = ptr.Ptr(conflict.ReservationID)
	}

	return &result, nil
}

// ExecuteForDate возвращает занятость всех смен на дату для страницы записи
func (uc *UseCase) ExecuteForDate(ctx context.Context, req *DayRequest) (*DayResponse, error) {
	uc.logger.Info("GetDayAvailability: date=%s", req.Date)

	date, err := validateDate(req.Date)
	if err != nil {
		uc.logger.Warn("GetDayAvailability: validation failed: %v", err)
		return nil, err
	}

	var (
		slots        []*domain.Slot
		reservations []*domain.Reservation
	)

	// Смены и брони читаем из одного снимка
	err = uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		slots, err = uc.slotRepo.List(txCtx)
		if err != nil {
			return fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
		}

		reservations, err = uc.reservationRepo.ListWithFilter(txCtx, domain.ReservationsFilter{
			StartDate: &date,
			EndDate:   &date,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to list reservations: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		uc.logger.Error("GetDayAvailability: %v", err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return &DayResponse{
		Date:  date,
		Slots: buildDayAvailability(slots, reservations, date),
	}, nil
}

// buildDayAvailability раскладывает активные брони дня по сменам
func buildDayAvailability(slots []*domain.Slot, reservations []*domain.Reservation, date time.Time) []SlotAvailability {
	holders := make(map[int64]int64, len(reservations))
	for _, res := range reservations {
		if !res.IsActive() || !domain.SameDay(res.ScheduledDate, date) {
			continue
		}
		if _, ok := holders[res.SlotID]; !ok {
			holders[res.SlotID] = res.ID
		}
	}

	result := make([]SlotAvailability, 0, len(slots))
	for _, slot := range slots {
		item := newSlotAvailability(slot, date)
		if id, ok := holders[slot.ID]; ok {
			item.Free = false
			item.ReservationID = ptr.Ptr(id)
		}
		result = append(result, item)
	}

	return result
}

func newSlotAvailability(slot *domain.Slot, date time.Time) SlotAvailability {
	return SlotAvailability{
		SlotID:      slot.ID,
		ShiftName:   slot.ShiftName,
		StartTime:   slot.StartTime.String(),
		EndTime:     slot.EndTime.String(),
		Date:        date,
		Free:        true,
		IsAvailable: slot.IsAvailable,
	}
}
