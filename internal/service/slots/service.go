package slots

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	slotRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-RepairService/internal/service/slots/models"
	"github.com/m04kA/SMC-RepairService/pkg/types"
)

// Service сервис справочника смен (только для администратора)
type Service struct {
	slotRepo  SlotRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса смен
func NewService(slotRepo SlotRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		slotRepo:  slotRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// Create создает новую смену
// Название уникально без учета регистра, время не должно пересекаться с другими сменами
func (s *Service) Create(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("Create: creating slot name=%q, %s-%s", req.ShiftName, req.StartTime, req.EndTime)

	slot := &domain.Slot{
		ShiftName: strings.TrimSpace(req.ShiftName),
		StartTime: types.TimeString(strings.TrimSpace(req.StartTime)),
		EndTime:   types.TimeString(strings.TrimSpace(req.EndTime)),
	}

	if err := slot.Validate(); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var created *domain.Slot
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.checkUnique(txCtx, slot, 0); err != nil {
			return err
		}

		var err error
		created, err = s.slotRepo.Create(txCtx, slot)
		if err != nil {
			if errors.Is(err, slotRepo.ErrDuplicateShiftName) {
				return ErrDuplicateShiftName
			}
			return fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		s.logFailure("Create", err)
		return nil, wrapUnknown(err)
	}

	s.logger.Info("Create: successfully created slot id=%d", created.ID)
	return models.FromDomainSlot(created), nil
}

// GetByID получает смену по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.SlotResponse, error) {
	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("GetByID: slot id=%d not found", id)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("GetByID: repository error for slot id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSlot(slot), nil
}

// List возвращает все смены по времени начала
func (s *Service) List(ctx context.Context) (*models.SlotListResponse, error) {
	list, err := s.slotRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d slots", len(list))
	return models.FromDomainSlotList(list), nil
}

// Update обновляет название и время смены; флаг доступности не меняется
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("Update: updating slot id=%d", id)

	var updated *domain.Slot
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		existing, err := s.slotRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		if req.ShiftName != nil {
			existing.ShiftName = strings.TrimSpace(*req.ShiftName)
		}
		if req.StartTime != nil {
			existing.StartTime = types.TimeString(strings.TrimSpace(*req.StartTime))
		}
		if req.EndTime != nil {
			existing.EndTime = types.TimeString(strings.TrimSpace(*req.EndTime))
		}

		if err := existing.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		if err := s.checkUnique(txCtx, existing, id); err != nil {
			return err
		}

		updated, err = s.slotRepo.Update(txCtx, existing)
		if err != nil {
			switch {
			case errors.Is(err, slotRepo.ErrSlotNotFound):
				return ErrSlotNotFound
			case errors.Is(err, slotRepo.ErrDuplicateShiftName):
				return ErrDuplicateShiftName
			}
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		s.logFailure("Update", err)
		return nil, wrapUnknown(err)
	}

	s.logger.Info("Update: successfully updated slot id=%d", id)
	return models.FromDomainSlot(updated), nil
}

// Delete удаляет смену, если на нее не ссылается ни одно бронирование
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting slot id=%d", id)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.slotRepo.GetByID(txCtx, id); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}

		count, err := s.slotRepo.CountReservations(txCtx, id)
		if err != nil {
			return fmt.Errorf("%w: Delete - count reservations: %v", ErrInternal, err)
		}
		if count > 0 {
			return fmt.Errorf("%w: %d reservations", ErrSlotInUse, count)
		}

		if err := s.slotRepo.Delete(txCtx, id); err != nil {
			switch {
			case errors.Is(err, slotRepo.ErrSlotNotFound):
				return ErrSlotNotFound
			case errors.Is(err, slotRepo.ErrSlotReferenced):
				return ErrSlotInUse
			}
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		s.logFailure("Delete", err)
		return wrapUnknown(err)
	}

	s.logger.Info("Delete: successfully deleted slot id=%d", id)
	return nil
}

// checkUnique проверяет название и пересечение времени с остальными сменами
func (s *Service) checkUnique(ctx context.Context, slot *domain.Slot, excludeID int64) error {
	exists, err := s.slotRepo.ExistsByShiftName(ctx, slot.ShiftName, excludeID)
	if err != nil {
		return fmt.Errorf("%w: check shift name: %v", ErrInternal, err)
	}
	if exists {
		return fmt.Errorf("%w: %q", ErrDuplicateShiftName, slot.ShiftName)
	}

	all, err := s.slotRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("%w: list slots: %v", ErrInternal, err)
	}

	for _, other := range all {
		if other.ID == excludeID {
			continue
		}
		if slot.Overlaps(other) {
			return fmt.Errorf("%w: %s (%s)", ErrSlotOverlap, other.ShiftName, other.TimeRange())
		}
	}

	return nil
}

func (s *Service) logFailure(op string, err error) {
	switch {
	case errors.Is(err, ErrInternal):
		s.logger.Error("%s: %v", op, err)
	default:
		s.logger.Warn("%s: %v", op, err)
	}
}

// wrapUnknown оборачивает ошибки транзакции, не относящиеся к сервису
func wrapUnknown(err error) error {
	for _, known := range []error{
		ErrSlotNotFound, ErrDuplicateShiftName, ErrSlotOverlap, ErrSlotInUse, ErrInvalidInput, ErrInternal,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrInternal, err)
}
