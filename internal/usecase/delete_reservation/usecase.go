package delete_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-RepairService/pkg/metrics"
	"github.com/m04kA/SMC-RepairService/pkg/txmanager"
)

const operation = "delete"

// UseCase use case для удаления бронирования администратором
type UseCase struct {
	reservationRepo ReservationRepository
	coordinator     Coordinator
	txManager       TransactionManager
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	coordinator Coordinator,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		coordinator:     coordinator,
		txManager:       txManager,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute удаляет бронирование и освобождает смену
// Флаг ставится в true без проверки других дат этой смены.
// Отмененное бронирование смену уже не занимает, поэтому флаг не трогаем:
// смену на эту дату мог занять другой клиент.
func (uc *UseCase) Execute(ctx context.Context, id int64) error {
	uc.logger.Info("DeleteReservation: id=%d", id)

	if id <= 0 {
		uc.observe(metrics.OutcomeInvalid)
		return fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		existing, err := uc.reservationRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
		}

		// Ремонт в работе нельзя удалить молча
		if !existing.CanBeDeleted() {
			return ErrReservationInProgress
		}

		if _, err := uc.coordinator.LockSlot(txCtx, existing.SlotID); err != nil {
			return fmt.Errorf("%w: failed to lock slot: %w", ErrInternal, err)
		}

		if err := uc.reservationRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: failed to delete reservation: %w", ErrInternal, err)
		}

		if !existing.IsActive() {
			uc.logger.Info("DeleteReservation: cancelled reservation id=%d removed, slot=%d untouched", id, existing.SlotID)
			return nil
		}

		if err := uc.coordinator.Apply(txCtx, []domain.FlagChange{domain.ReleaseFlag(existing.SlotID)}); err != nil {
			return fmt.Errorf("%w: failed to update slot availability: %w", ErrInternal, err)
		}

		uc.logger.Info("DeleteReservation: reservation id=%d removed, slot=%d released", id, existing.SlotID)
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrReservationNotFound):
			uc.logger.Warn("DeleteReservation: reservation id=%d not found", id)
			uc.observe(metrics.OutcomeNotFound)
			return err
		case errors.Is(err, ErrReservationInProgress):
			uc.logger.Warn("DeleteReservation: reservation id=%d is in progress", id)
			uc.observe(metrics.OutcomeConflict)
			return err
		case errors.Is(err, txmanager.ErrTimeout), errors.Is(err, txmanager.ErrSerialization):
			uc.logger.Error("DeleteReservation: transaction unavailable: %v", err)
			uc.observe(metrics.OutcomeUnavailable)
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		case errors.Is(err, ErrInternal):
			uc.logger.Error("DeleteReservation: %v", err)
			uc.observe(metrics.OutcomeError)
			return err
		default:
			uc.logger.Error("DeleteReservation: transaction failed: %v", err)
			uc.observe(metrics.OutcomeError)
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	uc.observe(metrics.OutcomeSuccess)
	return nil
}

func (uc *UseCase) observe(outcome string) {
	if uc.metrics != nil {
		uc.metrics.ObserveBooking(operation, outcome)
	}
}
