package update_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-RepairService/internal/notification"
	"github.com/m04kA/SMC-RepairService/internal/service/scheduling"
	"github.com/m04kA/SMC-RepairService/pkg/metrics"
	"github.com/m04kA/SMC-RepairService/pkg/txmanager"
)

const operation = "update"

// UseCase use case для изменения бронирования администратором
type UseCase struct {
	reservationRepo ReservationRepository
	coordinator     Coordinator
	txManager       TransactionManager
	dispatcher      Dispatcher
	timeProvider    TimeProvider
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	coordinator Coordinator,
	txManager TransactionManager,
	dispatcher Dispatcher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		coordinator:     coordinator,
		txManager:       txManager,
		dispatcher:      dispatcher,
		timeProvider:    &RealTimeProvider{},
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute выполняет use case изменения бронирования
//
// Запись бронирования и флагов смен коммитятся вместе. Уведомление отправляется
// после коммита и на результат не влияет.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateReservation: id=%d, status=%v, slot=%v, date=%v, notify=%t",
		req.ID, deref(req.Status), deref(req.SlotID), deref(req.ScheduledDate), req.Notify)

	// 1. Валидация входных данных
	parsed, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("UpdateReservation: validation failed: %v", err)
		uc.observe(metrics.OutcomeInvalid)
		return nil, err
	}

	var (
		before *domain.Reservation
		result *domain.Reservation
	)

	// 2. Все шаги с БД в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Загружаем текущее состояние
		existing, err := uc.reservationRepo.GetByID(txCtx, req.ID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
		}

		// 2.2. Итоговые значения: новые, если переданы, иначе текущие
		target := *existing
		if parsed.status != nil {
			target.Status = *parsed.status
		}
		if parsed.slotID != nil {
			target.SlotID = *parsed.slotID
		}
		if parsed.date != nil {
			target.ScheduledDate = *parsed.date
		}
		if req.Notes != nil {
			target.Notes = req.Notes
		}

		if !domain.CanTransition(existing.Status, target.Status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, existing.Status, target.Status)
		}

		moved := target.SlotID != existing.SlotID || !domain.SameDay(target.ScheduledDate, existing.ScheduledDate)
		if moved && !existing.CanBeRescheduled() {
			return fmt.Errorf("%w: status is %s", ErrNotReschedulable, existing.Status)
		}

		// 2.3. Блокируем затронутые смены
		for _, slotID := range slotsToLock(existing.SlotID, target.SlotID) {
			if _, err := uc.coordinator.LockSlot(txCtx, slotID); err != nil {
				if errors.Is(err, scheduling.ErrSlotNotFound) {
					return ErrSlotNotFound
				}
				return fmt.Errorf("%w: failed to lock slot: %w", ErrInternal, err)
			}
		}

		// 2.4. Конфликт проверяем только при переносе; сама бронь не считается
		if moved && target.Status.IsActive() {
			conflict, err := uc.coordinator.CheckConflict(txCtx, target.SlotID, target.ScheduledDate, existing.ID)
			if err != nil {
				return fmt.Errorf("%w: failed to check conflict: %w", ErrInternal, err)
			}
			if conflict != nil {
				return &ConflictError{Conflict: conflict}
			}
		}

		// 2.5. Сохраняем
		if err := uc.reservationRepo.Update(txCtx, &target); err != nil {
			if errors.Is(err, reservationRepo.ErrSlotAlreadyBooked) {
				return ErrSlotAlreadyBooked
			}
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: failed to update reservation: %w", ErrInternal, err)
		}

		// 2.6. Флаги смен
		changes := domain.ReconcileFlags(
			domain.ReservationState{SlotID: existing.SlotID, Status: existing.Status},
			domain.ReservationState{SlotID: target.SlotID, Status: target.Status},
		)
		if err := uc.coordinator.Apply(txCtx, changes); err != nil {
			return fmt.Errorf("%w: failed to update slot availability: %w", ErrInternal, err)
		}

		// 2.7. Перечитываем, чтобы вернуть данные новой смены
		updated, err := uc.reservationRepo.GetByID(txCtx, req.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to reload reservation: %w", ErrInternal, err)
		}

		before = existing
		result = updated
		return nil
	})

	if err != nil {
		return nil, uc.handleTxError(ctx, req, err)
	}

	uc.logger.Info("UpdateReservation: successfully updated reservation id=%d: status %s -> %s, slot %d -> %d, date %s -> %s",
		result.ID, before.Status, result.Status, before.SlotID, result.SlotID,
		before.ScheduledDate.Format(domain.DateFormat), result.ScheduledDate.Format(domain.DateFormat))
	uc.observe(metrics.OutcomeSuccess)

	// 3. Уведомление после коммита, ошибки только логируем
	if req.Notify && before.Status != result.Status {
		uc.notify(ctx, result, before.Status)
	}

	return toResponse(result, before.Status), nil
}

func (uc *UseCase) notify(ctx context.Context, res *domain.Reservation, oldStatus domain.ReservationStatus) {
	if uc.dispatcher == nil {
		return
	}

	event := notification.NewStatusChanged(res, oldStatus, uc.timeProvider.Now())
	if err := uc.dispatcher.Dispatch(ctx, event); err != nil {
		uc.logger.Error("UpdateReservation: failed to dispatch notification for reservation id=%d: %v", res.ID, err)
		return
	}

	uc.logger.Info("UpdateReservation: notification dispatched for reservation id=%d", res.ID)
}

// handleTxError переводит ошибку транзакции в ошибку use case
func (uc *UseCase) handleTxError(ctx context.Context, req *Request, err error) error {
	var conflictErr *ConflictError
	switch {
	case errors.As(err, &conflictErr):
		uc.logger.Warn("UpdateReservation: %v", conflictErr)
		uc.observe(metrics.OutcomeConflict)
		return conflictErr

	case errors.Is(err, ErrSlotAlreadyBooked):
		// Транзакция откатана, блокирующую бронь перечитываем вне ее
		conflictErr = &ConflictError{Conflict: uc.readBlocking(ctx, req)}
		uc.logger.Warn("UpdateReservation: lost race for reservation id=%d: %v", req.ID, conflictErr)
		uc.observe(metrics.OutcomeConflict)
		return conflictErr

	case errors.Is(err, ErrReservationNotFound), errors.Is(err, ErrSlotNotFound):
		uc.logger.Warn("UpdateReservation: %v", err)
		uc.observe(metrics.OutcomeNotFound)
		return err

	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrNotReschedulable):
		uc.logger.Warn("UpdateReservation: %v", err)
		uc.observe(metrics.OutcomeInvalid)
		return err

	case errors.Is(err, txmanager.ErrTimeout), errors.Is(err, txmanager.ErrSerialization):
		uc.logger.Error("UpdateReservation: transaction unavailable: %v", err)
		uc.observe(metrics.OutcomeUnavailable)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)

	case errors.Is(err, ErrInternal):
		uc.logger.Error("UpdateReservation: %v", err)
		uc.observe(metrics.OutcomeError)
		return err

	default:
		uc.logger.Error("UpdateReservation: transaction failed: %v", err)
		uc.observe(metrics.OutcomeError)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

// readBlocking находит бронь, занявшую целевую смену и дату
func (uc *UseCase) readBlocking(ctx context.Context, req *Request) *domain.Conflict {
	existing, err := uc.reservationRepo.GetByID(ctx, req.ID)
	if err != nil {
		uc.logger.Error("UpdateReservation: failed to reload reservation id=%d: %v", req.ID, err)
		return nil
	}

	slotID := existing.SlotID
	if req.SlotID != nil {
		slotID = *req.SlotID
	}
	date := existing.ScheduledDate
	if req.ScheduledDate != nil {
		if parsed, err := domain.ParseScheduledDate(*req.ScheduledDate); err == nil {
			date = parsed
		}
	}

	conflict, err := uc.coordinator.CheckConflict(ctx, slotID, date, req.ID)
	if err != nil {
		uc.logger.Error("UpdateReservation: failed to read blocking reservation: %v", err)
		return nil
	}
	return conflict
}

func (uc *UseCase) observe(outcome string) {
	if uc.metrics != nil {
		uc.metrics.ObserveBooking(operation, outcome)
	}
}

func deref[T any](p *T) interface{} {
	if p == nil {
		return "-"
	}
	return *p
}

func toResponse(r *domain.Reservation, previous domain.ReservationStatus) *Response {
	return &Response{
		ID:             r.ID,
		UserID:         r.UserID,
		SlotID:         r.SlotID,
		ScheduledDate:  r.ScheduledDate,
		Status:         string(r.Status),
		PreviousStatus: string(previous),
		CustomerName:   r.CustomerName,
		CustomerEmail:  r.CustomerEmail,
		DeviceID:       r.DeviceID,
		DeviceName:     r.DeviceName,
		FaultIDs:       r.FaultIDs,
		EstimatedPrice: r.EstimatedPrice,
		Notes:          r.Notes,
		ShiftName:      r.ShiftName,
		StartTime:      r.SlotStartTime,
		EndTime:        r.SlotEndTime,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

