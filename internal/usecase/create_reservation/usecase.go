package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/catalog"
	reservationRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/reservation"
	slotRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-RepairService/internal/service/scheduling"
	"github.com/m04kA/SMC-RepairService/pkg/metrics"
	"github.com/m04kA/SMC-RepairService/pkg/txmanager"
)

const operation = "create"

// UseCase use case для создания бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	slotRepo        SlotRepository
	catalogRepo     CatalogRepository
	coordinator     Coordinator
	txManager       TransactionManager
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	slotRepo SlotRepository,
	catalogRepo CatalogRepository,
	coordinator Coordinator,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		slotRepo:        slotRepo,
		catalogRepo:     catalogRepo,
		coordinator:     coordinator,
		txManager:       txManager,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка конфликта, вставка и запись флага смены выполняются в одной сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%d, slot=%d, date=%s, device=%d, faults=%v",
		req.UserID, req.SlotID, req.ScheduledDate, req.DeviceID, req.FaultIDs)

	// 1. Валидация входных данных
	date, status, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		uc.observe(metrics.OutcomeInvalid)
		return nil, err
	}

	// 2. Проверяем существование смены
	slot, err := uc.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("CreateReservation: slot id=%d not found", req.SlotID)
			uc.observe(metrics.OutcomeNotFound)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("CreateReservation: failed to get slot id=%d: %v", req.SlotID, err)
		uc.observe(metrics.OutcomeError)
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}

	// 3. Проверяем устройство
	device, err := uc.catalogRepo.GetDevice(ctx, req.DeviceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrDeviceNotFound) {
			uc.logger.Warn("CreateReservation: device id=%d not found", req.DeviceID)
			uc.observe(metrics.OutcomeNotFound)
			return nil, ErrDeviceNotFound
		}
		uc.logger.Error("CreateReservation: failed to get device id=%d: %v", req.DeviceID, err)
		uc.observe(metrics.OutcomeError)
		return nil, fmt.Errorf("%w: failed to get device: %v", ErrInternal, err)
	}

	// 4. Каждая неисправность должна иметь цену для этого устройства
	quotes, err := uc.catalogRepo.GetFaultQuotes(ctx, req.DeviceID, req.FaultIDs)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to get fault quotes for device id=%d: %v", req.DeviceID, err)
		uc.observe(metrics.OutcomeError)
		return nil, fmt.Errorf("%w: failed to get fault quotes: %v", ErrInternal, err)
	}

	if err := validateQuotes(req.FaultIDs, quotes); err != nil {
		uc.logger.Warn("CreateReservation: %v", err)
		uc.observe(metrics.OutcomeInvalid)
		return nil, err
	}

	reservation := &domain.Reservation{
		UserID:        req.UserID,
		SlotID:        slot.ID,
		ScheduledDate: date,
		Status:        status,
		// Денормализация данных для отображения и уведомлений
		CustomerName:   strings.TrimSpace(req.CustomerName),
		CustomerEmail:  req.CustomerEmail,
		DeviceID:       device.ID,
		DeviceName:     device.DisplayName(),
		FaultIDs:       req.FaultIDs,
		EstimatedPrice: domain.TotalPrice(quotes),
		Notes:          req.Notes,
		ShiftName:      slot.ShiftName,
		SlotStartTime:  slot.StartTime.String(),
		SlotEndTime:    slot.EndTime.String(),
	}

	var result *domain.Reservation

	// 5. Конфликт, вставка и флаг - одна транзакция
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Блокируем смену: все брони этой смены выстраиваются в очередь
		if _, err := uc.coordinator.LockSlot(txCtx, slot.ID); err != nil {
			if errors.Is(err, scheduling.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: failed to lock slot: %w", ErrInternal, err)
		}

		// 5.2. Ищем активную бронь этой смены на этот день
		conflict, err := uc.coordinator.CheckConflict(txCtx, slot.ID, date, 0)
		if err != nil {
			return fmt.Errorf("%w: failed to check conflict: %w", ErrInternal, err)
		}
		if conflict != nil {
			return &ConflictError{Conflict: conflict}
		}

		// 5.3. Сохраняем бронирование
		created, err := uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrSlotAlreadyBooked) {
				return ErrSlotAlreadyBooked
			}
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		// 5.4. Смена занята
		if err := uc.coordinator.Apply(txCtx, []domain.FlagChange{domain.ClaimFlag(slot.ID)}); err != nil {
			return fmt.Errorf("%w: failed to update slot availability: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, uc.handleTxError(ctx, slot.ID, date, err)
	}

	uc.logger.Info("CreateReservation: successfully created reservation id=%d, slot=%d, date=%s",
		result.ID, result.SlotID, result.ScheduledDate.Format(domain.DateFormat))
	uc.observe(metrics.OutcomeSuccess)

	return toResponse(result), nil
}

// handleTxError переводит ошибку транзакции в ошибку use case
func (uc *UseCase) handleTxError(ctx context.Context, slotID int64, date time.Time, err error) error {
	var conflictErr *ConflictError
	switch {
	case errors.As(err, &conflictErr):
		uc.logger.Warn("CreateReservation: %v", conflictErr)
		uc.observe(metrics.OutcomeConflict)
		return conflictErr

	case errors.Is(err, ErrSlotAlreadyBooked):
		// Гонку проиграли на уникальном индексе. Транзакция уже откатана,
		// поэтому блокирующую бронь перечитываем вне ее
		conflict, readErr := uc.coordinator.CheckConflict(ctx, slotID, date, 0)
		if readErr != nil {
			uc.logger.Error("CreateReservation: failed to read blocking reservation: %v", readErr)
		}
		conflictErr = &ConflictError{Conflict: conflict}
		uc.logger.Warn("CreateReservation: lost race on slot=%d date=%s: %v",
			slotID, date.Format(domain.DateFormat), conflictErr)
		uc.observe(metrics.OutcomeConflict)
		return conflictErr

	case errors.Is(err, ErrSlotNotFound):
		uc.logger.Warn("CreateReservation: slot id=%d disappeared", slotID)
		uc.observe(metrics.OutcomeNotFound)
		return err

	case errors.Is(err, txmanager.ErrTimeout), errors.Is(err, txmanager.ErrSerialization):
		uc.logger.Error("CreateReservation: transaction unavailable: %v", err)
		uc.observe(metrics.OutcomeUnavailable)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)

	case errors.Is(err, ErrInternal):
		uc.logger.Error("CreateReservation: %v", err)
		uc.observe(metrics.OutcomeError)
		return err

	default:
		uc.logger.Error("CreateReservation: transaction failed: %v", err)
		uc.observe(metrics.OutcomeError)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

func (uc *UseCase) observe(outcome string) {
	if uc.metrics != nil {
		uc.metrics.ObserveBooking(operation, outcome)
	}
}

func toResponse(r *domain.Reservation) *Response {
	return &Response{
		ID:             r.ID,
		UserID:         r.UserID,
		SlotID:         r.SlotID,
		ScheduledDate:  r.ScheduledDate,
		Status:         string(r.Status),
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
