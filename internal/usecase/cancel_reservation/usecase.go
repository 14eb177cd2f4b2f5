package cancel_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-RepairService/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-RepairService/pkg/ptr"
)

// UseCase use case для отмены бронирования клиентом
type UseCase struct {
	reservationRepo ReservationRepository
	updater         Updater
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(reservationRepo ReservationRepository, updater Updater, logger Logger) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		updater:         updater,
		logger:          logger,
	}
}

// Execute отменяет бронирование клиента
// Отмена идет тем же транзакционным путем, что и изменение администратором, с уведомлением
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*update_reservation.Response, error) {
	uc.logger.Info("CancelReservation: id=%d, user=%d", req.ID, req.UserID)

	if req.ID <= 0 || req.UserID <= 0 {
		uc.logger.Warn("CancelReservation: invalid input id=%d, user=%d", req.ID, req.UserID)
		return nil, fmt.Errorf("%w: id and userId must be positive", ErrInvalidInput)
	}

	// 1. Проверяем владельца и стадию
	existing, err := uc.reservationRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("CancelReservation: reservation id=%d not found", req.ID)
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("CancelReservation: failed to get reservation id=%d: %v", req.ID, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
	}

	if existing.UserID != req.UserID {
		uc.logger.Warn("CancelReservation: user=%d is not the owner of reservation id=%d", req.UserID, req.ID)
		return nil, ErrAccessDenied
	}

	if !existing.CanBeCancelledByCustomer() {
		uc.logger.Warn("CancelReservation: reservation id=%d has status %s", req.ID, existing.Status)
		return nil, fmt.Errorf("%w: status is %s", ErrCannotCancel, existing.Status)
	}

	// 2. Отмена с освобождением смены
	resp, err := uc.updater.Execute(ctx, &update_reservation.Request{
		ID:     req.ID,
		Status: ptr.Ptr(string(domain.StatusCancelled)),
		Notify: true,
	})
	if err != nil {
		switch {
		case errors.Is(err, update_reservation.ErrReservationNotFound):
			return nil, ErrReservationNotFound
		case errors.Is(err, update_reservation.ErrInvalidTransition):
			// Статус успел смениться между проверкой и транзакцией
			return nil, fmt.Errorf("%w: %v", ErrCannotCancel, err)
		case errors.Is(err, update_reservation.ErrUnavailable):
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		default:
			uc.logger.Error("CancelReservation: failed to cancel reservation id=%d: %v", req.ID, err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("CancelReservation: reservation id=%d cancelled by user=%d", req.ID, req.UserID)

	return resp, nil
}
