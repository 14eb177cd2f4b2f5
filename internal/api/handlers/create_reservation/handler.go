package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RepairService/internal/api/handlers"
	"github.com/m04kA/SMC-RepairService/internal/api/middleware"
	"github.com/m04kA/SMC-RepairService/internal/domain"
	createReservation "github.com/m04kA/SMC-RepairService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequest   = "некорректный формат запроса"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgSlotNotFound     = "смена не найдена"
	msgDeviceNotFound   = "модель устройства не найдена"
	msgSlotBooked       = "смена уже занята на эту дату"
	msgTryAgain         = "сервис временно недоступен, повторите запрос"
	msgInvalidInputPref = "некорректные данные: "
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequest)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		var conflictErr *createReservation.ConflictError
		switch {
		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInputPref+handlers.Detail(err, createReservation.ErrInvalidInput))

		case errors.Is(err, createReservation.ErrSlotNotFound):
			h.logger.Warn("POST /reservations - Slot not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, createReservation.ErrDeviceNotFound):
			h.logger.Warn("POST /reservations - Device not found: device_id=%d", req.DeviceID)
			handlers.RespondNotFound(w, msgDeviceNotFound)

		case errors.As(err, &conflictErr):
			h.logger.Warn("POST /reservations - Slot already booked: slot_id=%d, date=%s", req.SlotID, req.ScheduledDate)
			handlers.RespondConflict(w, msgSlotBooked, conflictErr.Conflict)

		case errors.Is(err, createReservation.ErrSlotAlreadyBooked):
			h.logger.Warn("POST /reservations - Slot already booked: slot_id=%d, date=%s", req.SlotID, req.ScheduledDate)
			handlers.RespondConflict(w, msgSlotBooked, nil)

		case errors.Is(err, createReservation.ErrUnavailable):
			h.logger.Warn("POST /reservations - Transaction unavailable: %v", err)
			handlers.RespondUnavailable(w, msgTryAgain)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created: id=%d, user_id=%d, slot_id=%d, date=%s",
		result.ID, result.UserID, result.SlotID, result.ScheduledDate.Format(domain.DateFormat))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
