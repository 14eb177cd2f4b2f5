package update_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RepairService/internal/api/handlers"
	updateReservation "github.com/m04kA/SMC-RepairService/internal/usecase/update_reservation"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequest       = "некорректный формат запроса"
	msgInvalidInputPrefix   = "некорректные данные: "
	msgNotFound             = "бронирование не найдено"
	msgSlotNotFound         = "смена не найдена"
	msgInvalidTransition    = "недопустимая смена статуса"
	msgNotReschedulable     = "завершенное или отмененное бронирование нельзя перенести"
	msgSlotBooked           = "смена уже занята на эту дату"
	msgTryAgain             = "сервис временно недоступен, повторите запрос"
)

type Handler struct {
	useCase UpdateReservationUseCase
	logger  Logger
}

func NewHandler(useCase UpdateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{id} (админка)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id} - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req UpdateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequest)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(id))
	if err != nil {
		var conflictErr *updateReservation.ConflictError
		switch {
		case errors.Is(err, updateReservation.ErrInvalidInput):
			h.logger.Warn("PATCH /reservations/{id} - Invalid input: id=%d, error=%v", id, err)
			handlers.RespondBadRequest(w, msgInvalidInputPrefix+handlers.Detail(err, updateReservation.ErrInvalidInput))

		case errors.Is(err, updateReservation.ErrInvalidTransition):
			h.logger.Warn("PATCH /reservations/{id} - Invalid transition: id=%d, error=%v", id, err)
			handlers.RespondBadRequest(w, msgInvalidTransition+": "+handlers.Detail(err, updateReservation.ErrInvalidTransition))

		case errors.Is(err, updateReservation.ErrNotReschedulable):
			h.logger.Warn("PATCH /reservations/{id} - Not reschedulable: id=%d", id)
			handlers.RespondBadRequest(w, msgNotReschedulable)

		case errors.Is(err, updateReservation.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{id} - Reservation not found: id=%d", id)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateReservation.ErrSlotNotFound):
			h.logger.Warn("PATCH /reservations/{id} - Slot not found: id=%d", id)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.As(err, &conflictErr):
			h.logger.Warn("PATCH /reservations/{id} - Slot already booked: id=%d, error=%v", id, err)
			handlers.RespondConflict(w, msgSlotBooked, conflictErr.Conflict)

		case errors.Is(err, updateReservation.ErrSlotAlreadyBooked):
			h.logger.Warn("PATCH /reservations/{id} - Slot already booked: id=%d", id)
			handlers.RespondConflict(w, msgSlotBooked, nil)

		case errors.Is(err, updateReservation.ErrUnavailable):
			h.logger.Warn("PATCH /reservations/{id} - Transaction unavailable: id=%d, error=%v", id, err)
			handlers.RespondUnavailable(w, msgTryAgain)

		default:
			h.logger.Error("PATCH /reservations/{id} - Failed to update reservation: id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id} - Reservation updated: id=%d, status=%s->%s",
		id, result.PreviousStatus, result.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
