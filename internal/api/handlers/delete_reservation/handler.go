package delete_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RepairService/internal/api/handlers"
	deleteReservation "github.com/m04kA/SMC-RepairService/internal/usecase/delete_reservation"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgNotFound             = "бронирование не найдено"
	msgInProgress           = "нельзя удалить бронирование с ремонтом в работе"
	msgTryAgain             = "сервис временно недоступен, повторите запрос"
)

type Handler struct {
	useCase DeleteReservationUseCase
	logger  Logger
}

func NewHandler(useCase DeleteReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/reservations/{id} (админка)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /reservations/{id} - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	if err := h.useCase.Execute(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, deleteReservation.ErrInvalidInput):
			h.logger.Warn("DELETE /reservations/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidReservationID)

		case errors.Is(err, deleteReservation.ErrReservationNotFound):
			h.logger.Warn("DELETE /reservations/{id} - Reservation not found: id=%d", id)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, deleteReservation.ErrReservationInProgress):
			h.logger.Warn("DELETE /reservations/{id} - Reservation in progress: id=%d", id)
			handlers.RespondConflict(w, msgInProgress, nil)

		case errors.Is(err, deleteReservation.ErrUnavailable):
			h.logger.Warn("DELETE /reservations/{id} - Transaction unavailable: id=%d, error=%v", id, err)
			handlers.RespondUnavailable(w, msgTryAgain)

		default:
			h.logger.Error("DELETE /reservations/{id} - Failed to delete reservation: id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /reservations/{id} - Reservation deleted: id=%d", id)
	handlers.RespondNoContent(w)
}
