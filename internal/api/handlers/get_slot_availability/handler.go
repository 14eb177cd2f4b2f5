package get_slot_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RepairService/internal/api/handlers"
	getSlotAvailability "github.com/m04kA/SMC-RepairService/internal/usecase/get_slot_availability"
)

const (
	msgInvalidSlotID = "некорректный ID смены"
	msgMissingDate   = "параметр date обязателен"
	msgSlotNotFound  = "смена не найдена"
)

type Handler struct {
	useCase SlotAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase SlotAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/slots/{slotId}/availability?date=2025-03-01
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := strconv.ParseInt(mux.Vars(r)["slotId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /slots/{slotId}/availability - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		h.logger.Warn("GET /slots/{slotId}/availability - Missing date: slot_id=%d", slotID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getSlotAvailability.Request{SlotID: slotID, Date: date})
	if err != nil {
		h.respondError(w, "GET /slots/{slotId}/availability", err)
		return
	}

	h.logger.Info("GET /slots/{slotId}/availability - slot_id=%d, date=%s, free=%t", slotID, date, result.Free)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// HandleForDate GET /api/v1/slots/availability?date=2025-03-01
func (h *Handler) HandleForDate(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		h.logger.Warn("GET /slots/availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	result, err := h.useCase.ExecuteForDate(r.Context(), &getSlotAvailability.DayRequest{Date: date})
	if err != nil {
		h.respondError(w, "GET /slots/availability", err)
		return
	}

	h.logger.Info("GET /slots/availability - date=%s, slots=%d", date, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseDayResponse(result))
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, getSlotAvailability.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, handlers.Detail(err, getSlotAvailability.ErrInvalidInput))

	case errors.Is(err, getSlotAvailability.ErrSlotNotFound):
		h.logger.Warn("%s - Slot not found", route)
		handlers.RespondNotFound(w, msgSlotNotFound)

	default:
		h.logger.Error("%s - Failed to get availability: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
