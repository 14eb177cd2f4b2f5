package update_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RepairService/internal/api/handlers"
	"github.com/m04kA/SMC-RepairService/internal/service/slots"
	"github.com/m04kA/SMC-RepairService/internal/service/slots/models"
)

const (
	msgInvalidSlotID  = "некорректный ID смены"
	msgInvalidRequest = "некорректный формат запроса"
	msgNotFound       = "смена не найдена"
	msgDuplicateName  = "смена с таким названием уже существует"
	msgOverlap        = "время смены пересекается с другой сменой"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/slots/{slotId} (админка)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := strconv.ParseInt(mux.Vars(r)["slotId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /slots/{slotId} - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req models.UpdateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /slots/{slotId} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequest)
		return
	}

	result, err := h.service.Update(r.Context(), slotID, &req)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("PUT /slots/{slotId} - Invalid input: slot_id=%d, error=%v", slotID, err)
			handlers.RespondBadRequest(w, handlers.Detail(err, slots.ErrInvalidInput))

		case errors.Is(err, slots.ErrSlotNotFound):
			h.logger.Warn("PUT /slots/{slotId} - Slot not found: slot_id=%d", slotID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, slots.ErrDuplicateShiftName):
			h.logger.Warn("PUT /slots/{slotId} - Duplicate shift name: slot_id=%d", slotID)
			handlers.RespondConflict(w, msgDuplicateName, nil)

		case errors.Is(err, slots.ErrSlotOverlap):
			h.logger.Warn("PUT /slots/{slotId} - Overlapping slot: slot_id=%d", slotID)
			handlers.RespondConflict(w, msgOverlap, nil)

		default:
			h.logger.Error("PUT /slots/{slotId} - Failed to update slot: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /slots/{slotId} - Slot updated: slot_id=%d", slotID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
