package create_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RepairService/internal/api/handlers"
	"github.com/m04kA/SMC-RepairService/internal/service/slots"
	"github.com/m04kA/SMC-RepairService/internal/service/slots/models"
)

const (
	msgInvalidRequest = "некорректный формат запроса"
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

// Handle POST /api/v1/slots (админка)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequest)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("POST /slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, handlers.Detail(err, slots.ErrInvalidInput))

		case errors.Is(err, slots.ErrDuplicateShiftName):
			h.logger.Warn("POST /slots - Duplicate shift name: %q", req.ShiftName)
			handlers.RespondConflict(w, msgDuplicateName, nil)

		case errors.Is(err, slots.ErrSlotOverlap):
			h.logger.Warn("POST /slots - Overlapping slot: %s-%s", req.StartTime, req.EndTime)
			handlers.RespondConflict(w, msgOverlap, nil)

		default:
			h.logger.Error("POST /slots - Failed to create slot: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots - Slot created: id=%d, name=%q", result.ID, result.ShiftName)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
