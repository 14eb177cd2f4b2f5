package update_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

// parsedRequest разобранные поля запроса
type parsedRequest struct {
	status *domain.ReservationStatus
	slotID *int64
	date   *time.Time
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) (*parsedRequest, error) {
	if req.ID <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}

	if req.Status == nil && req.SlotID == nil && req.ScheduledDate == nil && req.Notes == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	parsed := &parsedRequest{slotID: req.SlotID}

	if req.Status != nil {
		status, err := domain.ParseReservationStatus(*req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: status %q is not a known status", ErrInvalidInput, *req.Status)
		}
		parsed.status = &status
	}

	if req.SlotID != nil && *req.SlotID <= 0 {
		return nil, fmt.Errorf("%w: slotId must be positive", ErrInvalidInput)
	}

	if req.ScheduledDate != nil {
		date, err := domain.ParseScheduledDate(*req.ScheduledDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		parsed.date = &date
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes is too long (max %d)", ErrInvalidInput, domain.MaxNotesLength)
	}

	return parsed, nil
}

// slotsToLock возвращает смены для блокировки в порядке возрастания ID,
// чтобы две встречные переброски не ждали друг друга
func slotsToLock(oldSlotID, newSlotID int64) []int64 {
	if oldSlotID == newSlotID {
		return []int64{oldSlotID}
	}
	if oldSlotID < newSlotID {
		return []int64{oldSlotID, newSlotID}
	}
	return []int64{newSlotID, oldSlotID}
}
