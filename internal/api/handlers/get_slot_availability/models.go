package get_slot_availability

import (
	"github.com/m04kA/SMC-RepairService/internal/domain"
	getSlotAvailability "github.com/m04kA/SMC-RepairService/internal/usecase/get_slot_availability"
)

// SlotAvailabilityResponse занятость смены на дату
type SlotAvailabilityResponse struct {
	SlotID    int64  `json:"slotId"`
	ShiftName string `json:"shiftName"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Date      string `json:"date"`
	// Free ответ по журналу бронирований на эту дату
	Free bool `json:"free"`
	// IsAvailable кэшированный флаг смены (общий для всех дат)
	IsAvailable   bool   `json:"isAvailable"`
	ReservationID *int64 `json:"reservationId,omitempty"`
}

// DayAvailabilityResponse занятость всех смен на дату
type DayAvailabilityResponse struct {
	Date  string                     `json:"date"`
	Slots []SlotAvailabilityResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(s *getSlotAvailability.SlotAvailability) SlotAvailabilityResponse {
	return SlotAvailabilityResponse{
		SlotID:        s.SlotID,
		ShiftName:     s.ShiftName,
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		Date:          s.Date.Format(domain.DateFormat),
		Free:          s.Free,
		IsAvailable:   s.IsAvailable,
		ReservationID: s.ReservationID,
	}
}

// FromUseCaseDayResponse конвертирует занятость на день
func FromUseCaseDayResponse(resp *getSlotAvailability.DayResponse) *DayAvailabilityResponse {
	result := &DayAvailabilityResponse{
		Date:  resp.Date.Format(domain.DateFormat),
		Slots: make([]SlotAvailabilityResponse, 0, len(resp.Slots)),
	}
	for i := range resp.Slots {
		result.Slots = append(result.Slots, FromUseCaseResponse(&resp.Slots[i]))
	}
	return result
}
