package get_slot_availability

import (
	"time"
)

// Request запрос занятости одной смены на дату
type Request struct {
	SlotID int64
	Date   string // YYYY-MM-DD или RFC3339
}

// DayRequest запрос занятости всех смен на дату
type DayRequest struct {
	Date string
}

// SlotAvailability занятость смены на конкретную дату
type SlotAvailability struct {
	SlotID    int64
	ShiftName string
	StartTime string
	EndTime   string
	Date      time.Time

	// Free свободна ли смена в этот день (по журналу бронирований)
	Free bool
	// IsAvailable кэшированный флаг смены, общий для всех дат
	IsAvailable bool
	// ReservationID бронь, занявшая смену в этот день
	ReservationID *int64
}

// DayResponse занятость всех смен на дату, по времени начала
type DayResponse struct {
	Date  time.Time
	Slots []SlotAvailability
}
